// Package env centralizes environment configuration for the server.
package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file when present. This is typically used in a
// development environment; production sets variables directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set directly.")
	}
}

// MustGetEnv returns the value of a required environment variable, exiting
// when it is unset.
func MustGetEnv(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		log.Fatalf("Environment variable %s not set", key)
	}
	return val
}

// GetEnv returns the value of an environment variable, or fallback when the
// variable is unset or empty.
func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
