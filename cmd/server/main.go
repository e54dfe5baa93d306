package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"heritage/internal/api"
	"heritage/internal/archive"
	"heritage/internal/auth"
	"heritage/internal/env"
	"heritage/internal/events"
	"heritage/internal/metrics"
	"heritage/internal/users"
	"heritage/pkg/gemini"
	"heritage/pkg/graceful"
	"heritage/pkg/overpass"
)

func main() {
	env.LoadEnv()
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	fetcher := overpass.NewClient(
		env.GetEnv("OVERPASS_PRIMARY", overpass.DefaultPrimary),
		env.GetEnv("OVERPASS_FALLBACK", overpass.DefaultFallback),
	)
	fetcher.OnAttempt = func(endpoint string, ok bool) {
		outcome := "failure"
		if ok {
			outcome = "success"
		}
		metrics.EndpointAttemptsTotal.WithLabelValues(endpoint, outcome).Inc()
	}

	generator := gemini.NewClient(os.Getenv("GEMINI_API_KEY"))
	if !generator.Configured() {
		log.Println("GEMINI_API_KEY not set; description and chat endpoints will report it as missing.")
	}

	var userStore *users.Store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			log.Fatalf("Failed to create postgres pool: %v", err)
		}
		defer pool.Close()
		userStore = users.NewStore(pool)
		if err := userStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure users schema: %v", err)
		}
		log.Println("User store ready.")
	} else {
		log.Println("DATABASE_URL not set; registration and login are disabled.")
	}

	var publisher *events.Publisher
	broker, topic := os.Getenv("KAFKA_BROKER"), os.Getenv("KAFKA_TOPIC")
	if broker != "" && topic != "" {
		publisher = events.NewPublisher(broker, topic)
		defer publisher.Close()
		log.Printf("Publishing search events to Kafka broker %s, topic %s", broker, topic)
	} else {
		log.Println("Kafka not configured; search events are not published.")
	}

	var archiver *archive.Service
	if os.Getenv("MINIO_ENDPOINT") != "" {
		var err error
		archiver, err = archive.NewFromEnv()
		if err != nil {
			log.Fatalf("Failed to initialize archive storage: %v", err)
		}
		if err := archiver.EnsureBucket(ctx); err != nil {
			log.Fatalf("Failed to ensure archive bucket: %v", err)
		}
	} else {
		log.Println("MinIO not configured; raw search payloads are not archived.")
	}

	handler := api.NewHandler(api.Config{
		Logger:    logger,
		Fetcher:   fetcher,
		Generator: generator,
		Users:     userStore,
		Tokens:    auth.NewManager(env.MustGetEnv("SECRET_KEY")),
		Publisher: publisher,
		Archiver:  archiver,
	})

	addr := env.GetEnv("ADDR", ":8080")
	server := &http.Server{
		Addr:    addr,
		Handler: handler.Router(),
	}

	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped gracefully.")
}
