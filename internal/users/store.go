// Package users persists user accounts in Postgres via pgx.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates no user matched the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate indicates the email or username is already taken.
	ErrDuplicate = errors.New("email or username already exists")
)

// User is a registered account. Password holds the bcrypt hash, never the
// plaintext.
type User struct {
	ID       int64
	Name     string
	Username string
	Email    string
	Password string
	State    string
	Bio      string
}

// Store reads and writes users.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store over the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the users table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         BIGSERIAL PRIMARY KEY,
			name       TEXT NOT NULL,
			username   TEXT NOT NULL UNIQUE,
			email      TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			state      TEXT NOT NULL DEFAULT '',
			bio        TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensuring users schema: %w", err)
	}
	return nil
}

// Create inserts a user and returns its id. A unique-constraint violation on
// username or email maps to ErrDuplicate.
func (s *Store) Create(ctx context.Context, u User) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (name, username, email, password, state, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		u.Name, u.Username, u.Email, u.Password, u.State, u.Bio,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("creating user: %w", err)
	}
	return id, nil
}

// ByUsername fetches a user by username, returning ErrNotFound when absent.
func (s *Store) ByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, username, email, password, state, bio
		FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Password, &u.State, &u.Bio)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user %q: %w", username, err)
	}
	return &u, nil
}
