/*
Package account contains the account record and its PostgreSQL-backed store.

Accounts are created on registration and never modified or deleted afterwards.
Username uniqueness is enforced by the database constraint; callers translate
the unique violation into a conflict error.
*/
package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Account represents a registered user. The password hash never leaves the server.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = pgx.ErrNoRows

// Store persists accounts in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts a new account with the given username and password hash.
// A duplicate username surfaces as a unique violation from the database.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (Account, error) {
	a := Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO accounts (id, username, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		a.ID, a.Username, a.PasswordHash,
	).Scan(&a.CreatedAt)

	if err != nil {
		return Account{}, err
	}

	return a, nil
}

// GetByUsername fetches the account with the given username.
func (s *Store) GetByUsername(ctx context.Context, username string) (Account, error) {
	var a Account

	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM accounts
		 WHERE username = $1`,
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)

	if err != nil {
		return Account{}, err
	}

	return a, nil
}
