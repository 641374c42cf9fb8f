package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository handles all account database operations.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a repository with the given connection pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account and returns the created record.
func (r *PostgresRepository) Create(ctx context.Context, u *User) (*User, error) {
	created := &User{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, username, full_name, role, password_hash, bio)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, email, username, full_name, role, password_hash, bio, created_at, updated_at`,
		u.Email, u.Username, u.FullName, u.Role, u.PasswordHash, u.Bio,
	).Scan(&created.ID, &created.Email, &created.Username, &created.FullName,
		&created.Role, &created.PasswordHash, &created.Bio, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

// GetByEmail fetches an account by its email address.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.get(ctx, "email", email)
}

// GetByID fetches an account by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.get(ctx, "id", id)
}

func (r *PostgresRepository) get(ctx context.Context, column, value string) (*User, error) {
	u := &User{}
	err := r.db.QueryRow(ctx,
		fmt.Sprintf(
			`SELECT id, email, username, full_name, role, password_hash, bio, created_at, updated_at
			 FROM users WHERE %s = $1`, column),
		value,
	).Scan(&u.ID, &u.Email, &u.Username, &u.FullName,
		&u.Role, &u.PasswordHash, &u.Bio, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account by %s: %w", column, err)
	}
	return u, nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
