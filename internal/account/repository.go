package account

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an account does not exist.
var ErrNotFound = errors.New("account not found")

// ErrDuplicateEmail is returned when an email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository abstracts account persistence.
type Repository interface {
	// Create inserts a new account and returns the stored record.
	// Fails with ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, u *User) (*User, error)
	// GetByEmail fetches an account by email, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID fetches an account by id, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*User, error)
}
