package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imagedrop/service/internal/token"
)

// ErrMissingFields is returned when email or password is absent.
var ErrMissingFields = errors.New("email and password are required")

// ErrInvalidCredentials is returned for every login failure. The message is
// uniform whether the email or the password was wrong, so accounts cannot
// be enumerated.
var ErrInvalidCredentials = errors.New("invalid email or password")

// RegisterInput carries the registration request fields. Username, FullName,
// and Role are optional.
type RegisterInput struct {
	Email    string
	Password string
	Username string
	FullName string
	Role     string
}

// Service contains the business logic for registration and login.
type Service struct {
	repo   Repository
	hasher *Hasher
	tokens *token.Service
}

// NewService creates an account Service.
func NewService(repo Repository, hasher *Hasher, tokens *token.Service) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates a new account. The email must be unused; the role is
// restricted to the whitelist and defaults to "user". The returned account
// carries no password hash.
//
// Uniqueness is pre-checked with a read before the insert; the database
// UNIQUE constraint backstops the race between the two.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	username := in.Username
	if username == "" {
		username = usernameFromEmail(in.Email)
	}
	role := in.Role
	if !validRoles[role] {
		role = RoleUser
	}

	created, err := s.repo.Create(ctx, &User{
		Email:        in.Email,
		Username:     username,
		FullName:     in.FullName,
		Role:         role,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	created.PasswordHash = ""
	return created, nil
}

// Login verifies the credentials and issues a bearer token bound to the
// account id. Every failure mode maps to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrMissingFields
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if u.PasswordHash == "" || !s.hasher.Check(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

// GetByID returns an account by its id.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// usernameFromEmail derives a default username from the email local part.
func usernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
