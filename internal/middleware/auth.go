package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/imagedrop/service/internal/account"
	"github.com/imagedrop/service/internal/response"
)

// TokenVerifier validates a bearer token and returns the subject id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AccountResolver looks up the account named by a token subject.
type AccountResolver interface {
	GetByID(ctx context.Context, id string) (*account.User, error)
}

// RequireAuth returns middleware that gates requests behind bearer-token
// authentication. Exactly four terminal outcomes exist: 401 when the header
// is missing or not a Bearer scheme, 403 when the token is invalid/expired
// or its subject no longer exists, and pass-through with the resolved
// account attached to the request context.
func RequireAuth(tokens TokenVerifier, accounts AccountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "invalid authorization header format")
				return
			}

			subjectID, err := tokens.Verify(parts[1])
			if err != nil {
				response.Forbidden(w, "invalid or expired token")
				return
			}

			u, err := accounts.GetByID(r.Context(), subjectID)
			if err != nil {
				if errors.Is(err, account.ErrNotFound) {
					response.Forbidden(w, "invalid or expired token")
					return
				}
				log.Printf("auth: resolve subject %q: %v", subjectID, err)
				response.InternalError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(account.NewContext(r.Context(), u)))
		})
	}
}
