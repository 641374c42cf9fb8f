package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagedrop/service/internal/account"
)

type fakeVerifier struct {
	subject string
	err     error
}

func (f fakeVerifier) Verify(string) (string, error) {
	return f.subject, f.err
}

type fakeResolver struct {
	user *account.User
	err  error
}

func (f fakeResolver) GetByID(context.Context, string) (*account.User, error) {
	return f.user, f.err
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	validUser := &account.User{ID: "acct-1", Email: "a@x.com"}

	tests := []struct {
		name       string
		header     string
		verifier   fakeVerifier
		resolver   fakeResolver
		wantStatus int
		wantPass   bool
	}{
		{
			name:       "no header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer scheme",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid or expired token",
			header:     "Bearer bad-token",
			verifier:   fakeVerifier{err: errors.New("invalid or expired token")},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid token but subject vanished",
			header:     "Bearer good-token",
			verifier:   fakeVerifier{subject: "acct-1"},
			resolver:   fakeResolver{err: account.ErrNotFound},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid token and subject found",
			header:     "Bearer good-token",
			verifier:   fakeVerifier{subject: "acct-1"},
			resolver:   fakeResolver{user: validUser},
			wantStatus: http.StatusOK,
			wantPass:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var reached bool
			var attached *account.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				attached = account.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			RequireAuth(tt.verifier, tt.resolver)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantPass, reached)
			if tt.wantPass {
				require.NotNil(t, attached)
				assert.Equal(t, validUser.ID, attached.ID)
			}
		})
	}
}
