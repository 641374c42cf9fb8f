package account

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/imagedrop/service/internal/response"
)

// Handler holds HTTP handlers for account endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new account Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileBody struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	u, err := h.svc.Register(r.Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrDuplicateEmail):
			response.Conflict(w, err.Error())
		default:
			log.Printf("account: register failed: %v", err)
			response.InternalError(w)
		}
		return
	}

	response.Created(w, map[string]interface{}{"user": u})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	tok, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, err.Error())
		default:
			log.Printf("account: login failed: %v", err)
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"token": tok})
}

// Me handles GET /me. The auth gate has already attached the account; the
// profile is re-read so a concurrently deleted account surfaces as 404.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u := FromContext(r.Context())
	if u == nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	fresh, err := h.svc.GetByID(r.Context(), u.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "account not found")
			return
		}
		log.Printf("account: get profile %q: %v", u.ID, err)
		response.InternalError(w)
		return
	}

	response.OK(w, profileBody{
		ID:        fresh.ID,
		Username:  fresh.Username,
		FullName:  fresh.FullName,
		Role:      fresh.Role,
		Bio:       fresh.Bio,
		UpdatedAt: fresh.UpdatedAt,
	})
}

// Logout handles POST /logout. Tokens are stateless and expire on their
// own; there is nothing to invalidate server-side.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"message": "logged out"})
}
