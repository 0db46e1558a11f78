package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/barstock/internal/httpx"
	"github.com/georgemunganga/barstock/internal/modules/user"
)

type Handler struct {
	sessions *Sessions
	logger   *slog.Logger
}

// NewHandler exposes identity endpoints. sessions may be nil.
func NewHandler(sessions *Sessions, logger *slog.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// RegisterRoutes mounts routes that require an authenticated user.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.me)
	if h.sessions != nil {
		r.Post("/auth/session", h.createSession)
	}
}

type meResponse struct {
	ID   int64     `json:"id"`
	Name string    `json:"name"`
	Role user.Role `json:"role"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpx.Error(w, h.logger, httpx.ErrUnauthorized)
		return
	}
	httpx.OK(w, map[string]any{"user": meResponse{ID: u.ID, Name: u.Name, Role: u.Role}})
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpx.Error(w, h.logger, httpx.ErrUnauthorized)
		return
	}
	if isDevBypass(r.Context()) {
		httpx.Error(w, h.logger, fmt.Errorf("%w: sessions are not issued to the dev user", httpx.ErrForbidden))
		return
	}
	token, expiresAt, err := h.sessions.Issue(Identity{ID: u.ID, Name: u.Name})
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, map[string]any{
		"token":      token,
		"expires_at": expiresAt.UTC(),
		"user":       meResponse{ID: u.ID, Name: u.Name, Role: u.Role},
	})
}
