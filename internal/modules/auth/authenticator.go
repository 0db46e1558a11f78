package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/georgemunganga/barstock/internal/config"
	"github.com/georgemunganga/barstock/internal/httpx"
	"github.com/georgemunganga/barstock/internal/modules/user"
)

// DevUserName is the display name of the development bypass identity.
const DevUserName = "Dev User"

// Credentials are what a request presented to prove its identity.
type Credentials struct {
	InitData    string
	BearerToken string
}

func (c Credentials) empty() bool {
	return c.InitData == "" && c.BearerToken == ""
}

// UserStore persists users seen at login.
type UserStore interface {
	Upsert(ctx context.Context, u *user.User) error
}

// Authenticator turns credentials into a stored user with a resolved role.
type Authenticator struct {
	cfg      *config.Config
	users    UserStore
	sessions *Sessions
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthenticator creates an Authenticator. sessions may be nil, in which
// case bearer tokens are rejected.
func NewAuthenticator(cfg *config.Config, users UserStore, sessions *Sessions, logger *slog.Logger) *Authenticator {
	return &Authenticator{cfg: cfg, users: users, sessions: sessions, logger: logger, now: time.Now}
}

// Authenticate verifies creds, resolves the role from the admin allow-list and
// upserts the user. Missing credentials fail before touching the store.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (*user.User, error) {
	id, err := a.identify(creds)
	if err != nil {
		return nil, err
	}

	u := &user.User{ID: id.ID, Name: id.Name, Role: user.RoleStaff}
	if a.cfg.IsAdmin(id.ID) {
		u.Role = user.RoleAdmin
	}
	if err := a.users.Upsert(ctx, u); err != nil {
		return nil, fmt.Errorf("upsert user %d: %w", u.ID, err)
	}
	return u, nil
}

func (a *Authenticator) identify(creds Credentials) (*Identity, error) {
	if creds.empty() {
		if a.cfg.DevAllowUnsafe {
			return &Identity{ID: a.cfg.DevUserID, Name: DevUserName, AuthDate: a.now()}, nil
		}
		return nil, ErrMissingCredentials
	}

	if creds.BearerToken != "" {
		if a.sessions == nil {
			return nil, fmt.Errorf("%w: session tokens are disabled", httpx.ErrUnauthorized)
		}
		return a.sessions.Parse(creds.BearerToken)
	}

	if a.cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: bot token is not configured", httpx.ErrUnauthorized)
	}
	id, err := VerifyInitData(creds.InitData, a.cfg.BotToken)
	if err != nil {
		return nil, err
	}
	if maxAge := a.cfg.InitDataMaxAge; maxAge > 0 {
		if id.AuthDate.IsZero() || a.now().Sub(id.AuthDate) > maxAge {
			return nil, ErrExpired
		}
	}
	return id, nil
}
