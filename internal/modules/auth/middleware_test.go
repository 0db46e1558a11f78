package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/barstock/internal/modules/user"
)

func newRouter(a *Authenticator, sessions *Sessions) http.Handler {
	r := chi.NewRouter()
	r.Use(a.Middleware)
	NewHandler(sessions, a.logger).RegisterRoutes(r)
	r.With(AdminOnly).Get("/admin/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func TestMiddlewareMissingCredentials(t *testing.T) {
	store := &countingStore{}
	h := newRouter(newTestAuthenticator(testConfig(), store, nil), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"unauthorized: missing initData"}`, rec.Body.String())
	assert.Zero(t, store.calls)
}

func TestMiddlewareCredentialSources(t *testing.T) {
	data := initDataFor(`{"id":100,"first_name":"Boss"}`, time.Now())
	h := newRouter(newTestAuthenticator(testConfig(), &countingStore{}, nil), nil)

	requests := map[string]*http.Request{
		"header":         httptest.NewRequest(http.MethodGet, "/me", nil),
		"query initData": httptest.NewRequest(http.MethodGet, "/me?initData="+url.QueryEscape(data), nil),
		"query __tg":     httptest.NewRequest(http.MethodGet, "/me?__tg="+url.QueryEscape(data), nil),
		"double encoded": httptest.NewRequest(http.MethodGet, "/me", nil),
	}
	requests["header"].Header.Set(HeaderInitData, data)
	requests["double encoded"].Header.Set(HeaderInitData, url.QueryEscape(data))

	for name, req := range requests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp struct {
				OK   bool `json:"ok"`
				User struct {
					ID   int64     `json:"id"`
					Name string    `json:"name"`
					Role user.Role `json:"role"`
				} `json:"user"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.True(t, resp.OK)
			assert.Equal(t, int64(100), resp.User.ID)
			assert.Equal(t, user.RoleAdmin, resp.User.Role)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	h := newRouter(newTestAuthenticator(testConfig(), &countingStore{}, nil), nil)

	staff := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	staff.Header.Set(HeaderInitData, initDataFor(`{"id":5}`, time.Now()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, staff)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"admin only"}`, rec.Body.String())

	admin := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	admin.Header.Set(HeaderInitData, initDataFor(`{"id":100}`, time.Now()))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, admin)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSessionEndpoint(t *testing.T) {
	sessions, err := NewSessions("s3cret", time.Hour)
	require.NoError(t, err)
	h := newRouter(newTestAuthenticator(testConfig(), &countingStore{}, sessions), sessions)

	req := httptest.NewRequest(http.MethodPost, "/auth/session", nil)
	req.Header.Set(HeaderInitData, initDataFor(`{"id":5,"first_name":"Ivan"}`, time.Now()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	me := httptest.NewRequest(http.MethodGet, "/me", nil)
	me.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, me)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ivan"`)
}

func TestSessionEndpointRefusesDevBypass(t *testing.T) {
	sessions, err := NewSessions("s3cret", time.Hour)
	require.NoError(t, err)
	cfg := testConfig()
	cfg.DevAllowUnsafe = true
	h := newRouter(newTestAuthenticator(cfg, &countingStore{}, sessions), sessions)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Dev User"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/session", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"forbidden: sessions are not issued to the dev user"}`, rec.Body.String())

	signed := httptest.NewRequest(http.MethodPost, "/auth/session", nil)
	signed.Header.Set(HeaderInitData, initDataFor(`{"id":5,"first_name":"Ivan"}`, time.Now()))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, signed)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
