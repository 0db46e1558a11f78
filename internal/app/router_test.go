package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/barstock/internal/config"
	"github.com/georgemunganga/barstock/internal/database/dbtest"
	"github.com/georgemunganga/barstock/internal/modules/auth"
	"github.com/georgemunganga/barstock/internal/notify"
)

const botToken = "42:router-test"

type captureNotifier struct {
	mu        sync.Mutex
	summaries []notify.Summary
}

func (c *captureNotifier) NotifyRequisition(_ context.Context, s notify.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries = append(c.summaries, s)
}

type client struct {
	t        *testing.T
	h        http.Handler
	initData string
}

func (c client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.initData != "" {
		req.Header.Set(auth.HeaderInitData, c.initData)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func signedFor(id int64, name string) string {
	fields := url.Values{}
	fields.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	fields.Set("user", `{"id":`+strconv.FormatInt(id, 10)+`,"first_name":"`+name+`"}`)
	return auth.SignInitData(fields, botToken)
}

func newTestApp(t *testing.T) (*App, *captureNotifier) {
	cfg := &config.Config{
		AppEnv:             "test",
		BotToken:           botToken,
		AdminIDs:           []int64{1},
		RateLimitPerMinute: 1000,
		SessionSecret:      "secret",
		SessionTTL:         time.Hour,
	}
	notifier := &captureNotifier{}
	a, err := New(cfg, dbtest.New(t), slog.New(slog.NewTextHandler(io.Discard, nil)), notifier)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, notifier
}

func TestRouterEndToEnd(t *testing.T) {
	a, notifier := newTestApp(t)
	anon := client{t: t, h: a.Handler}
	admin := client{t: t, h: a.Handler, initData: signedFor(1, "Boss")}
	staff := client{t: t, h: a.Handler, initData: signedFor(2, "Ivan")}

	code, _ := anon.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, code)

	code, body := anon.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["ok"])

	code, _ = staff.do(http.MethodGet, "/api/admin/suppliers", nil)
	require.Equal(t, http.StatusForbidden, code)

	code, body = admin.do(http.MethodPost, "/api/admin/suppliers", map[string]any{"name": "Metro"})
	require.Equal(t, http.StatusOK, code, body)
	supplierID := body["supplier"].(map[string]any)["id"]

	code, body = admin.do(http.MethodPost, "/api/admin/products", map[string]any{
		"name": "Lime", "unit": "kg", "supplier_id": supplierID,
	})
	require.Equal(t, http.StatusOK, code, body)
	productID := body["product"].(map[string]any)["id"]

	code, body = staff.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["products"], 1)

	code, body = staff.do(http.MethodPost, "/api/requisitions", map[string]any{
		"items": []map[string]any{{"product_id": productID, "qty": 3}},
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["ok"])
	assert.NotZero(t, body["requisition_id"])

	require.Len(t, notifier.summaries, 1)
	assert.Equal(t, "Ivan", notifier.summaries[0].Author)

	code, body = admin.do(http.MethodGet, "/api/admin/requisitions", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["requisitions"], 1)

	code, body = admin.do(http.MethodGet, "/api/admin/users", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["users"], 2)

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "barstock_requisitions_created_total 1")
}

func TestRouterSecurityHeaders(t *testing.T) {
	a, _ := newTestApp(t)
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
