package order_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/barstock/internal/modules/order"
)

func TestHandlerRoutes(t *testing.T) {
	f := setup(t)
	r := chi.NewRouter()
	order.NewHandler(f.svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterAdminRoutes(r)

	oid := strconv.FormatInt(f.orderID, 10)
	iid := strconv.FormatInt(f.itemID, 10)

	tests := []struct {
		name, path, body string
		want             int
	}{
		{"approve", "/orders/" + oid + "/status", `{"status":"approved"}`, http.StatusOK},
		{"skip ahead", "/orders/" + oid + "/status", `{"status":"received"}`, http.StatusUnprocessableEntity},
		{"missing status", "/orders/" + oid + "/status", `{}`, http.StatusBadRequest},
		{"bad id", "/orders/x/status", `{"status":"draft"}`, http.StatusBadRequest},
		{"adjust", "/orders/" + oid + "/items/" + iid, `{"qty_final":4}`, http.StatusOK},
		{"negative", "/orders/" + oid + "/items/" + iid, `{"qty_final":-4}`, http.StatusBadRequest},
		{"foreign item", "/orders/" + oid + "/items/9999", `{"qty_final":1}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"ok"`)
		})
	}
}
