package order

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/georgemunganga/barstock/internal/httpx"
)

type Handler struct {
	service   Service
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger, validator: validator.New()}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/orders/{id}/status", h.updateStatus)
	r.Post("/orders/{orderID}/items/{itemID}", h.adjustItem)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlInt(r, "id")
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	var req UpdateStatusRequest
	if err := httpx.Bind(r, h.validator, &req); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), id, req)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, map[string]any{"order": o})
}

func (h *Handler) adjustItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := urlInt(r, "orderID")
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	itemID, err := urlInt(r, "itemID")
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	var req AdjustItemRequest
	if err := httpx.Bind(r, h.validator, &req); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	it, err := h.service.AdjustItem(r.Context(), orderID, itemID, req)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, map[string]any{"item": it})
}

func urlInt(r *http.Request, key string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s", httpx.ErrValidation, key)
	}
	return v, nil
}
