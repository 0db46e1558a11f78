package requisition

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/georgemunganga/barstock/internal/httpx"
	"github.com/georgemunganga/barstock/internal/modules/user"
)

type Handler struct {
	service   Service
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger, validator: validator.New()}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/requisitions", h.submit)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/requisitions", h.list)
	r.Get("/requisitions/{id}", h.get)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		httpx.Error(w, h.logger, httpx.ErrUnauthorized)
		return
	}
	var req SubmitRequest
	if err := httpx.Bind(r, h.validator, &req); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	id, err := h.service.Submit(r.Context(), u.ID, req.Items)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, map[string]any{"requisition_id": id})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.List(r.Context(), limit)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, map[string]any{"requisitions": list})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "bad id")
		return
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, map[string]any{"requisition": d, "orders": d.Orders})
}
