package catalog

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/georgemunganga/barstock/internal/httpx"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service   Service
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger, validator: validator.New()}
}

// RegisterRoutes mounts the staff catalog.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.listActive)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/products", h.listAll)
	r.Post("/products", h.createProduct)
	r.Patch("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)
}

func (h *Handler) listActive(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListActiveProducts(r.Context())
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, map[string]any{"products": products})
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAllProducts(r.Context())
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, map[string]any{"products": products})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.Bind(r, h.validator, &req); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, map[string]any{"product": p})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	var req UpdateProductRequest
	if err := httpx.Bind(r, h.validator, &req); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, map[string]any{"product": p})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, nil)
}

func productID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id", httpx.ErrValidation)
	}
	return id, nil
}
