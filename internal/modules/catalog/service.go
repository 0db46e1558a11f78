package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/georgemunganga/barstock/internal/httpx"
	"github.com/georgemunganga/barstock/internal/modules/supplier"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	ListActiveProducts(ctx context.Context) ([]*Product, error)
	ListAllProducts(ctx context.Context) ([]*Product, error)
	UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// SupplierGetter is the part of the supplier module the catalog needs.
type SupplierGetter interface {
	GetSupplier(ctx context.Context, id int64) (*supplier.Supplier, error)
}

type service struct {
	repo      Repository
	suppliers SupplierGetter
}

func NewService(repo Repository, suppliers SupplierGetter) Service {
	return &service{repo: repo, suppliers: suppliers}
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) < 2 {
		return nil, fmt.Errorf("%w: product name is too short", httpx.ErrValidation)
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		return nil, fmt.Errorf("%w: unit is required", httpx.ErrValidation)
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}
	sup, err := s.activeSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	p := &Product{
		Name:         name,
		Unit:         unit,
		Category:     category,
		SupplierID:   sup.ID,
		SupplierName: sup.Name,
		Active:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListActiveProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) ListAllProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if utf8.RuneCountInString(name) < 2 {
			return nil, fmt.Errorf("%w: product name is too short", httpx.ErrValidation)
		}
		p.Name = name
	}
	if req.Unit != nil {
		unit := strings.TrimSpace(*req.Unit)
		if unit == "" {
			return nil, fmt.Errorf("%w: unit is required", httpx.ErrValidation)
		}
		p.Unit = unit
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
		if p.Category == "" {
			p.Category = DefaultCategory
		}
	}
	if req.SupplierID != nil && *req.SupplierID != p.SupplierID {
		sup, err := s.activeSupplier(ctx, *req.SupplierID)
		if err != nil {
			return nil, err
		}
		p.SupplierID, p.SupplierName = sup.ID, sup.Name
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) activeSupplier(ctx context.Context, id int64) (*supplier.Supplier, error) {
	sup, err := s.suppliers.GetSupplier(ctx, id)
	if errors.Is(err, httpx.ErrNotFound) {
		return nil, fmt.Errorf("%w: supplier %d not found", httpx.ErrValidation, id)
	}
	if err != nil {
		return nil, err
	}
	if !sup.Active {
		return nil, fmt.Errorf("%w: supplier %q is deactivated", httpx.ErrValidation, sup.Name)
	}
	return sup, nil
}
