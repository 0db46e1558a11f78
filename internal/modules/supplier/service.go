package supplier

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/georgemunganga/barstock/internal/httpx"
)

type Service interface {
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*Supplier, error)
	GetSupplier(ctx context.Context, id int64) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, req UpdateSupplierRequest) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*Supplier, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	sup := &Supplier{
		Name:        name,
		ContactNote: strings.TrimSpace(req.ContactNote),
		Active:      true,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) GetSupplier(ctx context.Context, id int64) (*Supplier, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateSupplier(ctx context.Context, id int64, req UpdateSupplierRequest) (*Supplier, error) {
	sup, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if sup.Name, err = cleanName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactNote != nil {
		sup.ContactNote = strings.TrimSpace(*req.ContactNote)
	}
	if req.Active != nil {
		sup.Active = *req.Active
	}
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) DeleteSupplier(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return "", fmt.Errorf("%w: supplier name is too short", httpx.ErrValidation)
	}
	return name, nil
}
