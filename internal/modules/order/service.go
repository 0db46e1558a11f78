package order

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/georgemunganga/barstock/internal/httpx"
)

// Service defines order administration.
type Service interface {
	// UpdateStatus moves an order along the draft/approved/ordered/received
	// lifecycle.
	UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*Order, error)

	// AdjustItem sets the final quantity or note of one order line.
	AdjustItem(ctx context.Context, orderID, itemID int64, req AdjustItemRequest) (*Item, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

var validTransitions = map[Status][]Status{
	StatusDraft:    {StatusApproved},
	StatusApproved: {StatusDraft, StatusOrdered},
	StatusOrdered:  {StatusApproved, StatusReceived},
	StatusReceived: {},
}

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := validTransitions[st]; !ok {
		return "", fmt.Errorf("%w: unknown order status %q", httpx.ErrValidation, s)
	}
	return st, nil
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	return slices.Contains(validTransitions[from], to)
}

func (s *service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*Order, error) {
	newStatus, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == newStatus {
		return o, nil
	}
	if !CanTransition(o.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", httpx.ErrUnprocessable, o.Status, newStatus)
	}
	if err := s.repo.UpdateStatus(ctx, id, o.Status, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	return o, nil
}

func (s *service) AdjustItem(ctx context.Context, orderID, itemID int64, req AdjustItemRequest) (*Item, error) {
	if req.QtyFinal == nil && req.Note == nil {
		return nil, fmt.Errorf("%w: nothing to update", httpx.ErrValidation)
	}
	if req.QtyFinal != nil {
		q := *req.QtyFinal
		if q < 0 || math.IsNaN(q) || math.IsInf(q, 0) {
			return nil, fmt.Errorf("%w: qty_final must be a non-negative number", httpx.ErrValidation)
		}
	}

	it, err := s.repo.GetItem(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}
	if req.QtyFinal != nil {
		it.QtyFinal = *req.QtyFinal
	}
	if req.Note != nil {
		note := strings.TrimSpace(*req.Note)
		if note == "" {
			it.Note = nil
		} else {
			it.Note = &note
		}
	}
	if err := s.repo.UpdateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}
