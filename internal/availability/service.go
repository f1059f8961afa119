package availability

import (
	"context"
	"fmt"
)

// Service recomputes remaining inventory on demand. Results are never
// cached: the stored available_quantity counters drift, so every consumer
// asks again, and the booking writer asks one more time right before
// inserting to narrow the race window.
type Service interface {
	Remaining(ctx context.Context, scope Scope, totalCapacity int) (int, error)
	Inventory(ctx context.Context, scope Scope, totalCapacity int) (*CategoryInventory, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Remaining(ctx context.Context, scope Scope, totalCapacity int) (int, error) {
	inv, err := s.Inventory(ctx, scope, totalCapacity)
	if err != nil {
		return 0, err
	}
	return inv.Remaining, nil
}

func (s *service) Inventory(ctx context.Context, scope Scope, totalCapacity int) (*CategoryInventory, error) {
	bookings, err := s.repo.ConfirmedBookings(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch confirmed bookings: %w", err)
	}

	booked := BookedCount(bookings, scope.CategoryName)
	inv := &CategoryInventory{
		CategoryName: scope.CategoryName,
		Total:        totalCapacity,
		Booked:       booked,
		Remaining:    Remaining(totalCapacity, booked),
	}
	if scope.CategoryID != nil {
		inv.CategoryID = *scope.CategoryID
	}
	return inv, nil
}
