package service

import (
	"context"
	"errors"
	"fmt"

	"billed/internal/model"
	"billed/internal/store"
)

var (
	ErrBillNotActionable = errors.New("bill is no longer pending review")
	ErrInvalidDecision   = errors.New("decision must be accepted or refused")
)

// Review lets an admin accept or refuse pending bills.
type Review struct {
	store store.BillStore
}

func NewReview(s store.BillStore) *Review {
	return &Review{store: s}
}

// Decide moves a pending bill to accepted or refused. Bills already decided
// are not actionable again.
func (s *Review) Decide(ctx context.Context, id, status, commentary string) (*model.Bill, error) {
	if status != model.StatusAccepted && status != model.StatusRefused {
		return nil, ErrInvalidDecision
	}

	bill, err := s.store.GetBill(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get bill: %w", err)
	}

	if bill.Status != model.StatusPending {
		return nil, ErrBillNotActionable
	}

	updated, err := s.store.UpdateBillStatus(ctx, id, status, commentary)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	return updated, nil
}
