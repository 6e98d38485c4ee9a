package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"billed/internal/model"
	"billed/internal/store"
)

type BillsList struct {
	store store.BillStore
}

func NewBillsList(s store.BillStore) *BillsList {
	return &BillsList{store: s}
}

// GetBills fetches the user's bills and shapes them for display: formatted
// date, status label, newest first. A record with a malformed date or an
// unknown status keeps its raw values instead of dropping out; a store
// failure propagates with no partial result.
func (s *BillsList) GetBills(ctx context.Context, email string) ([]model.BillRow, error) {
	bills, err := s.store.ListBills(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}

	rows := make([]model.BillRow, 0, len(bills))
	for _, b := range bills {
		rows = append(rows, toRow(b))
	}

	return SortBillsByDate(rows), nil
}

// Summary aggregates the user's bills per status.
func (s *BillsList) Summary(ctx context.Context, email string) (*model.BillSummary, error) {
	summary, err := s.store.BillSummary(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("bill summary: %w", err)
	}
	return summary, nil
}

// ReceiptPreview returns the attachment reference for a bill, or nil when
// the bill has no receipt. A missing receipt is not an error.
func (s *BillsList) ReceiptPreview(ctx context.Context, id string) (*store.FileRef, error) {
	bill, err := s.store.GetBill(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get bill: %w", err)
	}

	if bill.FileURL == "" {
		return nil, nil
	}

	return &store.FileRef{
		FileURL:  bill.FileURL,
		FileName: bill.FileName,
		Key:      bill.FileKey,
	}, nil
}

// SortBillsByDate returns the rows ordered anti-chronologically. The input
// is left untouched. Rows whose date does not parse sort after all validly
// dated rows; equal dates keep their relative order.
func SortBillsByDate(rows []model.BillRow) []model.BillRow {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b model.BillRow) int {
		aOK, bOK := model.ValidDate(a.Date), model.ValidDate(b.Date)
		switch {
		case aOK && bOK:
			return strings.Compare(b.Date, a.Date)
		case aOK:
			return -1
		case bOK:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

func toRow(b model.Bill) model.BillRow {
	dateLabel, err := model.FormatDate(b.Date)
	if err != nil {
		dateLabel = b.Date
	}

	return model.BillRow{
		ID:          b.ID,
		Type:        b.Type,
		Name:        b.Name,
		Date:        b.Date,
		DateLabel:   dateLabel,
		Amount:      b.Amount,
		Status:      b.Status,
		StatusLabel: model.StatusLabel(b.Status),
		FileURL:     b.FileURL,
		FileName:    b.FileName,
	}
}
