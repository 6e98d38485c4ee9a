package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"billed/internal/model"
)

// MemStore is an in-memory BillStore for tests and local development.
type MemStore struct {
	mu    sync.Mutex
	bills map[string]model.Bill
	order []string
}

func NewMemStore() *MemStore {
	return &MemStore{bills: make(map[string]model.Bill)}
}

func (s *MemStore) ListBills(ctx context.Context, email string) ([]model.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bills []model.Bill
	for _, id := range s.order {
		if b := s.bills[id]; b.Email == email {
			bills = append(bills, b)
		}
	}
	return bills, nil
}

func (s *MemStore) GetBill(ctx context.Context, id string) (*model.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bills[id]
	if !ok {
		return nil, ErrBillNotFound
	}
	return &b, nil
}

func (s *MemStore) CreateBill(ctx context.Context, bill model.Bill) (*model.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill.ID = uuid.NewString()
	bill.CreatedAt = time.Now()
	s.bills[bill.ID] = bill
	s.order = append(s.order, bill.ID)
	return &bill, nil
}

func (s *MemStore) UpdateBill(ctx context.Context, id string, bill model.Bill) (*model.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.bills[id]
	if !ok || existing.Email != bill.Email {
		return nil, ErrBillNotFound
	}
	bill.ID = id
	bill.CreatedAt = existing.CreatedAt
	s.bills[id] = bill
	return &bill, nil
}

func (s *MemStore) UpdateBillStatus(ctx context.Context, id, status, commentary string) (*model.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bills[id]
	if !ok {
		return nil, ErrBillNotFound
	}
	b.Status = status
	if commentary != "" {
		b.Commentary = commentary
	}
	s.bills[id] = b
	return &b, nil
}

func (s *MemStore) BillSummary(ctx context.Context, email string) (*model.BillSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary model.BillSummary
	for _, b := range s.bills {
		if b.Email != email {
			continue
		}
		switch b.Status {
		case model.StatusPending:
			summary.Pending.Count++
			summary.Pending.Amount += b.Amount
		case model.StatusAccepted:
			summary.Accepted.Count++
			summary.Accepted.Amount += b.Amount
		case model.StatusRefused:
			summary.Refused.Count++
			summary.Refused.Amount += b.Amount
		}
	}
	return &summary, nil
}

func (s *MemStore) ReceiptAttached(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bills {
		if b.FileKey == key && key != "" {
			return true, nil
		}
	}
	return false, nil
}
