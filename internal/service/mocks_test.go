package service

import (
	"context"
	"io"

	"billed/internal/model"
	"billed/internal/store"
)

// stubBills overrides individual BillStore methods; everything not set
// returns zero values.
type stubBills struct {
	listFn   func(ctx context.Context, email string) ([]model.Bill, error)
	getFn    func(ctx context.Context, id string) (*model.Bill, error)
	createFn func(ctx context.Context, bill model.Bill) (*model.Bill, error)
	updateFn func(ctx context.Context, id string, bill model.Bill) (*model.Bill, error)
	statusFn func(ctx context.Context, id, status, commentary string) (*model.Bill, error)
}

func (s *stubBills) ListBills(ctx context.Context, email string) ([]model.Bill, error) {
	if s.listFn != nil {
		return s.listFn(ctx, email)
	}
	return nil, nil
}

func (s *stubBills) GetBill(ctx context.Context, id string) (*model.Bill, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, store.ErrBillNotFound
}

func (s *stubBills) CreateBill(ctx context.Context, bill model.Bill) (*model.Bill, error) {
	if s.createFn != nil {
		return s.createFn(ctx, bill)
	}
	bill.ID = "created"
	return &bill, nil
}

func (s *stubBills) UpdateBill(ctx context.Context, id string, bill model.Bill) (*model.Bill, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, bill)
	}
	bill.ID = id
	return &bill, nil
}

func (s *stubBills) UpdateBillStatus(ctx context.Context, id, status, commentary string) (*model.Bill, error) {
	if s.statusFn != nil {
		return s.statusFn(ctx, id, status, commentary)
	}
	return nil, store.ErrBillNotFound
}

func (s *stubBills) BillSummary(ctx context.Context, email string) (*model.BillSummary, error) {
	return &model.BillSummary{}, nil
}

func (s *stubBills) ReceiptAttached(ctx context.Context, key string) (bool, error) {
	return false, nil
}

// stubFiles counts uploads and lets tests inject failures.
type stubFiles struct {
	uploads  int
	uploadFn func(ctx context.Context, name string, r io.Reader) (*store.FileRef, error)
}

func (s *stubFiles) UploadFile(ctx context.Context, name string, r io.Reader) (*store.FileRef, error) {
	s.uploads++
	if s.uploadFn != nil {
		return s.uploadFn(ctx, name, r)
	}
	return &store.FileRef{
		FileURL:  "https://x/" + name,
		FileName: name,
		Key:      "1234",
	}, nil
}

func (s *stubFiles) OpenFile(ctx context.Context, key string) (io.ReadCloser, *store.StoredFile, error) {
	return nil, nil, store.ErrFileNotFound
}

func (s *stubFiles) ListFiles(ctx context.Context) ([]store.StoredFile, error) {
	return nil, nil
}

func (s *stubFiles) RemoveFile(ctx context.Context, key string) error {
	return nil
}
