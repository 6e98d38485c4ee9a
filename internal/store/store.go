package store

import (
	"context"
	"errors"
	"io"
	"time"

	"billed/internal/model"
)

var (
	ErrBillNotFound = errors.New("bill not found")
	ErrFileNotFound = errors.New("file not found")
)

// FileRef points at an uploaded receipt. FileURL is what gets persisted on
// the bill, Key is the stable identifier inside the vault.
type FileRef struct {
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
	Key      string `json:"key"`
}

// StoredFile describes a file sitting in the vault, attached or not.
type StoredFile struct {
	Key        string
	Name       string
	UploadedAt time.Time
}

// BillStore is the persistence boundary for bill records.
type BillStore interface {
	ListBills(ctx context.Context, email string) ([]model.Bill, error)
	GetBill(ctx context.Context, id string) (*model.Bill, error)
	CreateBill(ctx context.Context, bill model.Bill) (*model.Bill, error)
	// UpdateBill persists changes to the bill identified by id and owned by
	// bill.Email; any other combination is ErrBillNotFound.
	UpdateBill(ctx context.Context, id string, bill model.Bill) (*model.Bill, error)
	UpdateBillStatus(ctx context.Context, id, status, commentary string) (*model.Bill, error)
	BillSummary(ctx context.Context, email string) (*model.BillSummary, error)
	ReceiptAttached(ctx context.Context, key string) (bool, error)
}

// FileStore is the upload boundary for receipt files, deliberately separate
// from BillStore so record creation and file upload stay distinct operations.
type FileStore interface {
	UploadFile(ctx context.Context, name string, r io.Reader) (*FileRef, error)
	OpenFile(ctx context.Context, key string) (io.ReadCloser, *StoredFile, error)
	ListFiles(ctx context.Context) ([]StoredFile, error)
	RemoveFile(ctx context.Context, key string) error
}
