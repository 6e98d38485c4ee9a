package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"billed/internal/store"
)

// ReceiptIndex answers whether an uploaded file is referenced by any bill.
type ReceiptIndex interface {
	ReceiptAttached(ctx context.Context, key string) (bool, error)
}

// Janitor removes receipt files that were uploaded but never attached to a
// submitted bill (abandoned drafts, rolled-back uploads). Fresh files are
// left alone so an in-flight submission cannot lose its receipt.
type Janitor struct {
	bills     ReceiptIndex
	files     store.FileStore
	interval  time.Duration
	retention time.Duration
}

func NewJanitor(bills ReceiptIndex, files store.FileStore) *Janitor {
	return &Janitor{
		bills:     bills,
		files:     files,
		interval:  time.Hour,
		retention: 24 * time.Hour,
	}
}

func (j *Janitor) Start(ctx context.Context) {
	slog.Info("starting receipt janitor")
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("receipt janitor stopped")
			return
		case <-ticker.C:
			if err := j.sweep(ctx); err != nil {
				slog.Error("janitor sweep failed", "error", err)
			}
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) error {
	files, err := j.files.ListFiles(ctx)
	if err != nil {
		return fmt.Errorf("list receipt files: %w", err)
	}

	cutoff := time.Now().Add(-j.retention)
	for _, f := range files {
		if f.UploadedAt.After(cutoff) {
			continue
		}

		attached, err := j.bills.ReceiptAttached(ctx, f.Key)
		if err != nil {
			slog.Error("failed to check receipt", "key", f.Key, "error", err)
			continue
		}
		if attached {
			continue
		}

		if err := j.files.RemoveFile(ctx, f.Key); err != nil {
			slog.Error("failed to remove orphan receipt", "key", f.Key, "error", err)
		} else {
			slog.Info("orphan receipt removed", "key", f.Key, "uploaded_at", f.UploadedAt)
		}
	}

	return nil
}
