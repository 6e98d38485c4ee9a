package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"billed/internal/mw"
	"billed/internal/service"
	"billed/internal/store"
)

const maxReceiptSize = 16 << 20 // 16 MiB

// UploadReceiptHandler accepts a multipart receipt file and stores it,
// returning the reference the client sends back on submit.
func UploadReceiptHandler(subSvc *service.Submission) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := r.Context().Value(mw.EmailCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxReceiptSize)
		if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
			http.Error(w, "invalid multipart body", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file field required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		draft := service.NewDraft(email)
		ref, err := subSvc.AttachReceipt(r.Context(), draft, header.Filename, file)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnsupportedFile):
				http.Error(w, "unsupported file type (jpg, jpeg or png expected)", http.StatusBadRequest)
			default:
				slog.Error("receipt upload failed", "email", email, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(ref); err != nil {
			slog.Error("encode file ref failed", "error", err)
		}
	}
}

// PreviewReceiptHandler streams a stored receipt file back to the browser.
func PreviewReceiptHandler(files store.FileStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		rc, info, err := files.OpenFile(r.Context(), key)
		if err != nil {
			if errors.Is(err, store.ErrFileNotFound) {
				http.Error(w, "receipt not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		if ct := mime.TypeByExtension(filepath.Ext(info.Name)); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Content-Disposition", "inline")
		if _, err := io.Copy(w, rc); err != nil {
			slog.Error("stream receipt failed", "key", key, "error", err)
		}
	}
}

// BillReceiptHandler returns the attachment reference for a bill, 204 when
// the bill has no receipt.
func BillReceiptHandler(billsSvc *service.BillsList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ref, err := billsSvc.ReceiptPreview(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrBillNotFound) {
				http.Error(w, "bill not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if ref == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ref); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
