package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"billed/internal/mw"
	"billed/internal/service"
	"billed/internal/store"
)

func ListBillsHandler(billsSvc *service.BillsList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := r.Context().Value(mw.EmailCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := billsSvc.GetBills(r.Context(), email)
		if err != nil {
			slog.Error("list bills failed", "email", email, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(rows) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}

func BillSummaryHandler(billsSvc *service.BillsList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := r.Context().Value(mw.EmailCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		summary, err := billsSvc.Summary(r.Context(), email)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}

type submitBillRequest struct {
	service.BillForm
	ID       string `json:"id,omitempty"`
	FileURL  string `json:"fileUrl,omitempty"`
	FileName string `json:"fileName,omitempty"`
	FileKey  string `json:"fileKey,omitempty"`
}

func SubmitBillHandler(subSvc *service.Submission) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := r.Context().Value(mw.EmailCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req submitBillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var ref *store.FileRef
		if req.FileURL != "" {
			ref = &store.FileRef{FileURL: req.FileURL, FileName: req.FileName, Key: req.FileKey}
		}
		draft := service.ResumeDraft(email, req.ID, ref)

		bill, err := subSvc.Submit(r.Context(), draft, req.BillForm)
		if err != nil {
			var verr validator.ValidationErrors
			switch {
			case errors.As(err, &verr):
				http.Error(w, "invalid bill: "+verr.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, store.ErrBillNotFound):
				http.Error(w, "bill not found", http.StatusNotFound)
			case errors.Is(err, service.ErrBillNotActionable):
				http.Error(w, "bill is no longer pending", http.StatusConflict)
			default:
				slog.Error("submit bill failed", "email", email, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Location", service.RouteBills)
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(bill); err != nil {
			slog.Error("encode bill failed", "error", err)
		}
	}
}
