package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"billed/internal/model"
	"billed/internal/mw"
	"billed/internal/service"
	"billed/internal/store"
)

type reviewRequest struct {
	Status     string `json:"status"`
	Commentary string `json:"commentary,omitempty"`
}

// ReviewBillHandler lets an admin accept or refuse a pending bill.
func ReviewBillHandler(reviewSvc *service.Review) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(mw.RoleCtxKey).(string)
		if role != model.RoleAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		id := chi.URLParam(r, "id")

		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bill, err := reviewSvc.Decide(r.Context(), id, req.Status, req.Commentary)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidDecision):
				http.Error(w, "status must be accepted or refused", http.StatusUnprocessableEntity)
			case errors.Is(err, store.ErrBillNotFound):
				http.Error(w, "bill not found", http.StatusNotFound)
			case errors.Is(err, service.ErrBillNotActionable):
				http.Error(w, "bill is no longer pending", http.StatusConflict)
			default:
				slog.Error("review bill failed", "id", id, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(bill); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
