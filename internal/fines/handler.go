// internal/fines/handler.go
package fines

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	ledger Ledger
	log    *logrus.Logger
}

func NewHandler(ledger Ledger, log *logrus.Logger) *Handler {
	return &Handler{ledger: ledger, log: log}
}

// Routes mounts the fine ledger endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/fines", h.handleList)
	r.Post("/fines", h.handleIssue)
	r.Post("/fines/{id}/pay", h.handlePay)
	r.Get("/fines/outstanding", h.handleOutstandingTotal)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := uuid.Parse(r.URL.Query().Get("borrowerId"))
	if err != nil {
		http.Error(w, "invalid borrower ID", http.StatusBadRequest)
		return
	}

	list, err := h.ledger.ListByBorrower(r.Context(), borrowerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// handleIssue records a manual fine, used by staff for damage or loss
// charges outside a return transaction.
func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecordID uuid.UUID       `json:"record_id"`
		Amount   decimal.Decimal `json:"amount"`
		Reason   Reason          `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Reason != ReasonDamage && req.Reason != ReasonLost {
		http.Error(w, "manual fines are limited to DAMAGE or LOST; overdue fines are issued on return", http.StatusUnprocessableEntity)
		return
	}

	fine, err := h.ledger.Issue(r.Context(), req.RecordID, req.Amount, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(fine)
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid fine ID", http.StatusBadRequest)
		return
	}

	fine, err := h.ledger.Pay(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fine)
}

func (h *Handler) handleOutstandingTotal(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := uuid.Parse(r.URL.Query().Get("borrowerId"))
	if err != nil {
		http.Error(w, "invalid borrower ID", http.StatusBadRequest)
		return
	}

	total, err := h.ledger.OutstandingTotal(r.Context(), borrowerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		BorrowerID uuid.UUID       `json:"borrower_id"`
		Total      decimal.Decimal `json:"total"`
	}{borrowerID, total})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrFineNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDuplicateFine), errors.Is(err, ErrAlreadyPaid):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNegativeAmount), errors.Is(err, ErrInvalidReason):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.log.WithError(err).Error("fine request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
