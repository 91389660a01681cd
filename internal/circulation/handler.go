// internal/circulation/handler.go
package circulation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"libris/internal/catalog"
)

type Handler struct {
	service Service
	log     *logrus.Logger
}

func NewHandler(service Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Routes mounts the circulation endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/borrow", h.handleBorrow)
	r.Post("/return", h.handleReturn)
	r.Post("/renew", h.handleRenew)
	r.Get("/records/{id}", h.handleRecord)
	r.Get("/active", h.handleActive)
	r.Get("/history", h.handleHistory)
}

func (h *Handler) handleBorrow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID     uuid.UUID `json:"book_id"`
		BorrowerID uuid.UUID `json:"borrower_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.service.Borrow(r.Context(), req.BookID, req.BorrowerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecordID     uuid.UUID        `json:"record_id"`
		Condition    Condition        `json:"condition"`
		ConditionFee *decimal.Decimal `json:"condition_fee,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fee := decimal.Zero
	if req.ConditionFee != nil {
		fee = *req.ConditionFee
	}

	result, err := h.service.Return(r.Context(), req.RecordID, req.Condition, fee)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) handleRenew(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecordID uuid.UUID `json:"record_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.service.Renew(r.Context(), req.RecordID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid record ID", http.StatusBadRequest)
		return
	}

	record, err := h.service.Record(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

func (h *Handler) handleActive(w http.ResponseWriter, r *http.Request) {
	borrowerID, ok := optionalBorrowerID(w, r)
	if !ok {
		return
	}

	records, err := h.service.ListActive(r.Context(), borrowerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	borrowerID, ok := optionalBorrowerID(w, r)
	if !ok {
		return
	}

	records, err := h.service.History(r.Context(), borrowerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// optionalBorrowerID parses the borrowerId query parameter when present.
// A false return means the response was already written.
func optionalBorrowerID(w http.ResponseWriter, r *http.Request) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get("borrowerId")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid borrower ID", http.StatusBadRequest)
		return nil, false
	}
	return &id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var invariant *InvariantViolationError
	switch {
	case errors.Is(err, ErrRecordNotFound),
		errors.Is(err, ErrBorrowerNotFound),
		errors.Is(err, catalog.ErrBookNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case IsPrecondition(err):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &invariant):
		h.log.WithError(err).Error("copy-count invariant violated; transaction aborted")
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		h.log.WithError(err).Error("circulation request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
