// internal/notifications/handler.go
package notifications

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
	log     *logrus.Logger
}

func NewHandler(service Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Routes mounts the notification endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/notifications", h.handleList)
	r.Get("/notifications/unread-count", h.handleUnreadCount)
	r.Post("/notifications/generate", h.handleGenerate)
	r.Patch("/notifications/{id}/read", h.handleMarkRead)
	r.Patch("/notifications/read-all", h.handleMarkAllRead)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := uuid.Parse(r.URL.Query().Get("borrowerId"))
	if err != nil {
		http.Error(w, "invalid borrower ID", http.StatusBadRequest)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	list, err := h.service.List(r.Context(), borrowerID, unreadOnly)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := uuid.Parse(r.URL.Query().Get("borrowerId"))
	if err != nil {
		http.Error(w, "invalid borrower ID", http.StatusBadRequest)
		return
	}

	count, err := h.service.UnreadCount(r.Context(), borrowerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Count int `json:"count"`
	}{count})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	created, err := h.service.Generate(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid notice ID", http.StatusBadRequest)
		return
	}

	notice, err := h.service.MarkRead(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notice)
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := uuid.Parse(r.URL.Query().Get("borrowerId"))
	if err != nil {
		http.Error(w, "invalid borrower ID", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkAllRead(r.Context(), borrowerID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNoticeNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.log.WithError(err).Error("notification request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
