// internal/reports/handler.go
package reports

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
	log     *logrus.Logger
}

func NewHandler(service Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Routes mounts the reporting endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/reports/overdue", h.handleOverdue)
	r.Get("/reports/fines", h.handleFineSummaries)
	r.Get("/dashboard", h.handleDashboard)
}

func (h *Handler) handleOverdue(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Overdue(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (h *Handler) handleFineSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.FineSummaries(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.log.WithError(err).Error("report request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
