// internal/policy/handler.go
package policy

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	resolver *Resolver
	log      *logrus.Logger
}

func NewHandler(resolver *Resolver, log *logrus.Logger) *Handler {
	return &Handler{resolver: resolver, log: log}
}

// Routes mounts the administrative configuration endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/config", h.handleGet)
	r.Put("/config", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Config
		Version int `json:"version"`
	}{h.resolver.Current(), h.resolver.Version()})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := h.resolver.Update(update)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			}{verr.Field, verr.Message})
			return
		}
		h.log.WithError(err).Error("config update failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}
