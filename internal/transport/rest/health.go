package rest

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/catalog/internal/repository"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

// HealthHandler reports whether the product store is reachable.
type HealthHandler struct {
	pinger repository.Pinger
	logger *slog.Logger
}

func NewHealthHandler(pinger repository.Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, logger: logger.With("component", "health")}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Check)
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "Store is not reachable", "error", err)
		web.RespondJSON(w, h.logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}
