package rest

import (
	"net/http"

	"github.com/ewilliams-labs/moodlist/internal/core/services"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Generator // Dependency on the Core Service
	router *http.ServeMux      // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Generator) *Handler {
	h := &Handler{
		svc:    svc,
		router: http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Draft Management
	h.router.HandleFunc("POST /drafts", h.GenerateDraft)
	h.router.HandleFunc("GET /drafts/{id}", h.GetDraft)
	h.router.HandleFunc("DELETE /drafts/{id}", h.DiscardDraft)
	h.router.HandleFunc("POST /drafts/{id}/regenerate", h.RegenerateDraft)
	h.router.HandleFunc("POST /drafts/{id}/publish", h.PublishDraft)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Moodlist is live 🎶"})
}
