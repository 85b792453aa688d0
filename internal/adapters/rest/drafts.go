package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/services"
)

const (
	errCodeEmptyDraft  = "EMPTY_DRAFT"
	errCodeInvalidName = "INVALID_NAME"
)

// generateDraftRequest defines what the client sends us
type generateDraftRequest struct {
	Description  string `json:"description"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
	MaxFollowers int    `json:"max_followers"`
}

type publishDraftRequest struct {
	Name string `json:"name"`
}

// GenerateDraft handles POST /drafts
func (h *Handler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	// 1. Decode the Request Body
	var req generateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// 2. Validate Input
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.Count < domain.MinRequestedCount || req.Count > domain.MaxRequestedCount {
		writeError(w, http.StatusBadRequest, "count must be between 1 and 100")
		return
	}
	if req.MaxFollowers < 0 {
		writeError(w, http.StatusBadRequest, "max_followers must be >= 0")
		return
	}

	// 3. Call the Service (The Core Logic)
	// We pass the Context so the service can cancel long-running tasks if the user disconnects
	draft, err := h.svc.Generate(r.Context(), services.GenerateRequest{
		Description:  req.Description,
		Name:         req.Name,
		Count:        req.Count,
		MaxFollowers: req.MaxFollowers,
	})
	if err != nil {
		// Resolution is fail-closed: anything upstream aborts the whole draft
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	// 4. Return the Response
	w.Header().Set("Location", "/drafts/"+draft.ID)
	writeJSON(w, http.StatusCreated, draft)
}

// GetDraft handles GET /drafts/{id}
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draftID := r.PathValue("id")
	if draftID == "" {
		writeError(w, http.StatusBadRequest, "draft id is required")
		return
	}

	draft, err := h.svc.GetDraft(r.Context(), draftID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "draft not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// DiscardDraft handles DELETE /drafts/{id}
func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	draftID := r.PathValue("id")
	if draftID == "" {
		writeError(w, http.StatusBadRequest, "draft id is required")
		return
	}

	if err := h.svc.Discard(r.Context(), draftID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegenerateDraft handles POST /drafts/{id}/regenerate
func (h *Handler) RegenerateDraft(w http.ResponseWriter, r *http.Request) {
	draftID := r.PathValue("id")
	if draftID == "" {
		writeError(w, http.StatusBadRequest, "draft id is required")
		return
	}

	draft, err := h.svc.Regenerate(r.Context(), draftID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "draft not found")
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// PublishDraft handles POST /drafts/{id}/publish
func (h *Handler) PublishDraft(w http.ResponseWriter, r *http.Request) {
	draftID := r.PathValue("id")
	if draftID == "" {
		writeError(w, http.StatusBadRequest, "draft id is required")
		return
	}

	// The body is optional: an empty name falls back to the draft's own.
	var req publishDraftRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	playlist, err := h.svc.Publish(r.Context(), draftID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "draft not found")
		case errors.Is(err, domain.ErrInvalidName):
			writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidName)
		case errors.Is(err, domain.ErrEmptyDraft):
			writeErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), errCodeEmptyDraft)
		default:
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, playlist)
}
