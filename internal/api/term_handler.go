package api

import (
	"log/slog"
	"net/http"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// TermRequest carries the fields of a dictionary term.
type TermRequest struct {
	Title       string `json:"title"       validate:"required,max=50"`
	Description string `json:"description" validate:"required,max=500"`
}

// RelatedTermRequest carries an alternative word form of a term.
type RelatedTermRequest struct {
	Word string `json:"word" validate:"required,max=50"`
}

// UpdateRelatedTermRequest changes a related word, possibly moving it to
// another term.
type UpdateRelatedTermRequest struct {
	Word   string `json:"word"    validate:"required,max=50"`
	TermID int    `json:"term_id" validate:"required,gt=0"`
}

// TermResponse represents a dictionary term.
type TermResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RelatedTermResponse represents a related word.
type RelatedTermResponse struct {
	ID     int    `json:"id"`
	Word   string `json:"word"`
	TermID int    `json:"term_id"`
}

func termToResponse(t *domain.Term) TermResponse {
	return TermResponse{ID: t.ID, Title: t.Title, Description: t.Description}
}

func relatedTermToResponse(rt *domain.RelatedTerm) RelatedTermResponse {
	return RelatedTermResponse{ID: rt.ID, Word: rt.Word, TermID: rt.TermID}
}

// TermHandler handles term and related word requests.
type TermHandler struct {
	terms  service.TermService
	logger *slog.Logger
}

// NewTermHandler creates a new TermHandler.
func NewTermHandler(terms service.TermService, logger *slog.Logger) *TermHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TermHandler{terms: terms, logger: logger.With(slog.String("component", "term_handler"))}
}

// GetAll handles GET /terms.
func (h *TermHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	terms, err := h.terms.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list terms")
		return
	}
	respondOK(w, r, mapSlice(terms, termToResponse))
}

// GetByID handles GET /terms/{id}.
func (h *TermHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	term, err := h.terms.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get term")
		return
	}
	respondOK(w, r, termToResponse(term))
}

// Create handles POST /terms.
func (h *TermHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TermRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	term := &domain.Term{Title: req.Title, Description: req.Description}
	if err := h.terms.Create(r.Context(), term); err != nil {
		HandleAPIError(w, r, err, "Failed to create term")
		return
	}
	respondCreated(w, r, termToResponse(term))
}

// Update handles PUT /terms/{id}.
func (h *TermHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req TermRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	term := &domain.Term{ID: id, Title: req.Title, Description: req.Description}
	if err := h.terms.Update(r.Context(), term); err != nil {
		HandleAPIError(w, r, err, "Failed to update term")
		return
	}
	respondOK(w, r, termToResponse(term))
}

// Delete handles DELETE /terms/{id}.
func (h *TermHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.terms.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete term")
		return
	}
	respondNoContent(w)
}

// GetRelated handles GET /terms/{id}/related.
func (h *TermHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	related, err := h.terms.GetRelated(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list related words")
		return
	}
	respondOK(w, r, mapSlice(related, relatedTermToResponse))
}

// CreateRelated handles POST /terms/{id}/related.
func (h *TermHandler) CreateRelated(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req RelatedTermRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	related := &domain.RelatedTerm{Word: req.Word, TermID: id}
	if err := h.terms.CreateRelated(r.Context(), related); err != nil {
		HandleAPIError(w, r, err, "Failed to create related word")
		return
	}
	respondCreated(w, r, relatedTermToResponse(related))
}

// UpdateRelated handles PUT /related-terms/{id}.
func (h *TermHandler) UpdateRelated(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateRelatedTermRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	related := &domain.RelatedTerm{ID: id, Word: req.Word, TermID: req.TermID}
	if err := h.terms.UpdateRelated(r.Context(), related); err != nil {
		HandleAPIError(w, r, err, "Failed to update related word")
		return
	}
	respondOK(w, r, relatedTermToResponse(related))
}

// DeleteRelated handles DELETE /related-terms/{id}.
func (h *TermHandler) DeleteRelated(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.terms.DeleteRelated(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete related word")
		return
	}
	respondNoContent(w)
}
