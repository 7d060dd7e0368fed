package api

import (
	"log/slog"
	"net/http"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// SourceCategoryRequest carries the fields of a source category.
type SourceCategoryRequest struct {
	Title   string `json:"title"    validate:"required,max=23"`
	ImageID int    `json:"image_id" validate:"required,gt=0"`
}

// CategoryContentRequest is the text a streetcode shows under a source
// category.
type CategoryContentRequest struct {
	Text                 string `json:"text"                    validate:"required,max=4000"`
	SourceLinkCategoryID int    `json:"source_link_category_id" validate:"gte=0"`
}

// SourceCategoryResponse represents a source category.
type SourceCategoryResponse struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	ImageID int    `json:"image_id"`
}

// CategoryContentResponse represents the text of a streetcode under a
// source category.
type CategoryContentResponse struct {
	ID                   int    `json:"id"`
	Text                 string `json:"text"`
	SourceLinkCategoryID int    `json:"source_link_category_id"`
	StreetcodeID         int    `json:"streetcode_id"`
}

func sourceCategoryToResponse(c *domain.SourceLinkCategory) SourceCategoryResponse {
	return SourceCategoryResponse{ID: c.ID, Title: c.Title, ImageID: c.ImageID}
}

func categoryContentToResponse(c *domain.StreetcodeCategoryContent) CategoryContentResponse {
	return CategoryContentResponse{
		ID:                   c.ID,
		Text:                 c.Text,
		SourceLinkCategoryID: c.SourceLinkCategoryID,
		StreetcodeID:         c.StreetcodeID,
	}
}

// SourceHandler handles source category requests.
type SourceHandler struct {
	sources service.SourceService
	logger  *slog.Logger
}

// NewSourceHandler creates a new SourceHandler.
func NewSourceHandler(sources service.SourceService, logger *slog.Logger) *SourceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceHandler{sources: sources, logger: logger.With(slog.String("component", "source_handler"))}
}

// GetAll handles GET /source-categories.
func (h *SourceHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.sources.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list source categories")
		return
	}
	respondOK(w, r, mapSlice(categories, sourceCategoryToResponse))
}

// GetByID handles GET /source-categories/{id}.
func (h *SourceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	category, err := h.sources.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get source category")
		return
	}
	respondOK(w, r, sourceCategoryToResponse(category))
}

// GetByStreetcodeID handles GET /streetcodes/{id}/categories.
func (h *SourceHandler) GetByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	categories, err := h.sources.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list source categories")
		return
	}
	respondOK(w, r, mapSlice(categories, sourceCategoryToResponse))
}

// Create handles POST /source-categories.
func (h *SourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SourceCategoryRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	category := &domain.SourceLinkCategory{Title: req.Title, ImageID: req.ImageID}
	if err := h.sources.Create(r.Context(), category); err != nil {
		HandleAPIError(w, r, err, "Failed to create source category")
		return
	}
	respondCreated(w, r, sourceCategoryToResponse(category))
}

// Update handles PUT /source-categories/{id}.
func (h *SourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req SourceCategoryRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	category := &domain.SourceLinkCategory{ID: id, Title: req.Title, ImageID: req.ImageID}
	if err := h.sources.Update(r.Context(), category); err != nil {
		HandleAPIError(w, r, err, "Failed to update source category")
		return
	}
	respondOK(w, r, sourceCategoryToResponse(category))
}

// Delete handles DELETE /source-categories/{id}.
func (h *SourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.sources.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete source category")
		return
	}
	respondNoContent(w)
}

// GetContent handles GET /streetcodes/{id}/categories/{categoryId}/content.
func (h *SourceHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	streetcodeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}
	content, err := h.sources.GetContent(r.Context(), streetcodeID, categoryID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get category content")
		return
	}
	respondOK(w, r, categoryContentToResponse(content))
}

// UpsertContent handles PUT /streetcodes/{id}/categories/{categoryId}/content.
func (h *SourceHandler) UpsertContent(w http.ResponseWriter, r *http.Request) {
	streetcodeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}
	var req CategoryContentRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	content := &domain.StreetcodeCategoryContent{
		Text:                 req.Text,
		SourceLinkCategoryID: categoryID,
		StreetcodeID:         streetcodeID,
	}
	if err := h.sources.UpsertContent(r.Context(), content); err != nil {
		HandleAPIError(w, r, err, "Failed to save category content")
		return
	}
	respondOK(w, r, categoryContentToResponse(content))
}

// DeleteContent handles DELETE /streetcodes/{id}/categories/{categoryId}/content.
func (h *SourceHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	streetcodeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}
	if err := h.sources.DeleteContent(r.Context(), streetcodeID, categoryID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete category content")
		return
	}
	respondNoContent(w)
}
