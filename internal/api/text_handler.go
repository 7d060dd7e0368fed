package api

import (
	"log/slog"
	"net/http"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// TextRequest carries the fields of a streetcode text.
type TextRequest struct {
	Title          string `json:"title"           validate:"required,max=50"`
	Content        string `json:"content"         validate:"required,max=15000"`
	AdditionalText string `json:"additional_text" validate:"max=200"`
	StreetcodeID   int    `json:"streetcode_id"   validate:"gte=0"`
}

func (req *TextRequest) toDomain(id int) *domain.Text {
	return &domain.Text{
		ID:             id,
		Title:          req.Title,
		Content:        req.Content,
		AdditionalText: req.AdditionalText,
		StreetcodeID:   req.StreetcodeID,
	}
}

// ParseTextRequest carries content to be marked up with term links.
type ParseTextRequest struct {
	Content string `json:"content" validate:"required,max=15000"`
}

// ParseTextResponse is the marked up content.
type ParseTextResponse struct {
	Content string `json:"content"`
}

// TextResponse represents a streetcode text.
type TextResponse struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	AdditionalText string `json:"additional_text,omitempty"`
	StreetcodeID   int    `json:"streetcode_id"`
}

func textToResponse(t *domain.Text) TextResponse {
	return TextResponse{
		ID:             t.ID,
		Title:          t.Title,
		Content:        t.Content,
		AdditionalText: t.AdditionalText,
		StreetcodeID:   t.StreetcodeID,
	}
}

// TextHandler handles streetcode text requests.
type TextHandler struct {
	texts  service.TextService
	logger *slog.Logger
}

// NewTextHandler creates a new TextHandler.
func NewTextHandler(texts service.TextService, logger *slog.Logger) *TextHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextHandler{texts: texts, logger: logger.With(slog.String("component", "text_handler"))}
}

// GetAll handles GET /texts.
func (h *TextHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	texts, err := h.texts.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list texts")
		return
	}
	respondOK(w, r, mapSlice(texts, textToResponse))
}

// GetByID handles GET /texts/{id}.
func (h *TextHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	text, err := h.texts.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get text")
		return
	}
	respondOK(w, r, textToResponse(text))
}

// GetByStreetcodeID handles GET /streetcodes/{id}/text.
func (h *TextHandler) GetByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	text, err := h.texts.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get text")
		return
	}
	respondOK(w, r, textToResponse(text))
}

// Create handles POST /texts.
func (h *TextHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	text := req.toDomain(0)
	if err := h.texts.Create(r.Context(), text); err != nil {
		HandleAPIError(w, r, err, "Failed to create text")
		return
	}
	respondCreated(w, r, textToResponse(text))
}

// Update handles PUT /texts/{id}.
func (h *TextHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req TextRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	text := req.toDomain(id)
	if err := h.texts.Update(r.Context(), text); err != nil {
		HandleAPIError(w, r, err, "Failed to update text")
		return
	}
	respondOK(w, r, textToResponse(text))
}

// Delete handles DELETE /texts/{id}.
func (h *TextHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.texts.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete text")
		return
	}
	respondNoContent(w)
}

// Parse handles POST /texts/parse. Term titles and related words found in
// the content are wrapped in term markers.
func (h *TextHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseTextRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	parsed, err := h.texts.Parse(r.Context(), req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to parse text")
		return
	}
	respondOK(w, r, ParseTextResponse{Content: parsed})
}
