package api

import (
	"log/slog"
	"net/http"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// FactRequest carries the fields of a fact. The number is assigned by the
// server.
type FactRequest struct {
	Title        string `json:"title"         validate:"required,max=68"`
	Content      string `json:"content"       validate:"required,max=600"`
	ImageID      *int   `json:"image_id"      validate:"omitempty,gt=0"`
	StreetcodeID int    `json:"streetcode_id" validate:"gte=0"`
}

func (req *FactRequest) toDomain(id int) *domain.Fact {
	return &domain.Fact{
		ID:           id,
		Title:        req.Title,
		Content:      req.Content,
		ImageID:      req.ImageID,
		StreetcodeID: req.StreetcodeID,
	}
}

// FactPositionRequest assigns a fact to a position.
type FactPositionRequest struct {
	ID     int `json:"id"     validate:"required,gt=0"`
	Number int `json:"number" validate:"required,gt=0"`
}

// ReorderFactsRequest is the complete new order of a streetcode's facts.
type ReorderFactsRequest struct {
	Positions []FactPositionRequest `json:"positions" validate:"required,min=1,dive"`
}

// FactResponse represents a fact.
type FactResponse struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	ImageID      *int   `json:"image_id,omitempty"`
	StreetcodeID int    `json:"streetcode_id"`
	Number       int    `json:"number"`
}

func factToResponse(f *domain.Fact) FactResponse {
	return FactResponse{
		ID:           f.ID,
		Title:        f.Title,
		Content:      f.Content,
		ImageID:      f.ImageID,
		StreetcodeID: f.StreetcodeID,
		Number:       f.Number,
	}
}

// FactHandler handles fact requests.
type FactHandler struct {
	facts  service.FactService
	logger *slog.Logger
}

// NewFactHandler creates a new FactHandler.
func NewFactHandler(facts service.FactService, logger *slog.Logger) *FactHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FactHandler{facts: facts, logger: logger.With(slog.String("component", "fact_handler"))}
}

// GetAll handles GET /facts.
func (h *FactHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	facts, err := h.facts.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list facts")
		return
	}
	respondOK(w, r, mapSlice(facts, factToResponse))
}

// GetByID handles GET /facts/{id}.
func (h *FactHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	fact, err := h.facts.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get fact")
		return
	}
	respondOK(w, r, factToResponse(fact))
}

// GetByStreetcodeID handles GET /streetcodes/{id}/facts.
func (h *FactHandler) GetByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	facts, err := h.facts.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list facts")
		return
	}
	respondOK(w, r, mapSlice(facts, factToResponse))
}

// Create handles POST /facts.
func (h *FactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req FactRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	fact := req.toDomain(0)
	if err := h.facts.Create(r.Context(), fact); err != nil {
		HandleAPIError(w, r, err, "Failed to create fact")
		return
	}
	respondCreated(w, r, factToResponse(fact))
}

// Update handles PUT /facts/{id}.
func (h *FactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req FactRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	fact := req.toDomain(id)
	if err := h.facts.Update(r.Context(), fact); err != nil {
		HandleAPIError(w, r, err, "Failed to update fact")
		return
	}
	respondOK(w, r, factToResponse(fact))
}

// Delete handles DELETE /facts/{id}.
func (h *FactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.facts.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete fact")
		return
	}
	respondNoContent(w)
}

// Reorder handles PUT /streetcodes/{id}/facts/order.
func (h *FactHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req ReorderFactsRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	positions := mapSlice(req.Positions, func(p FactPositionRequest) domain.FactPosition {
		return domain.FactPosition{ID: p.ID, Number: p.Number}
	})

	facts, err := h.facts.Reorder(r.Context(), id, positions)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reorder facts")
		return
	}
	respondOK(w, r, mapSlice(facts, factToResponse))
}
