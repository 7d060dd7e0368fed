package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// TimelineItemRequest carries the fields of a timeline item.
type TimelineItemRequest struct {
	Date            time.Time `json:"date"              validate:"required"`
	DateViewPattern string    `json:"date_view_pattern" validate:"required,oneof=date_month_year month_year season_year year"`
	Title           string    `json:"title"             validate:"required,max=26"`
	Description     string    `json:"description"       validate:"max=400"`
	StreetcodeID    int       `json:"streetcode_id"     validate:"gte=0"`
}

func (req *TimelineItemRequest) toDomain(id int) *domain.TimelineItem {
	return &domain.TimelineItem{
		ID:              id,
		Date:            req.Date,
		DateViewPattern: domain.DateViewPattern(req.DateViewPattern),
		Title:           req.Title,
		Description:     req.Description,
		StreetcodeID:    req.StreetcodeID,
	}
}

// TimelineItemResponse represents a timeline item. FormattedDate renders
// the date according to its view pattern.
type TimelineItemResponse struct {
	ID              int       `json:"id"`
	Date            time.Time `json:"date"`
	DateViewPattern string    `json:"date_view_pattern"`
	FormattedDate   string    `json:"formatted_date"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	StreetcodeID    int       `json:"streetcode_id"`
}

func timelineItemToResponse(item *domain.TimelineItem) TimelineItemResponse {
	return TimelineItemResponse{
		ID:              item.ID,
		Date:            item.Date,
		DateViewPattern: string(item.DateViewPattern),
		FormattedDate:   item.FormatDate(),
		Title:           item.Title,
		Description:     item.Description,
		StreetcodeID:    item.StreetcodeID,
	}
}

// TimelineHandler handles timeline item requests.
type TimelineHandler struct {
	timeline service.TimelineService
	logger   *slog.Logger
}

// NewTimelineHandler creates a new TimelineHandler.
func NewTimelineHandler(timeline service.TimelineService, logger *slog.Logger) *TimelineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimelineHandler{timeline: timeline, logger: logger.With(slog.String("component", "timeline_handler"))}
}

// GetAll handles GET /timeline-items.
func (h *TimelineHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.timeline.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list timeline items")
		return
	}
	respondOK(w, r, mapSlice(items, timelineItemToResponse))
}

// GetByID handles GET /timeline-items/{id}.
func (h *TimelineHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.timeline.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get timeline item")
		return
	}
	respondOK(w, r, timelineItemToResponse(item))
}

// GetByStreetcodeID handles GET /streetcodes/{id}/timeline.
func (h *TimelineHandler) GetByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.timeline.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list timeline items")
		return
	}
	respondOK(w, r, mapSlice(items, timelineItemToResponse))
}

// Create handles POST /timeline-items.
func (h *TimelineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TimelineItemRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	item := req.toDomain(0)
	if err := h.timeline.Create(r.Context(), item); err != nil {
		HandleAPIError(w, r, err, "Failed to create timeline item")
		return
	}
	respondCreated(w, r, timelineItemToResponse(item))
}

// Update handles PUT /timeline-items/{id}.
func (h *TimelineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req TimelineItemRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	item := req.toDomain(id)
	if err := h.timeline.Update(r.Context(), item); err != nil {
		HandleAPIError(w, r, err, "Failed to update timeline item")
		return
	}
	respondOK(w, r, timelineItemToResponse(item))
}

// Delete handles DELETE /timeline-items/{id}.
func (h *TimelineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.timeline.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete timeline item")
		return
	}
	respondNoContent(w)
}
