package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// StreetcodeRequest carries the core fields of a streetcode.
type StreetcodeRequest struct {
	Index                       int        `json:"index"                            validate:"required,gte=1,lte=9999"`
	Type                        string     `json:"type"                             validate:"required,oneof=person event"`
	Title                       string     `json:"title"                            validate:"required,max=100"`
	FirstName                   string     `json:"first_name"                       validate:"max=50"`
	LastName                    string     `json:"last_name"                        validate:"max=50"`
	DateString                  string     `json:"date_string"                      validate:"required,max=100"`
	Alias                       string     `json:"alias"                            validate:"max=33"`
	Teaser                      string     `json:"teaser"                           validate:"max=520"`
	TransliterationURL          string     `json:"transliteration_url"              validate:"required,max=150"`
	Status                      string     `json:"status"                           validate:"omitempty,oneof=draft published deleted"`
	EventStartOrPersonBirthDate time.Time  `json:"event_start_or_person_birth_date" validate:"required"`
	EventEndOrPersonDeathDate   *time.Time `json:"event_end_or_person_death_date"`
	AudioID                     *int       `json:"audio_id"                         validate:"omitempty,gt=0"`
}

func (req *StreetcodeRequest) toDomain() domain.Streetcode {
	return domain.Streetcode{
		Index:                       req.Index,
		Type:                        domain.StreetcodeType(req.Type),
		Title:                       req.Title,
		FirstName:                   req.FirstName,
		LastName:                    req.LastName,
		DateString:                  req.DateString,
		Alias:                       req.Alias,
		Teaser:                      req.Teaser,
		TransliterationURL:          req.TransliterationURL,
		Status:                      domain.StreetcodeStatus(req.Status),
		EventStartOrPersonBirthDate: req.EventStartOrPersonBirthDate,
		EventEndOrPersonDeathDate:   req.EventEndOrPersonDeathDate,
		AudioID:                     req.AudioID,
	}
}

// ArtPlacementRequest places an existing art in the gallery of a new
// streetcode. A zero index places it after the previous art.
type ArtPlacementRequest struct {
	ArtID int `json:"art_id" validate:"required,gt=0"`
	Index int `json:"index"  validate:"gte=0"`
}

// CreateStreetcodeRequest is a streetcode together with the content that is
// created with it in one transaction.
type CreateStreetcodeRequest struct {
	Streetcode    StreetcodeRequest        `json:"streetcode"`
	Text          *TextRequest             `json:"text"`
	Facts         []FactRequest            `json:"facts"          validate:"dive"`
	TimelineItems []TimelineItemRequest    `json:"timeline_items" validate:"dive"`
	Coordinates   []CoordinateRequest      `json:"coordinates"    validate:"dive"`
	Videos        []VideoRequest           `json:"videos"         validate:"dive"`
	Categories    []CategoryContentRequest `json:"categories"     validate:"dive"`
	ImageIDs      []int                    `json:"image_ids"      validate:"dive,gt=0"`
	Arts          []ArtPlacementRequest    `json:"arts"           validate:"dive"`
	PartnerIDs    []int                    `json:"partner_ids"    validate:"dive,gt=0"`
	ToponymIDs    []int                    `json:"toponym_ids"    validate:"dive,gt=0"`
}

func (req *CreateStreetcodeRequest) toContent() *service.StreetcodeContent {
	content := &service.StreetcodeContent{
		Streetcode: req.Streetcode.toDomain(),
		ImageIDs:   req.ImageIDs,
		PartnerIDs: req.PartnerIDs,
		ToponymIDs: req.ToponymIDs,
	}
	if req.Text != nil {
		content.Text = req.Text.toDomain(0)
	}
	for _, f := range req.Facts {
		content.Facts = append(content.Facts, f.toDomain(0))
	}
	for _, item := range req.TimelineItems {
		content.TimelineItems = append(content.TimelineItems, item.toDomain(0))
	}
	for _, c := range req.Coordinates {
		content.Coordinates = append(content.Coordinates, c.toDomain(0))
	}
	for _, v := range req.Videos {
		content.Videos = append(content.Videos, v.toDomain(0))
	}
	for _, c := range req.Categories {
		content.Categories = append(content.Categories, &domain.StreetcodeCategoryContent{
			Text:                 c.Text,
			SourceLinkCategoryID: c.SourceLinkCategoryID,
		})
	}
	for _, a := range req.Arts {
		content.Arts = append(content.Arts, service.StreetcodeArtPlacement{ArtID: a.ArtID, Index: a.Index})
	}
	return content
}

// UpdateStatusRequest changes the publication status of a streetcode.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published deleted"`
}

// StreetcodeResponse represents a streetcode.
type StreetcodeResponse struct {
	ID                          int        `json:"id"`
	Index                       int        `json:"index"`
	Type                        string     `json:"type"`
	Title                       string     `json:"title"`
	FirstName                   string     `json:"first_name,omitempty"`
	LastName                    string     `json:"last_name,omitempty"`
	DateString                  string     `json:"date_string"`
	Alias                       string     `json:"alias,omitempty"`
	Teaser                      string     `json:"teaser,omitempty"`
	TransliterationURL          string     `json:"transliteration_url"`
	Status                      string     `json:"status"`
	ViewCount                   int        `json:"view_count"`
	EventStartOrPersonBirthDate time.Time  `json:"event_start_or_person_birth_date"`
	EventEndOrPersonDeathDate   *time.Time `json:"event_end_or_person_death_date,omitempty"`
	AudioID                     *int       `json:"audio_id,omitempty"`
	CreatedAt                   time.Time  `json:"created_at"`
	UpdatedAt                   time.Time  `json:"updated_at"`
}

// StreetcodePageResponse is one page of a streetcode listing.
type StreetcodePageResponse struct {
	Streetcodes []StreetcodeResponse `json:"streetcodes"`
	Pages       int                  `json:"pages"`
}

// StreetcodeShortResponse is the catalog view of a streetcode.
type StreetcodeShortResponse struct {
	ID                 int    `json:"id"`
	Index              int    `json:"index"`
	Title              string `json:"title"`
	TransliterationURL string `json:"transliteration_url"`
}

func streetcodeToResponse(sc *domain.Streetcode) StreetcodeResponse {
	return StreetcodeResponse{
		ID:                          sc.ID,
		Index:                       sc.Index,
		Type:                        string(sc.Type),
		Title:                       sc.Title,
		FirstName:                   sc.FirstName,
		LastName:                    sc.LastName,
		DateString:                  sc.DateString,
		Alias:                       sc.Alias,
		Teaser:                      sc.Teaser,
		TransliterationURL:          sc.TransliterationURL,
		Status:                      string(sc.Status),
		ViewCount:                   sc.ViewCount,
		EventStartOrPersonBirthDate: sc.EventStartOrPersonBirthDate,
		EventEndOrPersonDeathDate:   sc.EventEndOrPersonDeathDate,
		AudioID:                     sc.AudioID,
		CreatedAt:                   sc.CreatedAt,
		UpdatedAt:                   sc.UpdatedAt,
	}
}

// StreetcodeHandler handles streetcode requests.
type StreetcodeHandler struct {
	streetcodes service.StreetcodeService
	logger      *slog.Logger
}

// NewStreetcodeHandler creates a new StreetcodeHandler.
func NewStreetcodeHandler(streetcodes service.StreetcodeService, logger *slog.Logger) *StreetcodeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreetcodeHandler{
		streetcodes: streetcodes,
		logger:      logger.With(slog.String("component", "streetcode_handler")),
	}
}

// GetAll handles GET /streetcodes?page=&amount=&title=&sort=&filter=.
func (h *StreetcodeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, err := getQueryInt(r, "page")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	amount, err := getQueryInt(r, "amount")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	q := r.URL.Query()

	result, err := h.streetcodes.GetAll(r.Context(), service.StreetcodeQuery{
		Page:   page,
		Amount: amount,
		Title:  q.Get("title"),
		Sort:   q.Get("sort"),
		Filter: q.Get("filter"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list streetcodes")
		return
	}
	respondOK(w, r, StreetcodePageResponse{
		Streetcodes: mapSlice(result.Streetcodes, streetcodeToResponse),
		Pages:       result.Pages,
	})
}

// GetShort handles GET /streetcodes/short.
func (h *StreetcodeHandler) GetShort(w http.ResponseWriter, r *http.Request) {
	short, err := h.streetcodes.GetShort(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list streetcodes")
		return
	}
	respondOK(w, r, mapSlice(short, func(s service.StreetcodeShort) StreetcodeShortResponse {
		return StreetcodeShortResponse(s)
	}))
}

// Count handles GET /streetcodes/count?published=true.
func (h *StreetcodeHandler) Count(w http.ResponseWriter, r *http.Request) {
	onlyPublished := false
	if raw := r.URL.Query().Get("published"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("published", "must be a boolean", domain.ErrInvalidFormat), "")
			return
		}
		onlyPublished = v
	}
	n, err := h.streetcodes.Count(r.Context(), onlyPublished)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count streetcodes")
		return
	}
	respondOK(w, r, CountResponse{Count: n})
}

// GetByID handles GET /streetcodes/{id}.
func (h *StreetcodeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sc, err := h.streetcodes.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get streetcode")
		return
	}
	respondOK(w, r, streetcodeToResponse(sc))
}

// GetByIndex handles GET /streetcodes/index/{index}.
func (h *StreetcodeHandler) GetByIndex(w http.ResponseWriter, r *http.Request) {
	index, ok := pathID(w, r, "index")
	if !ok {
		return
	}
	sc, err := h.streetcodes.GetByIndex(r.Context(), index)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get streetcode")
		return
	}
	respondOK(w, r, streetcodeToResponse(sc))
}

// ExistsWithIndex handles GET /streetcodes/index/{index}/exists.
func (h *StreetcodeHandler) ExistsWithIndex(w http.ResponseWriter, r *http.Request) {
	index, ok := pathID(w, r, "index")
	if !ok {
		return
	}
	exists, err := h.streetcodes.ExistsWithIndex(r.Context(), index)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check streetcode index")
		return
	}
	respondOK(w, r, ExistsResponse{Exists: exists})
}

// GetByTransliterationURL handles GET /streetcodes/url/{url}.
func (h *StreetcodeHandler) GetByTransliterationURL(w http.ResponseWriter, r *http.Request) {
	sc, err := h.streetcodes.GetByTransliterationURL(r.Context(), chi.URLParam(r, "url"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get streetcode")
		return
	}
	respondOK(w, r, streetcodeToResponse(sc))
}

// IncrementViewCount handles POST /streetcodes/{id}/views.
func (h *StreetcodeHandler) IncrementViewCount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sc, err := h.streetcodes.IncrementViewCount(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count view")
		return
	}
	respondOK(w, r, streetcodeToResponse(sc))
}

// Create handles POST /streetcodes.
func (h *StreetcodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateStreetcodeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	sc, err := h.streetcodes.Create(r.Context(), req.toContent())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create streetcode")
		return
	}

	log.Debug("streetcode created via API", slog.Int("streetcode_id", sc.ID))
	respondCreated(w, r, streetcodeToResponse(sc))
}

// Update handles PUT /streetcodes/{id}.
func (h *StreetcodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req StreetcodeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	sc := req.toDomain()
	sc.ID = id
	if err := h.streetcodes.Update(r.Context(), &sc); err != nil {
		HandleAPIError(w, r, err, "Failed to update streetcode")
		return
	}
	respondOK(w, r, streetcodeToResponse(&sc))
}

// UpdateStatus handles PATCH /streetcodes/{id}/status.
func (h *StreetcodeHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if err := h.streetcodes.UpdateStatus(r.Context(), id, domain.StreetcodeStatus(req.Status)); err != nil {
		HandleAPIError(w, r, err, "Failed to update streetcode status")
		return
	}
	respondNoContent(w)
}

// SoftDelete handles DELETE /streetcodes/{id}. The streetcode is marked
// deleted and keeps its content.
func (h *StreetcodeHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.streetcodes.SoftDelete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete streetcode")
		return
	}
	respondNoContent(w)
}

// Delete handles DELETE /streetcodes/{id}/permanent.
func (h *StreetcodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.streetcodes.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete streetcode")
		return
	}
	respondNoContent(w)
}
