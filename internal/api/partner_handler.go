package api

import (
	"log/slog"
	"net/http"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// SocialLinkRequest is a social network link of a partner or team member.
type SocialLinkRequest struct {
	LogoType  string `json:"logo_type"  validate:"required,oneof=twitter instagram facebook youtube"`
	TargetURL string `json:"target_url" validate:"required,url,max=255"`
}

// SocialLinkResponse represents a social network link.
type SocialLinkResponse struct {
	ID        int    `json:"id"`
	LogoType  string `json:"logo_type"`
	TargetURL string `json:"target_url"`
}

// PartnerRequest carries a partner together with its relations. The
// relations replace the stored ones on update.
type PartnerRequest struct {
	Title               string              `json:"title"                 validate:"required,max=100"`
	LogoID              int                 `json:"logo_id"               validate:"required,gt=0"`
	IsKeyPartner        bool                `json:"is_key_partner"`
	IsVisibleEverywhere bool                `json:"is_visible_everywhere"`
	TargetURL           string              `json:"target_url"            validate:"omitempty,url,max=255"`
	URLTitle            string              `json:"url_title"             validate:"max=100"`
	Description         string              `json:"description"           validate:"max=450"`
	SourceLinks         []SocialLinkRequest `json:"source_links"          validate:"dive"`
	StreetcodeIDs       []int               `json:"streetcode_ids"        validate:"dive,gt=0"`
}

func (req *PartnerRequest) toDomain(id int) *domain.Partner {
	p := &domain.Partner{
		ID:                  id,
		Title:               req.Title,
		LogoID:              req.LogoID,
		IsKeyPartner:        req.IsKeyPartner,
		IsVisibleEverywhere: req.IsVisibleEverywhere,
		TargetURL:           req.TargetURL,
		URLTitle:            req.URLTitle,
		Description:         req.Description,
		StreetcodeIDs:       req.StreetcodeIDs,
	}
	for _, l := range req.SourceLinks {
		p.SourceLinks = append(p.SourceLinks, domain.PartnerSourceLink{
			LogoType:  domain.LogoType(l.LogoType),
			TargetURL: l.TargetURL,
		})
	}
	return p
}

// PartnerResponse represents a partner with its relations.
type PartnerResponse struct {
	ID                  int                  `json:"id"`
	Title               string               `json:"title"`
	LogoID              int                  `json:"logo_id"`
	IsKeyPartner        bool                 `json:"is_key_partner"`
	IsVisibleEverywhere bool                 `json:"is_visible_everywhere"`
	TargetURL           string               `json:"target_url,omitempty"`
	URLTitle            string               `json:"url_title,omitempty"`
	Description         string               `json:"description,omitempty"`
	SourceLinks         []SocialLinkResponse `json:"source_links"`
	StreetcodeIDs       []int                `json:"streetcode_ids"`
}

// PartnerShortResponse is the name-only view of a partner.
type PartnerShortResponse struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func partnerToResponse(p *domain.Partner) PartnerResponse {
	links := make([]SocialLinkResponse, len(p.SourceLinks))
	for i, l := range p.SourceLinks {
		links[i] = SocialLinkResponse{ID: l.ID, LogoType: string(l.LogoType), TargetURL: l.TargetURL}
	}
	streetcodeIDs := p.StreetcodeIDs
	if streetcodeIDs == nil {
		streetcodeIDs = []int{}
	}
	return PartnerResponse{
		ID:                  p.ID,
		Title:               p.Title,
		LogoID:              p.LogoID,
		IsKeyPartner:        p.IsKeyPartner,
		IsVisibleEverywhere: p.IsVisibleEverywhere,
		TargetURL:           p.TargetURL,
		URLTitle:            p.URLTitle,
		Description:         p.Description,
		SourceLinks:         links,
		StreetcodeIDs:       streetcodeIDs,
	}
}

// PartnerHandler handles partner requests.
type PartnerHandler struct {
	partners service.PartnerService
	logger   *slog.Logger
}

// NewPartnerHandler creates a new PartnerHandler.
func NewPartnerHandler(partners service.PartnerService, logger *slog.Logger) *PartnerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PartnerHandler{partners: partners, logger: logger.With(slog.String("component", "partner_handler"))}
}

// GetAll handles GET /partners.
func (h *PartnerHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	partners, err := h.partners.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list partners")
		return
	}
	respondOK(w, r, mapSlice(partners, partnerToResponse))
}

// GetAllShort handles GET /partners/short.
func (h *PartnerHandler) GetAllShort(w http.ResponseWriter, r *http.Request) {
	partners, err := h.partners.GetAllShort(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list partners")
		return
	}
	respondOK(w, r, mapSlice(partners, func(p service.PartnerShort) PartnerShortResponse {
		return PartnerShortResponse(p)
	}))
}

// GetByID handles GET /partners/{id}.
func (h *PartnerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	partner, err := h.partners.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get partner")
		return
	}
	respondOK(w, r, partnerToResponse(partner))
}

// GetByStreetcodeID handles GET /streetcodes/{id}/partners.
func (h *PartnerHandler) GetByStreetcodeID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	partners, err := h.partners.GetByStreetcodeID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list partners")
		return
	}
	respondOK(w, r, mapSlice(partners, partnerToResponse))
}

// Create handles POST /partners.
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PartnerRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	partner := req.toDomain(0)
	if err := h.partners.Create(r.Context(), partner); err != nil {
		HandleAPIError(w, r, err, "Failed to create partner")
		return
	}
	respondCreated(w, r, partnerToResponse(partner))
}

// Update handles PUT /partners/{id}.
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req PartnerRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	partner := req.toDomain(id)
	if err := h.partners.Update(r.Context(), partner); err != nil {
		HandleAPIError(w, r, err, "Failed to update partner")
		return
	}
	respondOK(w, r, partnerToResponse(partner))
}

// Delete handles DELETE /partners/{id}.
func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.partners.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete partner")
		return
	}
	respondNoContent(w)
}
