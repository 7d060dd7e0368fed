package api

import (
	"log/slog"
	"net/http"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
)

// TeamMemberRequest carries a team member together with its links and
// positions.
type TeamMemberRequest struct {
	FirstName   string              `json:"first_name"   validate:"required,max=50"`
	LastName    string              `json:"last_name"    validate:"required,max=50"`
	Description string              `json:"description"  validate:"max=150"`
	IsMain      bool                `json:"is_main"`
	ImageID     int                 `json:"image_id"     validate:"required,gt=0"`
	Links       []SocialLinkRequest `json:"links"        validate:"dive"`
	PositionIDs []int               `json:"position_ids" validate:"dive,gt=0"`
}

func (req *TeamMemberRequest) toDomain(id int) *domain.TeamMember {
	m := &domain.TeamMember{
		ID:          id,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Description: req.Description,
		IsMain:      req.IsMain,
		ImageID:     req.ImageID,
		PositionIDs: req.PositionIDs,
	}
	for _, l := range req.Links {
		m.Links = append(m.Links, domain.TeamMemberLink{
			LogoType:  domain.LogoType(l.LogoType),
			TargetURL: l.TargetURL,
		})
	}
	return m
}

// PositionRequest carries the title of a position.
type PositionRequest struct {
	Title string `json:"title" validate:"required,max=50"`
}

// TeamMemberResponse represents a team member.
type TeamMemberResponse struct {
	ID          int                  `json:"id"`
	FirstName   string               `json:"first_name"`
	LastName    string               `json:"last_name"`
	Description string               `json:"description,omitempty"`
	IsMain      bool                 `json:"is_main"`
	ImageID     int                  `json:"image_id"`
	Links       []SocialLinkResponse `json:"links"`
	PositionIDs []int                `json:"position_ids"`
}

// PositionResponse represents a position.
type PositionResponse struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func teamMemberToResponse(m *domain.TeamMember) TeamMemberResponse {
	links := make([]SocialLinkResponse, len(m.Links))
	for i, l := range m.Links {
		links[i] = SocialLinkResponse{ID: l.ID, LogoType: string(l.LogoType), TargetURL: l.TargetURL}
	}
	positionIDs := m.PositionIDs
	if positionIDs == nil {
		positionIDs = []int{}
	}
	return TeamMemberResponse{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Description: m.Description,
		IsMain:      m.IsMain,
		ImageID:     m.ImageID,
		Links:       links,
		PositionIDs: positionIDs,
	}
}

func positionToResponse(p *domain.Position) PositionResponse {
	return PositionResponse{ID: p.ID, Title: p.Title}
}

// TeamHandler handles team member and position requests.
type TeamHandler struct {
	team   service.TeamService
	logger *slog.Logger
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(team service.TeamService, logger *slog.Logger) *TeamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamHandler{team: team, logger: logger.With(slog.String("component", "team_handler"))}
}

// GetAll handles GET /team.
func (h *TeamHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	members, err := h.team.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list team members")
		return
	}
	respondOK(w, r, mapSlice(members, teamMemberToResponse))
}

// GetAllMain handles GET /team/main.
func (h *TeamHandler) GetAllMain(w http.ResponseWriter, r *http.Request) {
	members, err := h.team.GetAllMain(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list team members")
		return
	}
	respondOK(w, r, mapSlice(members, teamMemberToResponse))
}

// GetByID handles GET /team/{id}.
func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	member, err := h.team.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get team member")
		return
	}
	respondOK(w, r, teamMemberToResponse(member))
}

// Create handles POST /team.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TeamMemberRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	member := req.toDomain(0)
	if err := h.team.Create(r.Context(), member); err != nil {
		HandleAPIError(w, r, err, "Failed to create team member")
		return
	}
	respondCreated(w, r, teamMemberToResponse(member))
}

// Update handles PUT /team/{id}.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req TeamMemberRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	member := req.toDomain(id)
	if err := h.team.Update(r.Context(), member); err != nil {
		HandleAPIError(w, r, err, "Failed to update team member")
		return
	}
	respondOK(w, r, teamMemberToResponse(member))
}

// Delete handles DELETE /team/{id}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.team.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete team member")
		return
	}
	respondNoContent(w)
}

// GetAllPositions handles GET /positions.
func (h *TeamHandler) GetAllPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.team.GetAllPositions(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list positions")
		return
	}
	respondOK(w, r, mapSlice(positions, positionToResponse))
}

// CreatePosition handles POST /positions.
func (h *TeamHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	position := &domain.Position{Title: req.Title}
	if err := h.team.CreatePosition(r.Context(), position); err != nil {
		HandleAPIError(w, r, err, "Failed to create position")
		return
	}
	respondCreated(w, r, positionToResponse(position))
}
