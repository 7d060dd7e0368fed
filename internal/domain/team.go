package domain

// Limits enforced on team members.
const (
	MaxTeamMemberName        = 50
	MaxTeamMemberDescription = 150
	MaxPositionTitle         = 50
)

// TeamMember is a person working on the platform. Links and PositionIDs
// are relations populated only when requested.
type TeamMember struct {
	ID          int
	FirstName   string
	LastName    string
	Description string
	IsMain      bool
	ImageID     int

	Links       []TeamMemberLink
	PositionIDs []int
}

// Validate checks if the TeamMember has valid data.
func (m *TeamMember) Validate() error {
	if err := firstError(
		required("first_name", m.FirstName),
		maxLen("first_name", m.FirstName, MaxTeamMemberName),
		required("last_name", m.LastName),
		maxLen("last_name", m.LastName, MaxTeamMemberName),
		maxLen("description", m.Description, MaxTeamMemberDescription),
		positiveID("image_id", m.ImageID),
	); err != nil {
		return err
	}
	for i := range m.Links {
		if err := validateSocialLink(m.Links[i].LogoType, m.Links[i].TargetURL); err != nil {
			return err
		}
	}
	for _, id := range m.PositionIDs {
		if err := positiveID("position_ids", id); err != nil {
			return err
		}
	}
	return nil
}

// TeamMemberLink is a social network link of a team member.
type TeamMemberLink struct {
	ID           int
	TeamMemberID int
	LogoType     LogoType
	TargetURL    string
}

// Position is a role a team member can hold.
type Position struct {
	ID    int
	Title string
}

// Validate checks if the Position has valid data.
func (p *Position) Validate() error {
	return firstError(
		required("title", p.Title),
		maxLen("title", p.Title, MaxPositionTitle),
	)
}

// TeamMemberPosition links a team member to a position.
type TeamMemberPosition struct {
	ID           int
	TeamMemberID int
	PositionID   int
}
