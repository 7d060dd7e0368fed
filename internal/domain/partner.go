package domain

// LogoType identifies the social network a link points to.
type LogoType string

// Supported logo types
const (
	LogoTypeTwitter   LogoType = "twitter"
	LogoTypeInstagram LogoType = "instagram"
	LogoTypeFacebook  LogoType = "facebook"
	LogoTypeYouTube   LogoType = "youtube"
)

// IsValidLogoType checks if the given value is a supported LogoType.
func IsValidLogoType(t LogoType) bool {
	switch t {
	case LogoTypeTwitter, LogoTypeInstagram, LogoTypeFacebook, LogoTypeYouTube:
		return true
	default:
		return false
	}
}

// Limits enforced on partners.
const (
	MaxPartnerTitle       = 100
	MaxPartnerURLTitle    = 100
	MaxPartnerDescription = 450
	MaxTargetURL          = 255
)

// Partner is an organisation supporting the platform. SourceLinks and
// StreetcodeIDs are relations that are populated only when requested.
type Partner struct {
	ID                  int
	Title               string
	LogoID              int
	IsKeyPartner        bool
	IsVisibleEverywhere bool
	TargetURL           string
	URLTitle            string
	Description         string

	SourceLinks   []PartnerSourceLink
	StreetcodeIDs []int
}

// Validate checks if the Partner has valid data.
func (p *Partner) Validate() error {
	if err := firstError(
		required("title", p.Title),
		maxLen("title", p.Title, MaxPartnerTitle),
		positiveID("logo_id", p.LogoID),
		maxLen("target_url", p.TargetURL, MaxTargetURL),
		maxLen("url_title", p.URLTitle, MaxPartnerURLTitle),
		maxLen("description", p.Description, MaxPartnerDescription),
	); err != nil {
		return err
	}
	if p.TargetURL != "" && !IsValidURL(p.TargetURL) {
		return NewValidationError("target_url", "must be an absolute http(s) URL", ErrInvalidFormat)
	}
	if p.URLTitle != "" && p.TargetURL == "" {
		return NewValidationError("url_title", "requires target_url", nil)
	}
	for i := range p.SourceLinks {
		if err := p.SourceLinks[i].validateLink(); err != nil {
			return err
		}
	}
	for _, id := range p.StreetcodeIDs {
		if err := positiveID("streetcode_ids", id); err != nil {
			return err
		}
	}
	return nil
}

// PartnerSourceLink is a social network link of a partner.
type PartnerSourceLink struct {
	ID        int
	PartnerID int
	LogoType  LogoType
	TargetURL string
}

func (l *PartnerSourceLink) validateLink() error {
	return validateSocialLink(l.LogoType, l.TargetURL)
}

// StreetcodePartner links a partner to a streetcode.
type StreetcodePartner struct {
	ID           int
	StreetcodeID int
	PartnerID    int
}

func validateSocialLink(logoType LogoType, target string) error {
	if !IsValidLogoType(logoType) {
		return NewValidationError("logo_type", "is not a supported logo type", nil)
	}
	if err := firstError(
		required("target_url", target),
		maxLen("target_url", target, MaxTargetURL),
	); err != nil {
		return err
	}
	if !IsValidURL(target) {
		return NewValidationError("target_url", "must be an absolute http(s) URL", ErrInvalidFormat)
	}
	return nil
}
