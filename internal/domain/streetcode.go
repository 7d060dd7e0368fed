package domain

import (
	"regexp"
	"time"
)

// StreetcodeType distinguishes biographies from historical events.
type StreetcodeType string

// Possible streetcode types
const (
	StreetcodeTypePerson StreetcodeType = "person"
	StreetcodeTypeEvent  StreetcodeType = "event"
)

// StreetcodeStatus represents the publication state of a streetcode.
type StreetcodeStatus string

// Possible streetcode status values
const (
	StreetcodeStatusDraft     StreetcodeStatus = "draft"
	StreetcodeStatusPublished StreetcodeStatus = "published"
	StreetcodeStatusDeleted   StreetcodeStatus = "deleted"
)

// Limits enforced on streetcode content.
const (
	MinStreetcodeIndex      = 1
	MaxStreetcodeIndex      = 9999
	MaxStreetcodeTitle      = 100
	MaxStreetcodeName       = 50
	MaxStreetcodeAlias      = 33
	MaxStreetcodeTeaser     = 520
	MaxStreetcodeDateString = 100
	MaxTransliterationURL   = 150
)

var transliterationURLPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Streetcode is a biographical or historical content entry, the core record
// of the platform. Related content (texts, facts, media) references it by ID.
type Streetcode struct {
	ID                          int
	Index                       int
	Type                        StreetcodeType
	Title                       string
	FirstName                   string
	LastName                    string
	DateString                  string
	Alias                       string
	Teaser                      string
	TransliterationURL          string
	Status                      StreetcodeStatus
	ViewCount                   int
	EventStartOrPersonBirthDate time.Time
	EventEndOrPersonDeathDate   *time.Time
	AudioID                     *int
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// Validate checks if the Streetcode has valid data.
func (s *Streetcode) Validate() error {
	if s.Index < MinStreetcodeIndex || s.Index > MaxStreetcodeIndex {
		return NewValidationError("index", "must be between 1 and 9999", nil)
	}
	if !IsValidStreetcodeType(s.Type) {
		return NewValidationError("type", "is not a valid streetcode type", nil)
	}
	if !IsValidStreetcodeStatus(s.Status) {
		return NewValidationError("status", "is not a valid streetcode status", nil)
	}
	if err := firstError(
		required("title", s.Title),
		maxLen("title", s.Title, MaxStreetcodeTitle),
		maxLen("first_name", s.FirstName, MaxStreetcodeName),
		maxLen("last_name", s.LastName, MaxStreetcodeName),
		maxLen("alias", s.Alias, MaxStreetcodeAlias),
		maxLen("teaser", s.Teaser, MaxStreetcodeTeaser),
		required("date_string", s.DateString),
		maxLen("date_string", s.DateString, MaxStreetcodeDateString),
		required("transliteration_url", s.TransliterationURL),
		maxLen("transliteration_url", s.TransliterationURL, MaxTransliterationURL),
	); err != nil {
		return err
	}
	if !IsValidTransliterationURL(s.TransliterationURL) {
		return NewValidationError("transliteration_url",
			"must contain only lowercase latin letters, digits and single hyphens", ErrInvalidFormat)
	}
	if s.Type == StreetcodeTypePerson && s.FirstName == "" && s.LastName == "" {
		return NewValidationError("first_name", "is required for a person", nil)
	}
	if s.EventStartOrPersonBirthDate.IsZero() {
		return NewValidationError("event_start_or_person_birth_date", "is required", nil)
	}
	if s.EventEndOrPersonDeathDate != nil &&
		s.EventEndOrPersonDeathDate.Before(s.EventStartOrPersonBirthDate) {
		return NewValidationError("event_end_or_person_death_date", "must not precede the start date", nil)
	}
	if s.AudioID != nil {
		if err := positiveID("audio_id", *s.AudioID); err != nil {
			return err
		}
	}
	return nil
}

// IsPublished reports whether the streetcode is visible to the public.
func (s *Streetcode) IsPublished() bool {
	return s.Status == StreetcodeStatusPublished
}

// IsValidStreetcodeType checks if the given type is a known StreetcodeType.
func IsValidStreetcodeType(t StreetcodeType) bool {
	switch t {
	case StreetcodeTypePerson, StreetcodeTypeEvent:
		return true
	default:
		return false
	}
}

// IsValidStreetcodeStatus checks if the given status is a known StreetcodeStatus.
func IsValidStreetcodeStatus(status StreetcodeStatus) bool {
	switch status {
	case StreetcodeStatusDraft, StreetcodeStatusPublished, StreetcodeStatusDeleted:
		return true
	default:
		return false
	}
}

// IsValidTransliterationURL reports whether url is a lowercase slug.
func IsValidTransliterationURL(url string) bool {
	return transliterationURLPattern.MatchString(url)
}
