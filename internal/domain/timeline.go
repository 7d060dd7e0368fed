package domain

import "time"

// DateViewPattern controls how much of a timeline date is displayed.
type DateViewPattern string

// Supported date view patterns
const (
	DateViewDateMonthYear DateViewPattern = "date_month_year"
	DateViewMonthYear     DateViewPattern = "month_year"
	DateViewYear          DateViewPattern = "year"
	DateViewSeasonYear    DateViewPattern = "season_year"
)

// IsValidDateViewPattern checks if the given value is a supported pattern.
func IsValidDateViewPattern(p DateViewPattern) bool {
	switch p {
	case DateViewDateMonthYear, DateViewMonthYear, DateViewYear, DateViewSeasonYear:
		return true
	default:
		return false
	}
}

// Limits enforced on timeline items.
const (
	MaxTimelineTitle       = 26
	MaxTimelineDescription = 400
)

// TimelineItem is a dated event on a streetcode's timeline.
type TimelineItem struct {
	ID              int
	Date            time.Time
	DateViewPattern DateViewPattern
	Title           string
	Description     string
	StreetcodeID    int
}

// Validate checks if the TimelineItem has valid data.
func (t *TimelineItem) Validate() error {
	if t.Date.IsZero() {
		return NewValidationError("date", "is required", nil)
	}
	if !IsValidDateViewPattern(t.DateViewPattern) {
		return NewValidationError("date_view_pattern", "is not a supported pattern", nil)
	}
	return firstError(
		required("title", t.Title),
		maxLen("title", t.Title, MaxTimelineTitle),
		maxLen("description", t.Description, MaxTimelineDescription),
		positiveID("streetcode_id", t.StreetcodeID),
	)
}

// FormatDate renders the date according to its view pattern.
func (t *TimelineItem) FormatDate() string {
	switch t.DateViewPattern {
	case DateViewDateMonthYear:
		return t.Date.Format("2 January 2006")
	case DateViewMonthYear:
		return t.Date.Format("January 2006")
	case DateViewSeasonYear:
		return season(t.Date.Month()) + " " + t.Date.Format("2006")
	default:
		return t.Date.Format("2006")
	}
}

func season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Autumn"
	}
}
