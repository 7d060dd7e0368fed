package domain

// Limits enforced on streetcode texts.
const (
	MaxTextTitle          = 50
	MaxTextContent        = 15000
	MaxTextAdditionalText = 200
)

// Text is the main article of a streetcode. A streetcode has at most one.
type Text struct {
	ID             int
	Title          string
	Content        string
	AdditionalText string
	StreetcodeID   int
}

// Validate checks if the Text has valid data.
func (t *Text) Validate() error {
	return firstError(
		required("title", t.Title),
		maxLen("title", t.Title, MaxTextTitle),
		required("content", t.Content),
		maxLen("content", t.Content, MaxTextContent),
		maxLen("additional_text", t.AdditionalText, MaxTextAdditionalText),
		positiveID("streetcode_id", t.StreetcodeID),
	)
}
