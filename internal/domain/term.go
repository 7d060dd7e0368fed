package domain

// Limits enforced on dictionary terms.
const (
	MaxTermTitle       = 50
	MaxTermDescription = 500
	MaxRelatedWord     = 50
)

// Term is a dictionary entry that is highlighted inside streetcode texts.
type Term struct {
	ID          int
	Title       string
	Description string
}

// Validate checks if the Term has valid data.
func (t *Term) Validate() error {
	return firstError(
		required("title", t.Title),
		maxLen("title", t.Title, MaxTermTitle),
		required("description", t.Description),
		maxLen("description", t.Description, MaxTermDescription),
	)
}

// RelatedTerm is an alternative word form that points at a Term.
type RelatedTerm struct {
	ID     int
	Word   string
	TermID int
}

// Validate checks if the RelatedTerm has valid data.
func (r *RelatedTerm) Validate() error {
	return firstError(
		required("word", r.Word),
		maxLen("word", r.Word, MaxRelatedWord),
		positiveID("term_id", r.TermID),
	)
}
