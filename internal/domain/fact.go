package domain

// Limits enforced on facts.
const (
	MaxFactTitle   = 68
	MaxFactContent = 600
)

// Fact is a short numbered "interesting fact" shown on a streetcode page.
// Numbers within one streetcode always form the sequence 1..n.
type Fact struct {
	ID           int
	Title        string
	Content      string
	ImageID      *int
	StreetcodeID int
	Number       int
}

// Validate checks if the Fact has valid data.
func (f *Fact) Validate() error {
	if err := firstError(
		required("title", f.Title),
		maxLen("title", f.Title, MaxFactTitle),
		required("content", f.Content),
		maxLen("content", f.Content, MaxFactContent),
		positiveID("streetcode_id", f.StreetcodeID),
	); err != nil {
		return err
	}
	if f.ImageID != nil {
		return positiveID("image_id", *f.ImageID)
	}
	return nil
}

// FactPosition assigns a fact to a position in the streetcode's fact list.
type FactPosition struct {
	ID     int
	Number int
}
