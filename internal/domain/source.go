package domain

// Limits enforced on source categories.
const (
	MaxSourceCategoryTitle = 23
	MaxCategoryContentText = 4000
)

// SourceLinkCategory groups the sources ("where to read more") of
// streetcodes under a titled, illustrated heading.
type SourceLinkCategory struct {
	ID      int
	Title   string
	ImageID int
}

// Validate checks if the SourceLinkCategory has valid data.
func (c *SourceLinkCategory) Validate() error {
	return firstError(
		required("title", c.Title),
		maxLen("title", c.Title, MaxSourceCategoryTitle),
		positiveID("image_id", c.ImageID),
	)
}

// StreetcodeCategoryContent is the text a streetcode shows under a source
// category. At most one exists per (streetcode, category) pair.
type StreetcodeCategoryContent struct {
	ID                   int
	Text                 string
	SourceLinkCategoryID int
	StreetcodeID         int
}

// Validate checks if the StreetcodeCategoryContent has valid data.
func (c *StreetcodeCategoryContent) Validate() error {
	return firstError(
		required("text", c.Text),
		maxLen("text", c.Text, MaxCategoryContentText),
		positiveID("source_link_category_id", c.SourceLinkCategoryID),
		positiveID("streetcode_id", c.StreetcodeID),
	)
}
