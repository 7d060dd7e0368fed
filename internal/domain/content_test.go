package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return vErr.Field
}

func TestMediaValidate(t *testing.T) {
	t.Parallel()

	audio := Audio{Title: "Anthem", BlobName: "abc.mp3", MimeType: "audio/mpeg"}
	assert.NoError(t, audio.Validate())

	audio.MimeType = "image/png"
	assert.Equal(t, "mime_type", fieldOf(t, audio.Validate()))

	audio.MimeType = "audio/"
	assert.Equal(t, "mime_type", fieldOf(t, audio.Validate()))

	image := Image{Alt: "portrait", BlobName: "abc.png", MimeType: "image/png"}
	assert.NoError(t, image.Validate())

	image.BlobName = ""
	assert.Equal(t, "blob_name", fieldOf(t, image.Validate()))

	video := Video{Title: "Documentary", URL: "https://youtube.com/watch?v=1", StreetcodeID: 1}
	assert.NoError(t, video.Validate())

	video.URL = "youtube.com/watch"
	assert.Equal(t, "url", fieldOf(t, video.Validate()))

	art := Art{Title: "Mural", ImageID: 0}
	assert.Equal(t, "image_id", fieldOf(t, art.Validate()))
	assert.ErrorIs(t, art.Validate(), ErrInvalidID)
}

func TestFactValidate(t *testing.T) {
	t.Parallel()

	fact := Fact{Title: "Poet", Content: "Wrote Kobzar", StreetcodeID: 3}
	assert.NoError(t, fact.Validate())

	fact.Title = strings.Repeat("x", MaxFactTitle+1)
	assert.Equal(t, "title", fieldOf(t, fact.Validate()))

	fact.Title = "Poet"
	zero := 0
	fact.ImageID = &zero
	assert.Equal(t, "image_id", fieldOf(t, fact.Validate()))
}

func TestPartnerValidate(t *testing.T) {
	t.Parallel()

	partner := Partner{
		Title:     "SoftServe",
		LogoID:    1,
		TargetURL: "https://softserve.ua",
		URLTitle:  "Website",
		SourceLinks: []PartnerSourceLink{
			{LogoType: LogoTypeFacebook, TargetURL: "https://facebook.com/softserve"},
		},
		StreetcodeIDs: []int{1, 2},
	}
	assert.NoError(t, partner.Validate())

	noTarget := partner
	noTarget.TargetURL = ""
	assert.Equal(t, "url_title", fieldOf(t, noTarget.Validate()))

	badLink := partner
	badLink.SourceLinks = []PartnerSourceLink{{LogoType: "myspace", TargetURL: "https://myspace.com"}}
	assert.Equal(t, "logo_type", fieldOf(t, badLink.Validate()))

	badStreetcode := partner
	badStreetcode.StreetcodeIDs = []int{-1}
	assert.Equal(t, "streetcode_ids", fieldOf(t, badStreetcode.Validate()))
}

func TestTeamMemberValidate(t *testing.T) {
	t.Parallel()

	member := TeamMember{FirstName: "Olena", LastName: "Koval", ImageID: 4, PositionIDs: []int{1}}
	assert.NoError(t, member.Validate())

	member.Links = []TeamMemberLink{{LogoType: LogoTypeTwitter, TargetURL: "not a url"}}
	assert.Equal(t, "target_url", fieldOf(t, member.Validate()))

	position := Position{}
	assert.Equal(t, "title", fieldOf(t, position.Validate()))
}

func TestTimelineItem(t *testing.T) {
	t.Parallel()

	item := TimelineItem{
		Date:            time.Date(1840, time.April, 18, 0, 0, 0, 0, time.UTC),
		DateViewPattern: DateViewDateMonthYear,
		Title:           "Kobzar",
		StreetcodeID:    1,
	}
	assert.NoError(t, item.Validate())
	assert.Equal(t, "18 April 1840", item.FormatDate())

	item.DateViewPattern = DateViewMonthYear
	assert.Equal(t, "April 1840", item.FormatDate())

	item.DateViewPattern = DateViewSeasonYear
	assert.Equal(t, "Spring 1840", item.FormatDate())

	item.DateViewPattern = DateViewYear
	assert.Equal(t, "1840", item.FormatDate())

	item.DateViewPattern = "century"
	assert.Equal(t, "date_view_pattern", fieldOf(t, item.Validate()))
}

func TestLocationValidate(t *testing.T) {
	t.Parallel()

	coord := StreetcodeCoordinate{Latitude: 50.45, Longitude: 30.52, StreetcodeID: 1}
	assert.NoError(t, coord.Validate())

	coord.Latitude = 91
	assert.Equal(t, "latitude", fieldOf(t, coord.Validate()))

	coord.Latitude, coord.Longitude = 0, -181
	assert.Equal(t, "longitude", fieldOf(t, coord.Validate()))

	record := StatisticRecord{QrID: 10, Address: "Khreshchatyk 1", StreetcodeID: 1, StreetcodeCoordinateID: 2}
	assert.NoError(t, record.Validate())

	record.Count = -1
	assert.Equal(t, "count", fieldOf(t, record.Validate()))

	lat := 50.0
	toponym := Toponym{Oblast: "Kyivska", Community: "Bucha", StreetName: "Vokzalna"}
	assert.NoError(t, toponym.Validate())
	assert.False(t, toponym.HasCoordinates())

	toponym.Latitude = &lat
	assert.Equal(t, "latitude", fieldOf(t, toponym.Validate()))

	lng := 30.0
	toponym.Longitude = &lng
	assert.NoError(t, toponym.Validate())
	assert.True(t, toponym.HasCoordinates())
}

func TestTermAndTextValidate(t *testing.T) {
	t.Parallel()

	term := Term{Title: "Hetman", Description: "Military commander"}
	assert.NoError(t, term.Validate())

	related := RelatedTerm{Word: "hetmans", TermID: 0}
	assert.Equal(t, "term_id", fieldOf(t, related.Validate()))

	text := Text{Title: "Biography", Content: "Born in Moryntsi", StreetcodeID: 1}
	assert.NoError(t, text.Validate())

	text.AdditionalText = strings.Repeat("a", MaxTextAdditionalText+1)
	assert.Equal(t, "additional_text", fieldOf(t, text.Validate()))

	category := SourceLinkCategory{Title: "Books", ImageID: 1}
	assert.NoError(t, category.Validate())

	content := StreetcodeCategoryContent{Text: "", SourceLinkCategoryID: 1, StreetcodeID: 1}
	assert.Equal(t, "text", fieldOf(t, content.Validate()))
}
