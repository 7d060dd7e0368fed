package store

import (
	"context"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
)

// Relation names accepted by Include.
const (
	RelPartnerSourceLinks = "source_links"
	RelPartnerStreetcodes = "streetcodes"
	RelTeamMemberLinks    = "links"
	RelTeamMemberPosition = "positions"
)

// StreetcodesTable maps domain.Streetcode.
var StreetcodesTable = Table[domain.Streetcode]{
	Name:   "streetcodes",
	Entity: "streetcode",
	Key:    func(s *domain.Streetcode) *int { return &s.ID },
	Columns: []Column[domain.Streetcode]{
		{"index", func(s *domain.Streetcode) any { return &s.Index }},
		{"type", func(s *domain.Streetcode) any { return &s.Type }},
		{"title", func(s *domain.Streetcode) any { return &s.Title }},
		{"first_name", func(s *domain.Streetcode) any { return &s.FirstName }},
		{"last_name", func(s *domain.Streetcode) any { return &s.LastName }},
		{"date_string", func(s *domain.Streetcode) any { return &s.DateString }},
		{"alias", func(s *domain.Streetcode) any { return &s.Alias }},
		{"teaser", func(s *domain.Streetcode) any { return &s.Teaser }},
		{"transliteration_url", func(s *domain.Streetcode) any { return &s.TransliterationURL }},
		{"status", func(s *domain.Streetcode) any { return &s.Status }},
		{"view_count", func(s *domain.Streetcode) any { return &s.ViewCount }},
		{"event_start_or_person_birth_date", func(s *domain.Streetcode) any { return &s.EventStartOrPersonBirthDate }},
		{"event_end_or_person_death_date", func(s *domain.Streetcode) any { return &s.EventEndOrPersonDeathDate }},
		{"audio_id", func(s *domain.Streetcode) any { return &s.AudioID }},
		{"created_at", func(s *domain.Streetcode) any { return &s.CreatedAt }},
		{"updated_at", func(s *domain.Streetcode) any { return &s.UpdatedAt }},
	},
	Unique: [][]string{{"index"}, {"transliteration_url"}},
}

// TextsTable maps domain.Text.
var TextsTable = Table[domain.Text]{
	Name:   "texts",
	Entity: "text",
	Key:    func(t *domain.Text) *int { return &t.ID },
	Columns: []Column[domain.Text]{
		{"title", func(t *domain.Text) any { return &t.Title }},
		{"content", func(t *domain.Text) any { return &t.Content }},
		{"additional_text", func(t *domain.Text) any { return &t.AdditionalText }},
		{"streetcode_id", func(t *domain.Text) any { return &t.StreetcodeID }},
	},
	Unique: [][]string{{"streetcode_id"}},
}

// FactsTable maps domain.Fact.
var FactsTable = Table[domain.Fact]{
	Name:   "facts",
	Entity: "fact",
	Key:    func(f *domain.Fact) *int { return &f.ID },
	Columns: []Column[domain.Fact]{
		{"title", func(f *domain.Fact) any { return &f.Title }},
		{"content", func(f *domain.Fact) any { return &f.Content }},
		{"image_id", func(f *domain.Fact) any { return &f.ImageID }},
		{"streetcode_id", func(f *domain.Fact) any { return &f.StreetcodeID }},
		{"number", func(f *domain.Fact) any { return &f.Number }},
	},
}

// TimelineItemsTable maps domain.TimelineItem.
var TimelineItemsTable = Table[domain.TimelineItem]{
	Name:   "timeline_items",
	Entity: "timeline item",
	Key:    func(t *domain.TimelineItem) *int { return &t.ID },
	Columns: []Column[domain.TimelineItem]{
		{"date", func(t *domain.TimelineItem) any { return &t.Date }},
		{"date_view_pattern", func(t *domain.TimelineItem) any { return &t.DateViewPattern }},
		{"title", func(t *domain.TimelineItem) any { return &t.Title }},
		{"description", func(t *domain.TimelineItem) any { return &t.Description }},
		{"streetcode_id", func(t *domain.TimelineItem) any { return &t.StreetcodeID }},
	},
}

// CoordinatesTable maps domain.StreetcodeCoordinate.
var CoordinatesTable = Table[domain.StreetcodeCoordinate]{
	Name:   "streetcode_coordinates",
	Entity: "coordinate",
	Key:    func(c *domain.StreetcodeCoordinate) *int { return &c.ID },
	Columns: []Column[domain.StreetcodeCoordinate]{
		{"latitude", func(c *domain.StreetcodeCoordinate) any { return &c.Latitude }},
		{"longitude", func(c *domain.StreetcodeCoordinate) any { return &c.Longitude }},
		{"streetcode_id", func(c *domain.StreetcodeCoordinate) any { return &c.StreetcodeID }},
	},
}

// StatisticRecordsTable maps domain.StatisticRecord.
var StatisticRecordsTable = Table[domain.StatisticRecord]{
	Name:   "statistic_records",
	Entity: "statistic record",
	Key:    func(r *domain.StatisticRecord) *int { return &r.ID },
	Columns: []Column[domain.StatisticRecord]{
		{"qr_id", func(r *domain.StatisticRecord) any { return &r.QrID }},
		{"count", func(r *domain.StatisticRecord) any { return &r.Count }},
		{"address", func(r *domain.StatisticRecord) any { return &r.Address }},
		{"streetcode_id", func(r *domain.StatisticRecord) any { return &r.StreetcodeID }},
		{"streetcode_coordinate_id", func(r *domain.StatisticRecord) any { return &r.StreetcodeCoordinateID }},
	},
	Unique: [][]string{{"qr_id"}},
}

// VideosTable maps domain.Video.
var VideosTable = Table[domain.Video]{
	Name:   "videos",
	Entity: "video",
	Key:    func(v *domain.Video) *int { return &v.ID },
	Columns: []Column[domain.Video]{
		{"title", func(v *domain.Video) any { return &v.Title }},
		{"description", func(v *domain.Video) any { return &v.Description }},
		{"url", func(v *domain.Video) any { return &v.URL }},
		{"streetcode_id", func(v *domain.Video) any { return &v.StreetcodeID }},
	},
}

// AudiosTable maps domain.Audio.
var AudiosTable = Table[domain.Audio]{
	Name:   "audios",
	Entity: "audio",
	Key:    func(a *domain.Audio) *int { return &a.ID },
	Columns: []Column[domain.Audio]{
		{"title", func(a *domain.Audio) any { return &a.Title }},
		{"blob_name", func(a *domain.Audio) any { return &a.BlobName }},
		{"mime_type", func(a *domain.Audio) any { return &a.MimeType }},
	},
}

// ImagesTable maps domain.Image.
var ImagesTable = Table[domain.Image]{
	Name:   "images",
	Entity: "image",
	Key:    func(i *domain.Image) *int { return &i.ID },
	Columns: []Column[domain.Image]{
		{"alt", func(i *domain.Image) any { return &i.Alt }},
		{"title", func(i *domain.Image) any { return &i.Title }},
		{"blob_name", func(i *domain.Image) any { return &i.BlobName }},
		{"mime_type", func(i *domain.Image) any { return &i.MimeType }},
	},
}

// ArtsTable maps domain.Art.
var ArtsTable = Table[domain.Art]{
	Name:   "arts",
	Entity: "art",
	Key:    func(a *domain.Art) *int { return &a.ID },
	Columns: []Column[domain.Art]{
		{"title", func(a *domain.Art) any { return &a.Title }},
		{"description", func(a *domain.Art) any { return &a.Description }},
		{"image_id", func(a *domain.Art) any { return &a.ImageID }},
	},
}

// PartnersTable maps domain.Partner. Source links and streetcode IDs are
// relations.
var PartnersTable = Table[domain.Partner]{
	Name:   "partners",
	Entity: "partner",
	Key:    func(p *domain.Partner) *int { return &p.ID },
	Columns: []Column[domain.Partner]{
		{"title", func(p *domain.Partner) any { return &p.Title }},
		{"logo_id", func(p *domain.Partner) any { return &p.LogoID }},
		{"is_key_partner", func(p *domain.Partner) any { return &p.IsKeyPartner }},
		{"is_visible_everywhere", func(p *domain.Partner) any { return &p.IsVisibleEverywhere }},
		{"target_url", func(p *domain.Partner) any { return &p.TargetURL }},
		{"url_title", func(p *domain.Partner) any { return &p.URLTitle }},
		{"description", func(p *domain.Partner) any { return &p.Description }},
	},
	Relations: map[string]Relation[domain.Partner]{
		RelPartnerSourceLinks: loadPartnerSourceLinks,
		RelPartnerStreetcodes: loadPartnerStreetcodes,
	},
	Unique: [][]string{{"title"}},
}

// PartnerSourceLinksTable maps domain.PartnerSourceLink.
var PartnerSourceLinksTable = Table[domain.PartnerSourceLink]{
	Name:   "partner_source_links",
	Entity: "partner source link",
	Key:    func(l *domain.PartnerSourceLink) *int { return &l.ID },
	Columns: []Column[domain.PartnerSourceLink]{
		{"partner_id", func(l *domain.PartnerSourceLink) any { return &l.PartnerID }},
		{"logo_type", func(l *domain.PartnerSourceLink) any { return &l.LogoType }},
		{"target_url", func(l *domain.PartnerSourceLink) any { return &l.TargetURL }},
	},
}

// SourceCategoriesTable maps domain.SourceLinkCategory.
var SourceCategoriesTable = Table[domain.SourceLinkCategory]{
	Name:   "source_link_categories",
	Entity: "source link category",
	Key:    func(c *domain.SourceLinkCategory) *int { return &c.ID },
	Columns: []Column[domain.SourceLinkCategory]{
		{"title", func(c *domain.SourceLinkCategory) any { return &c.Title }},
		{"image_id", func(c *domain.SourceLinkCategory) any { return &c.ImageID }},
	},
	Unique: [][]string{{"title"}},
}

// CategoryContentsTable maps domain.StreetcodeCategoryContent, the join
// between streetcodes and source categories.
var CategoryContentsTable = Table[domain.StreetcodeCategoryContent]{
	Name:   "streetcode_source_categories",
	Entity: "category content",
	Key:    func(c *domain.StreetcodeCategoryContent) *int { return &c.ID },
	Columns: []Column[domain.StreetcodeCategoryContent]{
		{"text", func(c *domain.StreetcodeCategoryContent) any { return &c.Text }},
		{"source_link_category_id", func(c *domain.StreetcodeCategoryContent) any { return &c.SourceLinkCategoryID }},
		{"streetcode_id", func(c *domain.StreetcodeCategoryContent) any { return &c.StreetcodeID }},
	},
	Unique: [][]string{{"streetcode_id", "source_link_category_id"}},
}

// TeamMembersTable maps domain.TeamMember. Links and positions are relations.
var TeamMembersTable = Table[domain.TeamMember]{
	Name:   "team_members",
	Entity: "team member",
	Key:    func(m *domain.TeamMember) *int { return &m.ID },
	Columns: []Column[domain.TeamMember]{
		{"first_name", func(m *domain.TeamMember) any { return &m.FirstName }},
		{"last_name", func(m *domain.TeamMember) any { return &m.LastName }},
		{"description", func(m *domain.TeamMember) any { return &m.Description }},
		{"is_main", func(m *domain.TeamMember) any { return &m.IsMain }},
		{"image_id", func(m *domain.TeamMember) any { return &m.ImageID }},
	},
	Relations: map[string]Relation[domain.TeamMember]{
		RelTeamMemberLinks:    loadTeamMemberLinks,
		RelTeamMemberPosition: loadTeamMemberPositions,
	},
}

// TeamMemberLinksTable maps domain.TeamMemberLink.
var TeamMemberLinksTable = Table[domain.TeamMemberLink]{
	Name:   "team_member_links",
	Entity: "team member link",
	Key:    func(l *domain.TeamMemberLink) *int { return &l.ID },
	Columns: []Column[domain.TeamMemberLink]{
		{"team_member_id", func(l *domain.TeamMemberLink) any { return &l.TeamMemberID }},
		{"logo_type", func(l *domain.TeamMemberLink) any { return &l.LogoType }},
		{"target_url", func(l *domain.TeamMemberLink) any { return &l.TargetURL }},
	},
}

// PositionsTable maps domain.Position.
var PositionsTable = Table[domain.Position]{
	Name:   "positions",
	Entity: "position",
	Key:    func(p *domain.Position) *int { return &p.ID },
	Columns: []Column[domain.Position]{
		{"title", func(p *domain.Position) any { return &p.Title }},
	},
	Unique: [][]string{{"title"}},
}

// TermsTable maps domain.Term.
var TermsTable = Table[domain.Term]{
	Name:   "terms",
	Entity: "term",
	Key:    func(t *domain.Term) *int { return &t.ID },
	Columns: []Column[domain.Term]{
		{"title", func(t *domain.Term) any { return &t.Title }},
		{"description", func(t *domain.Term) any { return &t.Description }},
	},
	Unique: [][]string{{"title"}},
}

// RelatedTermsTable maps domain.RelatedTerm.
var RelatedTermsTable = Table[domain.RelatedTerm]{
	Name:   "related_terms",
	Entity: "related term",
	Key:    func(r *domain.RelatedTerm) *int { return &r.ID },
	Columns: []Column[domain.RelatedTerm]{
		{"word", func(r *domain.RelatedTerm) any { return &r.Word }},
		{"term_id", func(r *domain.RelatedTerm) any { return &r.TermID }},
	},
	Unique: [][]string{{"term_id", "word"}},
}

// ToponymsTable maps domain.Toponym.
var ToponymsTable = Table[domain.Toponym]{
	Name:   "toponyms",
	Entity: "toponym",
	Key:    func(t *domain.Toponym) *int { return &t.ID },
	Columns: []Column[domain.Toponym]{
		{"oblast", func(t *domain.Toponym) any { return &t.Oblast }},
		{"admin_region_old", func(t *domain.Toponym) any { return &t.AdminRegionOld }},
		{"admin_region_new", func(t *domain.Toponym) any { return &t.AdminRegionNew }},
		{"gromada", func(t *domain.Toponym) any { return &t.Gromada }},
		{"community", func(t *domain.Toponym) any { return &t.Community }},
		{"street_type", func(t *domain.Toponym) any { return &t.StreetType }},
		{"street_name", func(t *domain.Toponym) any { return &t.StreetName }},
		{"latitude", func(t *domain.Toponym) any { return &t.Latitude }},
		{"longitude", func(t *domain.Toponym) any { return &t.Longitude }},
	},
}

// StreetcodeArtsTable maps domain.StreetcodeArt.
var StreetcodeArtsTable = Table[domain.StreetcodeArt]{
	Name:   "streetcode_arts",
	Entity: "streetcode art",
	Key:    func(a *domain.StreetcodeArt) *int { return &a.ID },
	Columns: []Column[domain.StreetcodeArt]{
		{"index", func(a *domain.StreetcodeArt) any { return &a.Index }},
		{"streetcode_id", func(a *domain.StreetcodeArt) any { return &a.StreetcodeID }},
		{"art_id", func(a *domain.StreetcodeArt) any { return &a.ArtID }},
	},
	Unique: [][]string{{"streetcode_id", "art_id"}},
}

// StreetcodeImagesTable maps domain.StreetcodeImage.
var StreetcodeImagesTable = Table[domain.StreetcodeImage]{
	Name:   "streetcode_images",
	Entity: "streetcode image",
	Key:    func(i *domain.StreetcodeImage) *int { return &i.ID },
	Columns: []Column[domain.StreetcodeImage]{
		{"streetcode_id", func(i *domain.StreetcodeImage) any { return &i.StreetcodeID }},
		{"image_id", func(i *domain.StreetcodeImage) any { return &i.ImageID }},
	},
	Unique: [][]string{{"streetcode_id", "image_id"}},
}

// StreetcodePartnersTable maps domain.StreetcodePartner.
var StreetcodePartnersTable = Table[domain.StreetcodePartner]{
	Name:   "streetcode_partners",
	Entity: "streetcode partner",
	Key:    func(p *domain.StreetcodePartner) *int { return &p.ID },
	Columns: []Column[domain.StreetcodePartner]{
		{"streetcode_id", func(p *domain.StreetcodePartner) any { return &p.StreetcodeID }},
		{"partner_id", func(p *domain.StreetcodePartner) any { return &p.PartnerID }},
	},
	Unique: [][]string{{"streetcode_id", "partner_id"}},
}

// StreetcodeToponymsTable maps domain.StreetcodeToponym.
var StreetcodeToponymsTable = Table[domain.StreetcodeToponym]{
	Name:   "streetcode_toponyms",
	Entity: "streetcode toponym",
	Key:    func(t *domain.StreetcodeToponym) *int { return &t.ID },
	Columns: []Column[domain.StreetcodeToponym]{
		{"streetcode_id", func(t *domain.StreetcodeToponym) any { return &t.StreetcodeID }},
		{"toponym_id", func(t *domain.StreetcodeToponym) any { return &t.ToponymID }},
	},
	Unique: [][]string{{"streetcode_id", "toponym_id"}},
}

// TeamMemberPositionsTable maps domain.TeamMemberPosition.
var TeamMemberPositionsTable = Table[domain.TeamMemberPosition]{
	Name:   "team_member_positions",
	Entity: "team member position",
	Key:    func(p *domain.TeamMemberPosition) *int { return &p.ID },
	Columns: []Column[domain.TeamMemberPosition]{
		{"team_member_id", func(p *domain.TeamMemberPosition) any { return &p.TeamMemberID }},
		{"position_id", func(p *domain.TeamMemberPosition) any { return &p.PositionID }},
	},
	Unique: [][]string{{"team_member_id", "position_id"}},
}

func loadPartnerSourceLinks(ctx context.Context, w Wrapper, partners []*domain.Partner) error {
	links, err := w.PartnerSourceLinks().GetAll(ctx,
		In("partner_id", partnerIDs(partners)...), OrderBy(KeyColumn))
	if err != nil {
		return err
	}
	byPartner := make(map[int][]domain.PartnerSourceLink)
	for _, l := range links {
		byPartner[l.PartnerID] = append(byPartner[l.PartnerID], *l)
	}
	for _, p := range partners {
		p.SourceLinks = byPartner[p.ID]
	}
	return nil
}

func loadPartnerStreetcodes(ctx context.Context, w Wrapper, partners []*domain.Partner) error {
	joins, err := w.StreetcodePartners().GetAll(ctx,
		In("partner_id", partnerIDs(partners)...), OrderBy("streetcode_id"))
	if err != nil {
		return err
	}
	byPartner := make(map[int][]int)
	for _, j := range joins {
		byPartner[j.PartnerID] = append(byPartner[j.PartnerID], j.StreetcodeID)
	}
	for _, p := range partners {
		p.StreetcodeIDs = byPartner[p.ID]
	}
	return nil
}

func loadTeamMemberLinks(ctx context.Context, w Wrapper, members []*domain.TeamMember) error {
	links, err := w.TeamMemberLinks().GetAll(ctx,
		In("team_member_id", teamMemberIDs(members)...), OrderBy(KeyColumn))
	if err != nil {
		return err
	}
	byMember := make(map[int][]domain.TeamMemberLink)
	for _, l := range links {
		byMember[l.TeamMemberID] = append(byMember[l.TeamMemberID], *l)
	}
	for _, m := range members {
		m.Links = byMember[m.ID]
	}
	return nil
}

func loadTeamMemberPositions(ctx context.Context, w Wrapper, members []*domain.TeamMember) error {
	joins, err := w.TeamMemberPositions().GetAll(ctx,
		In("team_member_id", teamMemberIDs(members)...), OrderBy("position_id"))
	if err != nil {
		return err
	}
	byMember := make(map[int][]int)
	for _, j := range joins {
		byMember[j.TeamMemberID] = append(byMember[j.TeamMemberID], j.PositionID)
	}
	for _, m := range members {
		m.PositionIDs = byMember[m.ID]
	}
	return nil
}

// The loaders avoid Table.IDs: referencing the table variables from their
// own relations would be an initialization cycle.
func partnerIDs(partners []*domain.Partner) []int {
	ids := make([]int, len(partners))
	for i, p := range partners {
		ids[i] = p.ID
	}
	return ids
}

func teamMemberIDs(members []*domain.TeamMember) []int {
	ids := make([]int, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}
