package store

import (
	"context"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
)

// Wrapper exposes one repository per entity and join table. Repositories
// obtained from the Wrapper passed to RunInTx share that transaction.
type Wrapper interface {
	Streetcodes() Repository[domain.Streetcode]
	Texts() Repository[domain.Text]
	Facts() Repository[domain.Fact]
	TimelineItems() Repository[domain.TimelineItem]
	Coordinates() Repository[domain.StreetcodeCoordinate]
	StatisticRecords() Repository[domain.StatisticRecord]
	Videos() Repository[domain.Video]
	Audios() Repository[domain.Audio]
	Images() Repository[domain.Image]
	Arts() Repository[domain.Art]
	Partners() Repository[domain.Partner]
	PartnerSourceLinks() Repository[domain.PartnerSourceLink]
	SourceCategories() Repository[domain.SourceLinkCategory]
	CategoryContents() Repository[domain.StreetcodeCategoryContent]
	TeamMembers() Repository[domain.TeamMember]
	TeamMemberLinks() Repository[domain.TeamMemberLink]
	Positions() Repository[domain.Position]
	Terms() Repository[domain.Term]
	RelatedTerms() Repository[domain.RelatedTerm]
	Toponyms() Repository[domain.Toponym]

	StreetcodeArts() Repository[domain.StreetcodeArt]
	StreetcodeImages() Repository[domain.StreetcodeImage]
	StreetcodePartners() Repository[domain.StreetcodePartner]
	StreetcodeToponyms() Repository[domain.StreetcodeToponym]
	TeamMemberPositions() Repository[domain.TeamMemberPosition]

	// RunInTx runs fn inside a transaction. The Wrapper handed to fn must be
	// used for every operation that belongs to the transaction. Calling
	// RunInTx on a transactional Wrapper joins the outer transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Wrapper) error) error
}

// RepositoryConstructor builds the repository for one table. Implementations
// provide it as a set of typed closures.
type RepositoryConstructor struct {
	Streetcodes         func(Table[domain.Streetcode]) Repository[domain.Streetcode]
	Texts               func(Table[domain.Text]) Repository[domain.Text]
	Facts               func(Table[domain.Fact]) Repository[domain.Fact]
	TimelineItems       func(Table[domain.TimelineItem]) Repository[domain.TimelineItem]
	Coordinates         func(Table[domain.StreetcodeCoordinate]) Repository[domain.StreetcodeCoordinate]
	StatisticRecords    func(Table[domain.StatisticRecord]) Repository[domain.StatisticRecord]
	Videos              func(Table[domain.Video]) Repository[domain.Video]
	Audios              func(Table[domain.Audio]) Repository[domain.Audio]
	Images              func(Table[domain.Image]) Repository[domain.Image]
	Arts                func(Table[domain.Art]) Repository[domain.Art]
	Partners            func(Table[domain.Partner]) Repository[domain.Partner]
	PartnerSourceLinks  func(Table[domain.PartnerSourceLink]) Repository[domain.PartnerSourceLink]
	SourceCategories    func(Table[domain.SourceLinkCategory]) Repository[domain.SourceLinkCategory]
	CategoryContents    func(Table[domain.StreetcodeCategoryContent]) Repository[domain.StreetcodeCategoryContent]
	TeamMembers         func(Table[domain.TeamMember]) Repository[domain.TeamMember]
	TeamMemberLinks     func(Table[domain.TeamMemberLink]) Repository[domain.TeamMemberLink]
	Positions           func(Table[domain.Position]) Repository[domain.Position]
	Terms               func(Table[domain.Term]) Repository[domain.Term]
	RelatedTerms        func(Table[domain.RelatedTerm]) Repository[domain.RelatedTerm]
	Toponyms            func(Table[domain.Toponym]) Repository[domain.Toponym]
	StreetcodeArts      func(Table[domain.StreetcodeArt]) Repository[domain.StreetcodeArt]
	StreetcodeImages    func(Table[domain.StreetcodeImage]) Repository[domain.StreetcodeImage]
	StreetcodePartners  func(Table[domain.StreetcodePartner]) Repository[domain.StreetcodePartner]
	StreetcodeToponyms  func(Table[domain.StreetcodeToponym]) Repository[domain.StreetcodeToponym]
	TeamMemberPositions func(Table[domain.TeamMemberPosition]) Repository[domain.TeamMemberPosition]
}

// Repositories holds one repository per table and implements the accessor
// half of Wrapper. Implementations embed it and add RunInTx.
type Repositories struct {
	streetcodes         Repository[domain.Streetcode]
	texts               Repository[domain.Text]
	facts               Repository[domain.Fact]
	timelineItems       Repository[domain.TimelineItem]
	coordinates         Repository[domain.StreetcodeCoordinate]
	statisticRecords    Repository[domain.StatisticRecord]
	videos              Repository[domain.Video]
	audios              Repository[domain.Audio]
	images              Repository[domain.Image]
	arts                Repository[domain.Art]
	partners            Repository[domain.Partner]
	partnerSourceLinks  Repository[domain.PartnerSourceLink]
	sourceCategories    Repository[domain.SourceLinkCategory]
	categoryContents    Repository[domain.StreetcodeCategoryContent]
	teamMembers         Repository[domain.TeamMember]
	teamMemberLinks     Repository[domain.TeamMemberLink]
	positions           Repository[domain.Position]
	terms               Repository[domain.Term]
	relatedTerms        Repository[domain.RelatedTerm]
	toponyms            Repository[domain.Toponym]
	streetcodeArts      Repository[domain.StreetcodeArt]
	streetcodeImages    Repository[domain.StreetcodeImage]
	streetcodePartners  Repository[domain.StreetcodePartner]
	streetcodeToponyms  Repository[domain.StreetcodeToponym]
	teamMemberPositions Repository[domain.TeamMemberPosition]
}

// NewRepositories builds every repository with c.
func NewRepositories(c RepositoryConstructor) *Repositories {
	return &Repositories{
		streetcodes:         c.Streetcodes(StreetcodesTable),
		texts:               c.Texts(TextsTable),
		facts:               c.Facts(FactsTable),
		timelineItems:       c.TimelineItems(TimelineItemsTable),
		coordinates:         c.Coordinates(CoordinatesTable),
		statisticRecords:    c.StatisticRecords(StatisticRecordsTable),
		videos:              c.Videos(VideosTable),
		audios:              c.Audios(AudiosTable),
		images:              c.Images(ImagesTable),
		arts:                c.Arts(ArtsTable),
		partners:            c.Partners(PartnersTable),
		partnerSourceLinks:  c.PartnerSourceLinks(PartnerSourceLinksTable),
		sourceCategories:    c.SourceCategories(SourceCategoriesTable),
		categoryContents:    c.CategoryContents(CategoryContentsTable),
		teamMembers:         c.TeamMembers(TeamMembersTable),
		teamMemberLinks:     c.TeamMemberLinks(TeamMemberLinksTable),
		positions:           c.Positions(PositionsTable),
		terms:               c.Terms(TermsTable),
		relatedTerms:        c.RelatedTerms(RelatedTermsTable),
		toponyms:            c.Toponyms(ToponymsTable),
		streetcodeArts:      c.StreetcodeArts(StreetcodeArtsTable),
		streetcodeImages:    c.StreetcodeImages(StreetcodeImagesTable),
		streetcodePartners:  c.StreetcodePartners(StreetcodePartnersTable),
		streetcodeToponyms:  c.StreetcodeToponyms(StreetcodeToponymsTable),
		teamMemberPositions: c.TeamMemberPositions(TeamMemberPositionsTable),
	}
}

func (r *Repositories) Streetcodes() Repository[domain.Streetcode]           { return r.streetcodes }
func (r *Repositories) Texts() Repository[domain.Text]                       { return r.texts }
func (r *Repositories) Facts() Repository[domain.Fact]                       { return r.facts }
func (r *Repositories) TimelineItems() Repository[domain.TimelineItem]       { return r.timelineItems }
func (r *Repositories) Coordinates() Repository[domain.StreetcodeCoordinate] { return r.coordinates }
func (r *Repositories) StatisticRecords() Repository[domain.StatisticRecord] {
	return r.statisticRecords
}
func (r *Repositories) Videos() Repository[domain.Video]     { return r.videos }
func (r *Repositories) Audios() Repository[domain.Audio]     { return r.audios }
func (r *Repositories) Images() Repository[domain.Image]     { return r.images }
func (r *Repositories) Arts() Repository[domain.Art]         { return r.arts }
func (r *Repositories) Partners() Repository[domain.Partner] { return r.partners }
func (r *Repositories) PartnerSourceLinks() Repository[domain.PartnerSourceLink] {
	return r.partnerSourceLinks
}
func (r *Repositories) SourceCategories() Repository[domain.SourceLinkCategory] {
	return r.sourceCategories
}
func (r *Repositories) CategoryContents() Repository[domain.StreetcodeCategoryContent] {
	return r.categoryContents
}
func (r *Repositories) TeamMembers() Repository[domain.TeamMember]         { return r.teamMembers }
func (r *Repositories) TeamMemberLinks() Repository[domain.TeamMemberLink] { return r.teamMemberLinks }
func (r *Repositories) Positions() Repository[domain.Position]             { return r.positions }
func (r *Repositories) Terms() Repository[domain.Term]                     { return r.terms }
func (r *Repositories) RelatedTerms() Repository[domain.RelatedTerm]       { return r.relatedTerms }
func (r *Repositories) Toponyms() Repository[domain.Toponym]               { return r.toponyms }
func (r *Repositories) StreetcodeArts() Repository[domain.StreetcodeArt]   { return r.streetcodeArts }
func (r *Repositories) StreetcodeImages() Repository[domain.StreetcodeImage] {
	return r.streetcodeImages
}
func (r *Repositories) StreetcodePartners() Repository[domain.StreetcodePartner] {
	return r.streetcodePartners
}
func (r *Repositories) StreetcodeToponyms() Repository[domain.StreetcodeToponym] {
	return r.streetcodeToponyms
}
func (r *Repositories) TeamMemberPositions() Repository[domain.TeamMemberPosition] {
	return r.teamMemberPositions
}
