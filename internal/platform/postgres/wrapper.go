package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// Store is the PostgreSQL store.Wrapper.
type Store struct {
	*store.Repositories
	db     *sql.DB
	logger *slog.Logger
	inTx   bool
}

var _ store.Wrapper = (*Store)(nil)

// NewStore creates a Store whose repositories run against db.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return newStore(db, db, false, logger)
}

func newStore(db *sql.DB, dbtx store.DBTX, inTx bool, logger *slog.Logger) *Store {
	s := &Store{db: db, logger: logger, inTx: inTx}
	s.Repositories = store.NewRepositories(store.RepositoryConstructor{
		Streetcodes:         build(s, dbtx, store.StreetcodesTable),
		Texts:               build(s, dbtx, store.TextsTable),
		Facts:               build(s, dbtx, store.FactsTable),
		TimelineItems:       build(s, dbtx, store.TimelineItemsTable),
		Coordinates:         build(s, dbtx, store.CoordinatesTable),
		StatisticRecords:    build(s, dbtx, store.StatisticRecordsTable),
		Videos:              build(s, dbtx, store.VideosTable),
		Audios:              build(s, dbtx, store.AudiosTable),
		Images:              build(s, dbtx, store.ImagesTable),
		Arts:                build(s, dbtx, store.ArtsTable),
		Partners:            build(s, dbtx, store.PartnersTable),
		PartnerSourceLinks:  build(s, dbtx, store.PartnerSourceLinksTable),
		SourceCategories:    build(s, dbtx, store.SourceCategoriesTable),
		CategoryContents:    build(s, dbtx, store.CategoryContentsTable),
		TeamMembers:         build(s, dbtx, store.TeamMembersTable),
		TeamMemberLinks:     build(s, dbtx, store.TeamMemberLinksTable),
		Positions:           build(s, dbtx, store.PositionsTable),
		Terms:               build(s, dbtx, store.TermsTable),
		RelatedTerms:        build(s, dbtx, store.RelatedTermsTable),
		Toponyms:            build(s, dbtx, store.ToponymsTable),
		StreetcodeArts:      build(s, dbtx, store.StreetcodeArtsTable),
		StreetcodeImages:    build(s, dbtx, store.StreetcodeImagesTable),
		StreetcodePartners:  build(s, dbtx, store.StreetcodePartnersTable),
		StreetcodeToponyms:  build(s, dbtx, store.StreetcodeToponymsTable),
		TeamMemberPositions: build(s, dbtx, store.TeamMemberPositionsTable),
	})
	return s
}

// build returns the constructor of a repository bound to dbtx. The table
// argument only fixes T.
func build[T any](s *Store, dbtx store.DBTX, _ store.Table[T]) func(store.Table[T]) store.Repository[T] {
	return func(def store.Table[T]) store.Repository[T] {
		return NewRepository(dbtx, def, s, s.logger)
	}
}

// RunInTx runs fn in a database transaction. Repositories of the Wrapper
// passed to fn execute on that transaction. Nested calls join it.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Wrapper) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, newStore(s.db, tx, true, s.logger))
	})
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}
