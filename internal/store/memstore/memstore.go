package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// snapshotter is implemented by every table.
type snapshotter interface {
	snapshot() func()
}

// database is the state shared by a Store and its transactional views.
type database struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	tables []snapshotter
}

// Store is an in-memory store.Wrapper.
//
// Transactions are serialized with each other and roll back by restoring a
// snapshot taken when they start. They are not isolated from concurrent
// non-transactional writers.
type Store struct {
	*store.Repositories
	db   *database
	inTx bool
}

var _ store.Wrapper = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	s := &Store{db: &database{}}
	s.Repositories = store.NewRepositories(store.RepositoryConstructor{
		Streetcodes:         build(s, store.StreetcodesTable),
		Texts:               build(s, store.TextsTable),
		Facts:               build(s, store.FactsTable),
		TimelineItems:       build(s, store.TimelineItemsTable),
		Coordinates:         build(s, store.CoordinatesTable),
		StatisticRecords:    build(s, store.StatisticRecordsTable),
		Videos:              build(s, store.VideosTable),
		Audios:              build(s, store.AudiosTable),
		Images:              build(s, store.ImagesTable),
		Arts:                build(s, store.ArtsTable),
		Partners:            build(s, store.PartnersTable),
		PartnerSourceLinks:  build(s, store.PartnerSourceLinksTable),
		SourceCategories:    build(s, store.SourceCategoriesTable),
		CategoryContents:    build(s, store.CategoryContentsTable),
		TeamMembers:         build(s, store.TeamMembersTable),
		TeamMemberLinks:     build(s, store.TeamMemberLinksTable),
		Positions:           build(s, store.PositionsTable),
		Terms:               build(s, store.TermsTable),
		RelatedTerms:        build(s, store.RelatedTermsTable),
		Toponyms:            build(s, store.ToponymsTable),
		StreetcodeArts:      build(s, store.StreetcodeArtsTable),
		StreetcodeImages:    build(s, store.StreetcodeImagesTable),
		StreetcodePartners:  build(s, store.StreetcodePartnersTable),
		StreetcodeToponyms:  build(s, store.StreetcodeToponymsTable),
		TeamMemberPositions: build(s, store.TeamMemberPositionsTable),
	})
	return s
}

// build returns a constructor that registers a new table with s. The
// table argument only fixes T; the constructor receives the same value.
func build[T any](s *Store, _ store.Table[T]) func(store.Table[T]) store.Repository[T] {
	return func(def store.Table[T]) store.Repository[T] {
		data := newTable(def)
		s.db.tables = append(s.db.tables, data)
		return &repository[T]{db: s.db, data: data, owner: s}
	}
}

// RunInTx runs fn in a snapshot transaction. Any error or panic restores
// every table to its state before fn started.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Wrapper) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	s.db.mu.Lock()
	restores := make([]func(), len(s.db.tables))
	for i, t := range s.db.tables {
		restores[i] = t.snapshot()
	}
	s.db.mu.Unlock()

	rollback := func() {
		s.db.mu.Lock()
		defer s.db.mu.Unlock()
		for _, restore := range restores {
			restore()
		}
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	tx := &Store{Repositories: s.Repositories, db: s.db, inTx: true}
	if err := fn(ctx, tx); err != nil {
		rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		rollback()
		return fmt.Errorf("%w: %w", store.ErrTransactionFailed, err)
	}
	return nil
}
