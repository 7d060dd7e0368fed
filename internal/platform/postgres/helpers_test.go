package postgres

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// newMock returns a sqlmock database that matches statements exactly,
// ignoring whitespace differences.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// newRegexpMock returns a sqlmock database that matches statements by
// regular expression.
func newRegexpMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tableNames() []string {
	return []string{
		store.StreetcodesTable.Name,
		store.TextsTable.Name,
		store.FactsTable.Name,
		store.TimelineItemsTable.Name,
		store.CoordinatesTable.Name,
		store.StatisticRecordsTable.Name,
		store.VideosTable.Name,
		store.AudiosTable.Name,
		store.ImagesTable.Name,
		store.ArtsTable.Name,
		store.PartnersTable.Name,
		store.PartnerSourceLinksTable.Name,
		store.SourceCategoriesTable.Name,
		store.CategoryContentsTable.Name,
		store.TeamMembersTable.Name,
		store.TeamMemberLinksTable.Name,
		store.PositionsTable.Name,
		store.TermsTable.Name,
		store.RelatedTermsTable.Name,
		store.ToponymsTable.Name,
		store.StreetcodeArtsTable.Name,
		store.StreetcodeImagesTable.Name,
		store.StreetcodePartnersTable.Name,
		store.StreetcodeToponymsTable.Name,
		store.TeamMemberPositionsTable.Name,
	}
}
