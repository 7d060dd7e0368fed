package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

const selectTerms = `SELECT "id", "title", "description" FROM "terms"`

func termRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description"})
}

func TestNewRepository_NilDBPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRepository[domain.Term](nil, store.TermsTable, nil, nil)
	})
}

func TestRepository_GetAll(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	mock.ExpectQuery(selectTerms + ` WHERE "title" ILIKE $1 ORDER BY "title", "id"`).
		WithArgs("%war%").
		WillReturnRows(termRows().AddRow(1, "war", "conflict").AddRow(2, "warrior", "fighter"))

	terms, err := repo.GetAll(context.Background(), store.Contains("title", "war"), store.OrderBy("title"))
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, domain.Term{ID: 1, Title: "war", Description: "conflict"}, *terms[0])
	assert.Equal(t, 2, terms[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetAll_InvalidColumn(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	_, err := repo.GetAll(context.Background(), store.Eq("missing", 1))
	assert.ErrorIs(t, err, store.ErrInvalidQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetAll_QueryError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	mock.ExpectQuery(selectTerms + ` ORDER BY "id"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.GetAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list term")
}

func TestRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	mock.ExpectQuery(selectTerms+` WHERE "id" = $1 ORDER BY "id" LIMIT $2`).
		WithArgs(5, 1).
		WillReturnRows(termRows().AddRow(5, "term", "desc"))

	term, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "term", term.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	mock.ExpectQuery(selectTerms+` WHERE "id" = $1 ORDER BY "id" LIMIT $2`).
		WithArgs(5, 1).
		WillReturnRows(termRows())

	_, err := repo.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_CountAndExists(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	mock.ExpectQuery(`SELECT COUNT(*) FROM "terms"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT EXISTS (SELECT 1 FROM "terms" WHERE "title" = $1)`).
		WithArgs("war").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ok, err := repo.Exists(context.Background(), store.Eq("title", "war"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateRange_AssignsKeys(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	mock.ExpectQuery(`INSERT INTO "terms" ("title", "description") VALUES ($1, $2), ($3, $4) RETURNING "id"`).
		WithArgs("a", "da", "b", "db").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))

	terms := []*domain.Term{{Title: "a", Description: "da"}, {Title: "b", Description: "db"}}
	require.NoError(t, repo.CreateRange(context.Background(), terms))
	assert.Equal(t, 10, terms[0].ID)
	assert.Equal(t, 11, terms[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateRange_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	require.NoError(t, repo.CreateRange(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	mock.ExpectQuery(`INSERT INTO "terms" ("title", "description") VALUES ($1, $2) RETURNING "id"`).
		WithArgs("a", "d").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "terms_title_key"})

	err := repo.Create(context.Background(), &domain.Term{Title: "a", Description: "d"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Contains(t, err.Error(), "terms_title_key")
}

func TestRepository_Create_KeyCountMismatch(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	mock.ExpectQuery(`INSERT INTO "terms" ("title", "description") VALUES ($1, $2) RETURNING "id"`).
		WithArgs("a", "d").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.Create(context.Background(), &domain.Term{Title: "a", Description: "d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned 0 keys for 1 rows")
}

func TestRepository_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	mock.ExpectExec(`UPDATE "terms" SET "title" = $1, "description" = $2 WHERE "id" = $3`).
		WithArgs("t", "d", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "terms" SET "title" = $1, "description" = $2 WHERE "id" = $3`).
		WithArgs("t", "d", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), &domain.Term{ID: 4, Title: "t", Description: "d"}))
	err := repo.Update(context.Background(), &domain.Term{ID: 5, Title: "t", Description: "d"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Increment(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.FactsTable, nil, discardLogger())
	const increment = `UPDATE "facts" SET "number" = "number" + 1 WHERE "id" = $1` +
		` RETURNING "id", "title", "content", "image_id", "streetcode_id", "number"`
	columns := []string{"id", "title", "content", "image_id", "streetcode_id", "number"}

	mock.ExpectQuery(increment).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(3, "Викуп", "з кріпацтва", nil, 1, 5))
	mock.ExpectQuery(increment).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(columns))

	fact, err := repo.Increment(context.Background(), 3, "number")
	require.NoError(t, err)
	assert.Equal(t, 5, fact.Number)
	assert.Nil(t, fact.ImageID)

	_, err = repo.Increment(context.Background(), 4, "number")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = repo.Increment(context.Background(), 3, "missing")
	assert.ErrorIs(t, err, store.ErrInvalidQuery)
	_, err = repo.Increment(context.Background(), 3, store.KeyColumn)
	assert.ErrorIs(t, err, store.ErrInvalidQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.TermsTable, nil, discardLogger())

	mock.ExpectExec(`DELETE FROM "terms" WHERE "id" = $1`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "terms" WHERE "id" = $1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 4))
	assert.ErrorIs(t, repo.Delete(context.Background(), 5), store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_ForeignKeyViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.ImagesTable, nil, discardLogger())

	mock.ExpectExec(`DELETE FROM "images" WHERE "id" = $1`).
		WithArgs(1).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "partners_logo_id_fkey"})

	err := repo.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestRepository_DeleteWhere(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db, store.RelatedTermsTable, nil, discardLogger())

	mock.ExpectExec(`DELETE FROM "related_terms" WHERE "term_id" = $1`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteWhere(context.Background(), store.Eq("term_id", 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_IncludeRelations(t *testing.T) {
	db, mock := newMock(t)
	s := NewStore(db, discardLogger())

	mock.ExpectQuery(`SELECT "id", "title", "logo_id", "is_key_partner", "is_visible_everywhere",` +
		` "target_url", "url_title", "description" FROM "partners" WHERE "is_key_partner" = $1 ORDER BY "id"`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "logo_id", "is_key_partner", "is_visible_everywhere", "target_url", "url_title", "description",
		}).AddRow(1, "Partner", 3, true, false, "https://p.example", "P", ""))
	mock.ExpectQuery(`SELECT "id", "partner_id", "logo_type", "target_url" FROM "partner_source_links"` +
		` WHERE "partner_id" IN ($1) ORDER BY "id"`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "partner_id", "logo_type", "target_url"}).
			AddRow(7, 1, "facebook", "https://facebook.com/p"))

	partners, err := s.Partners().GetAll(context.Background(),
		store.Eq("is_key_partner", true), store.Include(store.RelPartnerSourceLinks))
	require.NoError(t, err)
	require.Len(t, partners, 1)
	require.Len(t, partners[0].SourceLinks, 1)
	assert.Equal(t, 7, partners[0].SourceLinks[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RunInTx(t *testing.T) {
	t.Run("commits", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewStore(db, discardLogger())

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "terms" WHERE "id" = $1`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "related_terms" WHERE "term_id" = $1`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := s.RunInTx(context.Background(), func(ctx context.Context, tx store.Wrapper) error {
			if err := tx.Terms().Delete(ctx, 1); err != nil {
				return err
			}
			// nested calls join the outer transaction
			return tx.RunInTx(ctx, func(ctx context.Context, inner store.Wrapper) error {
				_, err := inner.RelatedTerms().DeleteWhere(ctx, store.Eq("term_id", 1))
				return err
			})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and keeps the error", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewStore(db, discardLogger())

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "terms" WHERE "id" = $1`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := s.RunInTx(context.Background(), func(ctx context.Context, tx store.Wrapper) error {
			return tx.Terms().Delete(ctx, 1)
		})
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewStore_NilDBPanics(t *testing.T) {
	assert.Panics(t, func() { NewStore(nil, nil) })
}
