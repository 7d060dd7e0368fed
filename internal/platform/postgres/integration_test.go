//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/events"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/postgres"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/task"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/testdb"
	"golang.org/x/crypto/bcrypt"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIntegration_UserStore(t *testing.T) {
	db := testdb.Open(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, quietLogger())

		user := &domain.User{
			ID:       uuid.New(),
			Email:    "Editor@Streetcode.ua",
			Password: "editor-password-123",
			Role:     domain.RoleEditor,
		}
		require.NoError(t, users.Create(ctx, user))

		got, err := users.GetByEmail(ctx, "editor@streetcode.ua")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.HashedPassword), []byte("editor-password-123")))

		other := &domain.User{
			ID:       uuid.New(),
			Email:    "former@streetcode.ua",
			Password: "former-password-123",
			Role:     domain.RoleEditor,
		}
		require.NoError(t, users.Create(ctx, other))
		require.NoError(t, users.Delete(ctx, other.ID))
		_, err = users.GetByID(ctx, other.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		// a unique violation aborts the transaction, so this check goes last
		dup := &domain.User{
			ID:       uuid.New(),
			Email:    "editor@streetcode.ua",
			Password: "editor-password-123",
			Role:     domain.RoleEditor,
		}
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)
	})
}

func TestIntegration_TaskStore(t *testing.T) {
	db := testdb.Open(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := postgres.NewPostgresTaskStore(tx)

		tk, err := task.NewToponymImportTask(uuid.Nil, "imports/streets.zip", noopImporter{}, quietLogger())
		require.NoError(t, err)
		require.NoError(t, tasks.SaveTask(ctx, tk))

		pending, err := tasks.GetPendingTasks(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, task.TaskTypeToponymImport, pending[0].Type)

		require.NoError(t, tasks.UpdateTaskStatus(ctx, tk.ID(), task.TaskStatusCompleted, ""))
		require.NoError(t, tasks.SetTaskResult(ctx, tk.ID(), []byte(`{"inserted":3}`)))

		rec, err := tasks.GetTask(ctx, tk.ID())
		require.NoError(t, err)
		assert.Equal(t, task.TaskStatusCompleted, rec.Status)
		assert.JSONEq(t, `{"inserted":3}`, string(rec.Result))

		_, err = tasks.GetTask(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestIntegration_StreetcodeContent(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	log := quietLogger()

	backend, err := blob.NewLocalBackend(t.TempDir(), strings.Repeat("1f", 32))
	require.NoError(t, err)
	set, err := service.NewSet(service.SetDeps{
		Store:   postgres.NewStore(db, log),
		Users:   postgres.NewPostgresUserStore(db, bcrypt.MinCost, log),
		Blobs:   blob.NewService(backend, log),
		Emitter: events.NewInMemoryEventEmitter(log),
		Tasks:   postgres.NewPostgresTaskStore(db),
	}, log)
	require.NoError(t, err)

	content := &service.StreetcodeContent{
		Streetcode: domain.Streetcode{
			Index:                       4242,
			Type:                        domain.StreetcodeTypePerson,
			Title:                       "Леся Українка",
			FirstName:                   "Лариса",
			LastName:                    "Косач",
			DateString:                  "25 лютого 1871",
			TransliterationURL:          "lesia-ukrainka",
			Status:                      domain.StreetcodeStatusDraft,
			EventStartOrPersonBirthDate: time.Date(1871, time.February, 25, 0, 0, 0, 0, time.UTC),
		},
		Text: &domain.Text{Title: "Біографія", Content: "Поетеса."},
		Facts: []*domain.Fact{
			{Title: "Псевдонім", Content: "Взяла псевдонім у 1884 році."},
			{Title: "Мови", Content: "Знала понад десять мов."},
		},
	}
	sc, err := set.Streetcodes.Create(ctx, content)
	require.NoError(t, err)
	t.Cleanup(func() { _ = set.Streetcodes.Delete(context.Background(), sc.ID) })

	got, err := set.Streetcodes.GetByTransliterationURL(ctx, "lesia-ukrainka")
	require.NoError(t, err)
	assert.Equal(t, sc.ID, got.ID)

	facts, err := set.Facts.GetByStreetcodeID(ctx, sc.ID)
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.Equal(t, 1, facts[0].Number)
	assert.Equal(t, 2, facts[1].Number)

	t.Run("duplicate index rolls back", func(t *testing.T) {
		dup := *content
		dup.Streetcode.TransliterationURL = "lesia-ukrainka-2"
		dup.Facts = []*domain.Fact{{Title: "x", Content: "y"}}
		_, err := set.Streetcodes.Create(ctx, &dup)
		assert.ErrorIs(t, err, service.ErrConflict)

		_, err = set.Streetcodes.GetByTransliterationURL(ctx, "lesia-ukrainka-2")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("view counter", func(t *testing.T) {
		updated, err := set.Streetcodes.IncrementViewCount(ctx, sc.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.ViewCount)

		var wg sync.WaitGroup
		for range 25 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := set.Streetcodes.IncrementViewCount(ctx, sc.ID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		got, err := set.Streetcodes.GetByID(ctx, sc.ID)
		require.NoError(t, err)
		assert.Equal(t, 26, got.ViewCount)
	})

	t.Run("concurrent qr scans", func(t *testing.T) {
		coord := &domain.StreetcodeCoordinate{Latitude: 50.45, Longitude: 30.52, StreetcodeID: sc.ID}
		require.NoError(t, set.Coordinates.Create(ctx, coord))
		record := &domain.StatisticRecord{
			QrID:                   4242,
			Address:                "вул. Лесі Українки, 1",
			StreetcodeID:           sc.ID,
			StreetcodeCoordinateID: coord.ID,
		}
		require.NoError(t, set.Statistics.Create(ctx, record))

		var wg sync.WaitGroup
		for range 25 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := set.Statistics.IncrementCount(ctx, 4242)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		got, err := set.Statistics.GetByQrID(ctx, 4242)
		require.NoError(t, err)
		assert.Equal(t, 25, got.Count)
	})
}

type noopImporter struct{}

func (noopImporter) ImportToponyms(context.Context, string) (*domain.ToponymImportReport, error) {
	return &domain.ToponymImportReport{}, nil
}
