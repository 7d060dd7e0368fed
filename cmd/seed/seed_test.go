package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/events"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store/memstore"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/task"
	"golang.org/x/crypto/bcrypt"
)

const testAdminPassword = "correct-horse-battery"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServices(t *testing.T) *service.Set {
	t.Helper()
	log := discardLogger()
	backend, err := blob.NewLocalBackend(t.TempDir(), strings.Repeat("0f", 32))
	require.NoError(t, err)

	set, err := service.NewSet(service.SetDeps{
		Store:   memstore.New(),
		Users:   memstore.NewUserStore(bcrypt.MinCost),
		Blobs:   blob.NewService(backend, log),
		Emitter: events.NewInMemoryEventEmitter(log).Strict(),
		Tasks:   task.NewMemoryTaskStore(),
	}, log)
	require.NoError(t, err)
	return set
}

func loadTestFixtures(t *testing.T) *Fixtures {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "fixtures.yaml"))
	require.NoError(t, err)
	defer f.Close()

	fixtures, err := LoadFixtures(f)
	require.NoError(t, err)
	return fixtures
}

func TestLoadFixtures(t *testing.T) {
	fixtures := loadTestFixtures(t)
	require.NotNil(t, fixtures.Admin)
	assert.Equal(t, "admin@streetcode.ua", fixtures.Admin.Email)
	assert.Len(t, fixtures.Positions, 3)
	require.Len(t, fixtures.Terms, 2)
	assert.Equal(t, []string{"кріпак", "кріпаки"}, fixtures.Terms[0].Related)
	require.Len(t, fixtures.SourceCategories, 1)
	assert.Equal(t, "image/png", fixtures.SourceCategories[0].Image.MimeType)

	_, err := LoadFixtures(strings.NewReader("positions: [a]\nunknown: true\n"))
	assert.Error(t, err)
}

func TestSeeder_Apply(t *testing.T) {
	t.Setenv("STREETCODE_SEED_ADMIN_PASSWORD", testAdminPassword)
	ctx := context.Background()
	services := newTestServices(t)
	s := newSeeder(services, "testdata", discardLogger())
	fixtures := loadTestFixtures(t)

	sum, err := s.Apply(ctx, fixtures)
	require.NoError(t, err)
	assert.Equal(t, Summary{
		AdminCreated:     true,
		Positions:        3,
		Terms:            2,
		RelatedTerms:     2,
		SourceCategories: 1,
	}, sum)

	admin, err := services.Users.GetUserByEmail(ctx, "admin@streetcode.ua")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	categories, err := services.Sources.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	img, err := services.Images.GetByID(ctx, categories[0].ImageID)
	require.NoError(t, err)
	assert.Equal(t, "Стос книжок", img.Alt)
	assert.NotEmpty(t, img.Base64)

	t.Run("rerun creates nothing", func(t *testing.T) {
		sum, err := s.Apply(ctx, fixtures)
		require.NoError(t, err)
		assert.Equal(t, Summary{}, sum)

		terms, err := services.Terms.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, terms, 2)
	})

	t.Run("new related word is added to an existing term", func(t *testing.T) {
		fixtures.Terms[1].Related = []string{"гетьмана"}
		sum, err := s.Apply(ctx, fixtures)
		require.NoError(t, err)
		assert.Equal(t, Summary{RelatedTerms: 1}, sum)
	})
}

func TestSeeder_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty admin password", func(t *testing.T) {
		t.Setenv("STREETCODE_SEED_ADMIN_PASSWORD", "")
		s := newSeeder(newTestServices(t), "testdata", discardLogger())
		_, err := s.Apply(ctx, &Fixtures{Admin: &AdminFixture{
			Email:    "admin@streetcode.ua",
			Password: "${STREETCODE_SEED_ADMIN_PASSWORD}",
		}})
		assert.ErrorContains(t, err, "password is empty")
	})

	t.Run("missing image file", func(t *testing.T) {
		s := newSeeder(newTestServices(t), "testdata", discardLogger())
		_, err := s.Apply(ctx, &Fixtures{SourceCategories: []CategoryFixture{{
			Title: "Фільми",
			Image: ImageFixture{Title: "films", MimeType: "image/png", File: "missing.png"},
		}}})
		assert.ErrorContains(t, err, "failed to read image")
	})

	t.Run("invalid term", func(t *testing.T) {
		s := newSeeder(newTestServices(t), "testdata", discardLogger())
		_, err := s.Apply(ctx, &Fixtures{Terms: []TermFixture{{Title: "Без опису"}}})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
