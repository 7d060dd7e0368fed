package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/config"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/events"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/postgres"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service/auth"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store/memstore"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/task"
	"golang.org/x/crypto/bcrypt"
)

var testBlobKey = strings.Repeat("ab", 32)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			LogLevel:        "error",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		Auth: config.AuthConfig{
			JWTSecret:                   strings.Repeat("s", 32),
			TokenLifetimeMinutes:        15,
			RefreshTokenLifetimeMinutes: 60,
			BcryptCost:                  bcrypt.MinCost,
		},
		Blob: config.BlobConfig{
			Provider:      "local",
			LocalPath:     t.TempDir(),
			EncryptionKey: testBlobKey,
		},
		Geocoding: config.GeocodingConfig{
			BaseURL:           "http://localhost:1",
			UserAgent:         "streetcode-test",
			RequestsPerSecond: 1,
			Timeout:           time.Second,
		},
		Task: config.TaskConfig{WorkerCount: 1, QueueSize: 4, StuckTaskAgeMinutes: 30},
	}
}

// newTestApplication wires an application over in-memory stores.
func newTestApplication(t *testing.T) *application {
	t.Helper()
	cfg := testConfig(t)
	log := discardLogger()

	backend, err := blob.NewBackend(context.Background(), cfg.Blob)
	require.NoError(t, err)

	taskStore := task.NewMemoryTaskStore()
	emitter := events.NewInMemoryEventEmitter(log)
	users := memstore.NewUserStore(bcrypt.MinCost)

	app := &application{config: cfg, logger: log}
	app.services, err = service.NewSet(service.SetDeps{
		Store:   memstore.New(),
		Users:   users,
		Blobs:   blob.NewService(backend, log),
		Emitter: emitter,
		Tasks:   taskStore,
	}, log)
	require.NoError(t, err)

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)
	app.authService, err = auth.NewService(users, app.jwtService, auth.NewBcryptVerifier(), log)
	require.NoError(t, err)

	app.taskRunner, err = setupTaskRunner(app, taskStore, emitter)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app
}

func TestIsMigrateCommand(t *testing.T) {
	for _, cmd := range []string{
		postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateReset,
		postgres.MigrateStatus, postgres.MigrateVersion,
	} {
		assert.True(t, isMigrateCommand(cmd), cmd)
	}
	assert.False(t, isMigrateCommand("redo"))
	assert.False(t, isMigrateCommand(""))
}

func TestRun_RejectsUnknownMigration(t *testing.T) {
	err := run(context.Background(), "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestNewGeocoder(t *testing.T) {
	cfg := testConfig(t).Geocoding
	assert.NotNil(t, newGeocoder(cfg, discardLogger()))

	cfg.BaseURL = "::not a url"
	assert.Nil(t, newGeocoder(cfg, discardLogger()))
}

func TestApplicationRouter(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("public reads", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/streetcodes", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("mutations need a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/terms", strings.NewReader(`{"title":"x"}`))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("login uses the shared user store", func(t *testing.T) {
		_, err := app.services.Users.CreateUser(context.Background(),
			"admin@streetcode.ua", "admin-password-123", domain.RoleAdmin)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"admin@streetcode.ua","password":"admin-password-123"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "access_token")
	})
}

func TestStartHTTPServer_StopsOnCancel(t *testing.T) {
	app := newTestApplication(t)
	app.config.Server.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.startHTTPServer(ctx, http.NotFoundHandler()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
