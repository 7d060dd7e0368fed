package service_test

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store/memstore"
)

const testBlobKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// fixture bundles an in-memory store and an encrypted temp-dir blob store.
type fixture struct {
	t     *testing.T
	ctx   context.Context
	w     *memstore.Store
	blobs blob.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend, err := blob.NewLocalBackend(t.TempDir(), testBlobKey)
	require.NoError(t, err)
	return &fixture{
		t:     t,
		ctx:   context.Background(),
		w:     memstore.New(),
		blobs: blob.NewService(backend, testLogger()),
	}
}

// streetcode inserts a published person streetcode directly.
func (f *fixture) streetcode(index int, url string) *domain.Streetcode {
	f.t.Helper()
	sc := &domain.Streetcode{
		Index:                       index,
		Type:                        domain.StreetcodeTypePerson,
		Title:                       "Streetcode " + url,
		FirstName:                   "Taras",
		LastName:                    "Shevchenko",
		DateString:                  "9 March 1814",
		TransliterationURL:          url,
		Status:                      domain.StreetcodeStatusPublished,
		EventStartOrPersonBirthDate: time.Date(1814, time.March, 9, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(f.t, f.w.Streetcodes().Create(f.ctx, sc))
	return sc
}

// image inserts an image row without content.
func (f *fixture) image(title string) *domain.Image {
	f.t.Helper()
	img := &domain.Image{Title: title, BlobName: title + ".png", MimeType: "image/png"}
	require.NoError(f.t, f.w.Images().Create(f.ctx, img))
	return img
}

func (f *fixture) art(imageID int) *domain.Art {
	f.t.Helper()
	art := &domain.Art{Title: "art", ImageID: imageID}
	require.NoError(f.t, f.w.Arts().Create(f.ctx, art))
	return art
}
