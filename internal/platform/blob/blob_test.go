package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLocalService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := NewLocalBackend(dir, testKey)
	require.NoError(t, err)
	return NewService(backend, discardLogger()), dir
}

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestService_SaveFindDelete(t *testing.T) {
	ctx := context.Background()
	svc, dir := newLocalService(t)

	name, err := svc.Save(ctx, encode("ID3 audio bytes"), "anthem", "mp3")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{64}\.mp3$`, name)

	// stored bytes are encrypted
	raw, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ID3 audio bytes")

	content, err := svc.Find(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, encode("ID3 audio bytes"), content)

	require.NoError(t, svc.Delete(ctx, name))
	_, err = svc.Find(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, name), ErrNotFound)
}

func TestService_SaveGeneratesDistinctNames(t *testing.T) {
	svc, _ := newLocalService(t)
	a, err := svc.Save(context.Background(), encode("x"), "same", "png")
	require.NoError(t, err)
	b, err := svc.Save(context.Background(), encode("x"), "same", "png")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestService_SaveRejectsInvalidInput(t *testing.T) {
	svc, _ := newLocalService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "not base64!", "n", "png")
	assert.ErrorIs(t, err, ErrInvalidContent)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Save(ctx, "", "n", "png")
	assert.ErrorIs(t, err, ErrInvalidContent)

	_, err = svc.Save(ctx, encode("x"), "n", "../png")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestService_FindRejectsPathTraversal(t *testing.T) {
	svc, _ := newLocalService(t)
	for _, name := range []string{"", "..", "../secret", "a/b.png"} {
		_, err := svc.Find(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLocalService(t)

	old, err := svc.Save(ctx, encode("v1"), "logo", "png")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, old, encode("v2"), "logo", "png")
	require.NoError(t, err)
	assert.NotEqual(t, old, updated)

	content, err := svc.Find(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, encode("v2"), content)

	_, err = svc.Find(ctx, old)
	assert.ErrorIs(t, err, ErrNotFound)

	// a missing previous blob does not fail the update
	again, err := svc.Update(ctx, "0000.png", encode("v3"), "logo", "png")
	require.NoError(t, err)
	assert.NotEmpty(t, again)
}

func TestDecode_DataURL(t *testing.T) {
	data, err := Decode("data:image/png;base64," + encode("png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestLocalBackend_DetectsTampering(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewLocalBackend(dir, testKey)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "a.bin", []byte("secret")))
	raw, err := os.ReadFile(filepath.Join(dir, "a.bin"))
	require.NoError(t, err)

	// content moved to another name fails authentication
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.bin"), raw, 0o600))
	_, err = backend.Get(ctx, "b.bin")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.bin"), raw[:5], 0o600))
	_, err = backend.Get(ctx, "c.bin")
	assert.ErrorContains(t, err, "truncated")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temporary file left behind")
	}
}

func TestNewLocalBackend_InvalidKey(t *testing.T) {
	_, err := NewLocalBackend(t.TempDir(), "zz")
	assert.Error(t, err)
	_, err = NewLocalBackend(t.TempDir(), "0011")
	assert.Error(t, err)
	_, err = NewLocalBackend("", testKey)
	assert.Error(t, err)
}

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Put(ctx context.Context, name string, data []byte) error {
	return m.Called(ctx, name, data).Error(0)
}

func (m *mockBackend) Get(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockBackend) Remove(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func TestService_BackendFailureIsWrapped(t *testing.T) {
	backend := &mockBackend{}
	backend.On("Put", mock.Anything, mock.AnythingOfType("string"), []byte("x")).
		Return(errors.New("disk full"))
	svc := NewService(backend, discardLogger())

	_, err := svc.Save(context.Background(), encode("x"), "n", "png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save blob")
	assert.Contains(t, err.Error(), "disk full")
	backend.AssertExpectations(t)
}

func TestNewService_NilBackendPanics(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, nil) })
}
