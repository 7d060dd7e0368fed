package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/config"
)

func TestNewBackend(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		backend, err := NewBackend(context.Background(), config.BlobConfig{
			Provider:      ProviderLocal,
			LocalPath:     t.TempDir(),
			EncryptionKey: testKey,
		})
		require.NoError(t, err)
		assert.IsType(t, &LocalBackend{}, backend)
	})

	t.Run("local with a bad key", func(t *testing.T) {
		_, err := NewBackend(context.Background(), config.BlobConfig{
			Provider:      ProviderLocal,
			LocalPath:     t.TempDir(),
			EncryptionKey: "not-hex",
		})
		assert.ErrorContains(t, err, "local blob storage")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewBackend(context.Background(), config.BlobConfig{Provider: "s3"})
		assert.ErrorContains(t, err, "unknown blob provider")
	})
}
