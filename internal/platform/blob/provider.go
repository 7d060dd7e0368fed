package blob

import (
	"context"
	"fmt"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/config"
)

// Supported values of config.BlobConfig.Provider.
const (
	ProviderLocal = "local"
	ProviderGCS   = "gcs"
)

// NewBackend builds the backend named by cfg.Provider. Backends holding
// connections also implement io.Closer.
func NewBackend(ctx context.Context, cfg config.BlobConfig) (Backend, error) {
	switch cfg.Provider {
	case ProviderLocal:
		backend, err := NewLocalBackend(cfg.LocalPath, cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local blob storage: %w", err)
		}
		return backend, nil
	case ProviderGCS:
		backend, err := NewGCSBackend(ctx, cfg.GCSBucket, cfg.GCSEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS blob storage: %w", err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown blob provider %q", cfg.Provider)
	}
}
