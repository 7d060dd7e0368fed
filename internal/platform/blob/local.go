package blob

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// LocalBackend keeps blobs as XChaCha20-Poly1305 encrypted files in a
// directory. Each file holds the nonce followed by the sealed bytes; the
// blob name is bound as additional data so files cannot be swapped.
type LocalBackend struct {
	dir  string
	aead cipher.AEAD
}

var _ Backend = (*LocalBackend)(nil)

// NewLocalBackend creates the directory if needed. hexKey must encode
// exactly 32 bytes.
func NewLocalBackend(dir, hexKey string) (*LocalBackend, error) {
	if dir == "" {
		return nil, errors.New("blob directory cannot be empty")
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid blob encryption key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("invalid blob encryption key: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &LocalBackend{dir: dir, aead: aead}, nil
}

func (b *LocalBackend) path(name string) string {
	return filepath.Join(b.dir, name)
}

// Put implements Backend. The file is written to a temporary name and
// renamed so readers never observe partial content.
func (b *LocalBackend) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nonce := make([]byte, b.aead.NonceSize(), b.aead.NonceSize()+len(data)+b.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := b.aead.Seal(nonce, nonce, data, []byte(name))

	tmp, err := os.CreateTemp(b.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(sealed); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.path(name))
}

// Get implements Backend.
func (b *LocalBackend) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sealed, err := os.ReadFile(b.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ns := b.aead.NonceSize()
	if len(sealed) < ns+b.aead.Overhead() {
		return nil, fmt.Errorf("blob %s is truncated", name)
	}
	data, err := b.aead.Open(nil, sealed[:ns], sealed[ns:], []byte(name))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt blob %s: %w", name, err)
	}
	return data, nil
}

// Remove implements Backend.
func (b *LocalBackend) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(b.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
