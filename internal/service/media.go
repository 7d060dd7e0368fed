package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
)

var extensionPattern = regexp.MustCompile(`^[a-z0-9]{1,10}$`)

// Subtypes whose conventional file extension differs from the subtype.
var knownExtensions = map[string]string{
	"audio/mpeg":    "mp3",
	"audio/x-wav":   "wav",
	"image/jpeg":    "jpg",
	"image/svg+xml": "svg",
}

// extensionFor derives the blob extension from a MIME type such as
// "image/png". The type must belong to the given top-level family.
func extensionFor(mimeType, family string) (string, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if ext, ok := knownExtensions[mimeType]; ok && strings.HasPrefix(mimeType, family+"/") {
		return ext, nil
	}
	top, sub, ok := strings.Cut(mimeType, "/")
	if !ok || top != family {
		return "", domain.NewValidationError("mime_type", "must start with "+family+"/", domain.ErrInvalidFormat)
	}
	if i := strings.IndexAny(sub, "+;"); i >= 0 {
		sub = sub[:i]
	}
	sub = strings.TrimPrefix(sub, "x-")
	if !extensionPattern.MatchString(sub) {
		return "", domain.NewValidationError("mime_type", "has no usable file extension", domain.ErrInvalidFormat)
	}
	return sub, nil
}

// saveBlob stores content and translates blob failures.
func saveBlob(ctx context.Context, blobs blob.Store, content, name, ext string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", domain.NewValidationError("base64", "is required", nil)
	}
	blobName, err := blobs.Save(ctx, content, name, ext)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return "", domain.NewValidationError("base64", "must be valid base64 content", err)
		}
		return "", fmt.Errorf("%w: %w", ErrBlob, err)
	}
	return blobName, nil
}

// loadBlob returns the base64 content of blobName. A missing blob is logged
// and yields empty content so one lost file does not hide the entity.
func loadBlob(ctx context.Context, blobs blob.Store, log *slog.Logger, blobName string) (string, error) {
	content, err := blobs.Find(ctx, blobName)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			logger.FromContextOrDefault(ctx, log).Warn("blob referenced by media is missing",
				slog.String("blob_name", blobName))
			return "", nil
		}
		return "", fmt.Errorf("%w: %w", ErrBlob, err)
	}
	return content, nil
}

// removeBlob deletes a blob that is no longer referenced. Failures are only
// logged: the row change they follow has already been committed.
func removeBlob(ctx context.Context, blobs blob.Store, log *slog.Logger, blobName string) {
	if blobName == "" {
		return
	}
	if err := blobs.Delete(ctx, blobName); err != nil && !errors.Is(err, blob.ErrNotFound) {
		logger.FromContextOrDefault(ctx, log).Error("failed to delete blob",
			slog.String("blob_name", blobName),
			slog.String("error", err.Error()))
	}
}

// replaceBlob runs persist with the blob name the entity should reference
// after an update. New content is saved under a fresh name first; the
// replaced blob is removed only once persist succeeds, and the fresh one
// is removed when it fails. Without new content the current blob is kept,
// which requires ext to match the extension it was saved with.
func replaceBlob(ctx context.Context, blobs blob.Store, log *slog.Logger,
	current, content, name, ext string, persist func(blobName string) error,
) error {
	if content == "" {
		if strings.TrimPrefix(path.Ext(current), ".") != ext {
			return domain.NewValidationError("base64", "is required when the file type changes", nil)
		}
		return persist(current)
	}

	blobName, err := saveBlob(ctx, blobs, content, name, ext)
	if err != nil {
		return err
	}
	if err := persist(blobName); err != nil {
		removeBlob(ctx, blobs, log, blobName)
		return err
	}
	removeBlob(ctx, blobs, log, current)
	return nil
}
