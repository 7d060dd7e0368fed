package blob

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"

var (
	// ErrNotFound is returned when no blob exists under the given name.
	ErrNotFound = fmt.Errorf("%w: blob", store.ErrNotFound)

	// ErrInvalidContent is returned when the supplied content is not valid base64.
	ErrInvalidContent = fmt.Errorf("%w: content must be valid base64", domain.ErrValidation)

	// ErrInvalidName is returned for blob names or extensions that could
	// escape the storage namespace.
	ErrInvalidName = fmt.Errorf("%w: invalid blob name", domain.ErrValidation)
)

var extensionPattern = regexp.MustCompile(`^[a-z0-9]{1,10}$`)

// Store is the contract media services use for binary content.
type Store interface {
	// Save stores the decoded content and returns the generated blob name.
	Save(ctx context.Context, base64Content, name, extension string) (string, error)

	// Find returns the base64 encoded content of a blob.
	Find(ctx context.Context, blobName string) (string, error)

	// Update stores new content under a new name and removes the old blob.
	// Callers that must keep the old blob until a database write commits
	// use Save and Delete instead.
	Update(ctx context.Context, oldBlobName, base64Content, name, extension string) (string, error)

	// Delete removes a blob. Returns ErrNotFound when it does not exist.
	Delete(ctx context.Context, blobName string) error
}

// Backend persists raw blob bytes by name.
type Backend interface {
	Put(ctx context.Context, name string, data []byte) error
	// Get returns ErrNotFound for unknown names.
	Get(ctx context.Context, name string) ([]byte, error)
	// Remove returns ErrNotFound for unknown names.
	Remove(ctx context.Context, name string) error
}

// Service implements Store on top of a Backend.
type Service struct {
	backend Backend
	logger  *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

var _ Store = (*Service)(nil)

// NewService creates a Service writing to backend.
func NewService(backend Backend, logger *slog.Logger) *Service {
	if backend == nil {
		panic("backend cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		backend: backend,
		logger:  logger.With(slog.String("component", "blob_store")),
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
}

func (s *Service) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "blob."+op, trace.WithAttributes(attribute.String("blob.operation", op)))
}

func (s *Service) fail(ctx context.Context, span trace.Span, op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	logger.FromContextOrDefault(ctx, s.logger).Error("blob operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return fmt.Errorf("failed to %s blob: %w", op, err)
}

// Save implements Store.
func (s *Service) Save(ctx context.Context, base64Content, name, extension string) (string, error) {
	ctx, span := s.start(ctx, "save")
	defer span.End()

	data, err := Decode(base64Content)
	if err != nil {
		return "", err
	}
	if !extensionPattern.MatchString(extension) {
		return "", fmt.Errorf("%w: extension %q", ErrInvalidName, extension)
	}

	blobName := s.newName(name, extension)
	span.SetAttributes(attribute.String("blob.name", blobName), attribute.Int("blob.size", len(data)))
	if err := s.backend.Put(ctx, blobName, data); err != nil {
		return "", s.fail(ctx, span, "save", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("blob saved",
		slog.String("blob_name", blobName),
		slog.Int("size", len(data)))
	return blobName, nil
}

// Find implements Store.
func (s *Service) Find(ctx context.Context, blobName string) (string, error) {
	ctx, span := s.start(ctx, "find")
	defer span.End()

	if err := checkName(blobName); err != nil {
		return "", err
	}
	data, err := s.backend.Get(ctx, blobName)
	if err != nil {
		return "", s.fail(ctx, span, "find", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Update implements Store. A missing old blob is not an error.
func (s *Service) Update(ctx context.Context, oldBlobName, base64Content, name, extension string) (string, error) {
	blobName, err := s.Save(ctx, base64Content, name, extension)
	if err != nil {
		return "", err
	}
	if oldBlobName == "" {
		return blobName, nil
	}
	if err := s.Delete(ctx, oldBlobName); err != nil && !errors.Is(err, ErrNotFound) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to remove replaced blob",
			slog.String("blob_name", oldBlobName),
			slog.String("error", err.Error()))
	}
	return blobName, nil
}

// Delete implements Store.
func (s *Service) Delete(ctx context.Context, blobName string) error {
	ctx, span := s.start(ctx, "delete")
	defer span.End()

	if err := checkName(blobName); err != nil {
		return err
	}
	if err := s.backend.Remove(ctx, blobName); err != nil {
		return s.fail(ctx, span, "delete", err)
	}
	return nil
}

// newName derives a unique blob name from the display name, the current
// time and a random UUID.
func (s *Service) newName(name, extension string) string {
	seed := name + strconv.FormatInt(s.now().UnixNano(), 10) + uuid.NewString()
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:]) + "." + extension
}

// Decode parses standard base64 content. A data URL prefix is accepted.
func Decode(content string) ([]byte, error) {
	if strings.HasPrefix(content, "data:") {
		if _, payload, ok := strings.Cut(content, ";base64,"); ok {
			content = payload
		}
	}
	if content == "" {
		return nil, ErrInvalidContent
	}
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidContent
	}
	return data, nil
}

func checkName(blobName string) error {
	if blobName == "" || blobName != filepath.Base(blobName) || blobName == "." || blobName == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, blobName)
	}
	return nil
}
