package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// AudioFile is an audio record together with its base64 encoded content.
type AudioFile struct {
	domain.Audio
	Base64 string
}

// AudioInput carries the client supplied fields of an audio. Base64 may be
// empty on update to keep the current content.
type AudioInput struct {
	Title    string
	Base64   string
	MimeType string
}

// AudioService manages audio tracks and their blobs.
type AudioService interface {
	GetAll(ctx context.Context) ([]*AudioFile, error)
	GetByID(ctx context.Context, id int) (*AudioFile, error)
	// GetByStreetcodeID returns the audio attached to a streetcode.
	// Returns store.ErrNotFound when the streetcode has none.
	GetByStreetcodeID(ctx context.Context, streetcodeID int) (*AudioFile, error)
	Create(ctx context.Context, in AudioInput) (*AudioFile, error)
	Update(ctx context.Context, id int, in AudioInput) (*AudioFile, error)
	// Delete removes the row, then its blob.
	Delete(ctx context.Context, id int) error
}

type audioService struct {
	w      store.Wrapper
	blobs  blob.Store
	logger *slog.Logger
}

// NewAudioService creates an AudioService.
func NewAudioService(w store.Wrapper, blobs blob.Store, logger *slog.Logger) (AudioService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	if blobs == nil {
		return nil, errors.New("blob store cannot be nil")
	}
	return &audioService{w: w, blobs: blobs, logger: componentLogger(logger, "audio_service")}, nil
}

func (s *audioService) withContent(ctx context.Context, a *domain.Audio) (*AudioFile, error) {
	content, err := loadBlob(ctx, s.blobs, s.logger, a.BlobName)
	if err != nil {
		return nil, err
	}
	return &AudioFile{Audio: *a, Base64: content}, nil
}

func (s *audioService) GetAll(ctx context.Context) ([]*AudioFile, error) {
	audios, err := s.w.Audios().GetAll(ctx, store.OrderBy(store.KeyColumn))
	if err != nil {
		return nil, storeError("audio", "get_all", err)
	}
	out := make([]*AudioFile, 0, len(audios))
	for _, a := range audios {
		file, err := s.withContent(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, file)
	}
	return out, nil
}

func (s *audioService) GetByID(ctx context.Context, id int) (*AudioFile, error) {
	a, err := s.w.Audios().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("audio", "get", err)
	}
	return s.withContent(ctx, a)
}

func (s *audioService) GetByStreetcodeID(ctx context.Context, streetcodeID int) (*AudioFile, error) {
	sc, err := s.w.Streetcodes().GetByID(ctx, streetcodeID)
	if err != nil {
		return nil, storeError("audio", "get_by_streetcode", err)
	}
	if sc.AudioID == nil {
		return nil, store.AudiosTable.NotFound()
	}
	return s.GetByID(ctx, *sc.AudioID)
}

func (s *audioService) Create(ctx context.Context, in AudioInput) (*AudioFile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ext, err := extensionFor(in.MimeType, "audio")
	if err != nil {
		return nil, err
	}
	audio := &domain.Audio{Title: in.Title, MimeType: in.MimeType, BlobName: "pending"}
	if err := audio.Validate(); err != nil {
		return nil, err
	}

	audio.BlobName, err = saveBlob(ctx, s.blobs, in.Base64, in.Title, ext)
	if err != nil {
		return nil, err
	}
	if err := s.w.Audios().Create(ctx, audio); err != nil {
		removeBlob(ctx, s.blobs, s.logger, audio.BlobName)
		log.Error("failed to create audio", slog.String("error", err.Error()))
		return nil, storeError("audio", "create", err)
	}

	log.Info("audio created", slog.Int("audio_id", audio.ID))
	return &AudioFile{Audio: *audio, Base64: in.Base64}, nil
}

func (s *audioService) Update(ctx context.Context, id int, in AudioInput) (*AudioFile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	audio, err := s.w.Audios().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("audio", "update", err)
	}
	ext, err := extensionFor(in.MimeType, "audio")
	if err != nil {
		return nil, err
	}
	audio.Title = in.Title
	audio.MimeType = in.MimeType
	if err := audio.Validate(); err != nil {
		return nil, err
	}

	err = replaceBlob(ctx, s.blobs, s.logger, audio.BlobName, in.Base64, in.Title, ext, func(blobName string) error {
		audio.BlobName = blobName
		return storeError("audio", "update", s.w.Audios().Update(ctx, audio))
	})
	if err != nil {
		return nil, err
	}

	log.Info("audio updated", slog.Int("audio_id", audio.ID))
	return s.withContent(ctx, audio)
}

func (s *audioService) Delete(ctx context.Context, id int) error {
	audio, err := s.w.Audios().GetByID(ctx, id)
	if err != nil {
		return storeError("audio", "delete", err)
	}
	err = s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		linked, err := tx.Streetcodes().GetAll(ctx, store.Eq("audio_id", id))
		if err != nil {
			return err
		}
		for _, sc := range linked {
			sc.AudioID = nil
			if err := tx.Streetcodes().Update(ctx, sc); err != nil {
				return err
			}
		}
		return tx.Audios().Delete(ctx, id)
	})
	if err != nil {
		return storeError("audio", "delete", err)
	}
	removeBlob(ctx, s.blobs, s.logger, audio.BlobName)
	logger.FromContextOrDefault(ctx, s.logger).Info("audio deleted", slog.Int("audio_id", id))
	return nil
}
