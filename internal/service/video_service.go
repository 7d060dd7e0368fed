package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// VideoService manages externally hosted videos.
type VideoService interface {
	GetAll(ctx context.Context) ([]*domain.Video, error)
	GetByID(ctx context.Context, id int) (*domain.Video, error)
	GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.Video, error)
	Create(ctx context.Context, video *domain.Video) error
	Update(ctx context.Context, video *domain.Video) error
	Delete(ctx context.Context, id int) error
}

type videoService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewVideoService creates a VideoService.
func NewVideoService(w store.Wrapper, logger *slog.Logger) (VideoService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &videoService{w: w, logger: componentLogger(logger, "video_service")}, nil
}

func (s *videoService) GetAll(ctx context.Context) ([]*domain.Video, error) {
	videos, err := s.w.Videos().GetAll(ctx, store.OrderBy(store.KeyColumn))
	return videos, storeError("video", "get_all", err)
}

func (s *videoService) GetByID(ctx context.Context, id int) (*domain.Video, error) {
	video, err := s.w.Videos().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("video", "get", err)
	}
	return video, nil
}

func (s *videoService) GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.Video, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("video", "get_by_streetcode", err)
	}
	videos, err := s.w.Videos().GetAll(ctx, store.Eq("streetcode_id", streetcodeID), store.OrderBy(store.KeyColumn))
	return videos, storeError("video", "get_by_streetcode", err)
}

func (s *videoService) validate(ctx context.Context, video *domain.Video) error {
	if err := video.Validate(); err != nil {
		return err
	}
	return ensureExists(ctx, s.w.Streetcodes(), "streetcode_id", video.StreetcodeID)
}

func (s *videoService) Create(ctx context.Context, video *domain.Video) error {
	if err := s.validate(ctx, video); err != nil {
		return storeError("video", "create", err)
	}
	if err := s.w.Videos().Create(ctx, video); err != nil {
		return storeError("video", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("video created", slog.Int("video_id", video.ID))
	return nil
}

func (s *videoService) Update(ctx context.Context, video *domain.Video) error {
	if _, err := s.w.Videos().GetByID(ctx, video.ID); err != nil {
		return storeError("video", "update", err)
	}
	if err := s.validate(ctx, video); err != nil {
		return storeError("video", "update", err)
	}
	return storeError("video", "update", s.w.Videos().Update(ctx, video))
}

func (s *videoService) Delete(ctx context.Context, id int) error {
	if err := s.w.Videos().Delete(ctx, id); err != nil {
		return storeError("video", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("video deleted", slog.Int("video_id", id))
	return nil
}
