package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// TimelineService manages the dated events of streetcodes.
type TimelineService interface {
	GetAll(ctx context.Context) ([]*domain.TimelineItem, error)
	GetByID(ctx context.Context, id int) (*domain.TimelineItem, error)
	// GetByStreetcodeID returns the timeline of a streetcode in date order.
	GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.TimelineItem, error)
	Create(ctx context.Context, item *domain.TimelineItem) error
	Update(ctx context.Context, item *domain.TimelineItem) error
	Delete(ctx context.Context, id int) error
}

type timelineService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewTimelineService creates a TimelineService.
func NewTimelineService(w store.Wrapper, logger *slog.Logger) (TimelineService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &timelineService{w: w, logger: componentLogger(logger, "timeline_service")}, nil
}

func (s *timelineService) GetAll(ctx context.Context) ([]*domain.TimelineItem, error) {
	items, err := s.w.TimelineItems().GetAll(ctx, store.OrderBy("date"))
	return items, storeError("timeline item", "get_all", err)
}

func (s *timelineService) GetByID(ctx context.Context, id int) (*domain.TimelineItem, error) {
	item, err := s.w.TimelineItems().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("timeline item", "get", err)
	}
	return item, nil
}

func (s *timelineService) GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.TimelineItem, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("timeline item", "get_by_streetcode", err)
	}
	items, err := s.w.TimelineItems().GetAll(ctx,
		store.Eq("streetcode_id", streetcodeID), store.OrderBy("date"))
	return items, storeError("timeline item", "get_by_streetcode", err)
}

func (s *timelineService) validate(ctx context.Context, item *domain.TimelineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return ensureExists(ctx, s.w.Streetcodes(), "streetcode_id", item.StreetcodeID)
}

func (s *timelineService) Create(ctx context.Context, item *domain.TimelineItem) error {
	item.ID = 0
	if err := s.validate(ctx, item); err != nil {
		return storeError("timeline item", "create", err)
	}
	if err := s.w.TimelineItems().Create(ctx, item); err != nil {
		return storeError("timeline item", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("timeline item created",
		slog.Int("timeline_item_id", item.ID),
		slog.Int("streetcode_id", item.StreetcodeID))
	return nil
}

func (s *timelineService) Update(ctx context.Context, item *domain.TimelineItem) error {
	if _, err := s.w.TimelineItems().GetByID(ctx, item.ID); err != nil {
		return storeError("timeline item", "update", err)
	}
	if err := s.validate(ctx, item); err != nil {
		return storeError("timeline item", "update", err)
	}
	return storeError("timeline item", "update", s.w.TimelineItems().Update(ctx, item))
}

func (s *timelineService) Delete(ctx context.Context, id int) error {
	return storeError("timeline item", "delete", s.w.TimelineItems().Delete(ctx, id))
}
