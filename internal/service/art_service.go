package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// ArtService manages artworks built on images.
type ArtService interface {
	GetAll(ctx context.Context) ([]*domain.Art, error)
	GetByID(ctx context.Context, id int) (*domain.Art, error)
	// GetByStreetcodeID returns the arts of a streetcode in display order.
	GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.Art, error)
	Create(ctx context.Context, art *domain.Art) error
	Update(ctx context.Context, art *domain.Art) error
	// Delete removes the art and its streetcode placements.
	Delete(ctx context.Context, id int) error
}

type artService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewArtService creates an ArtService.
func NewArtService(w store.Wrapper, logger *slog.Logger) (ArtService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &artService{w: w, logger: componentLogger(logger, "art_service")}, nil
}

func (s *artService) GetAll(ctx context.Context) ([]*domain.Art, error) {
	arts, err := s.w.Arts().GetAll(ctx, store.OrderBy(store.KeyColumn))
	return arts, storeError("art", "get_all", err)
}

func (s *artService) GetByID(ctx context.Context, id int) (*domain.Art, error) {
	art, err := s.w.Arts().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("art", "get", err)
	}
	return art, nil
}

func (s *artService) GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.Art, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("art", "get_by_streetcode", err)
	}
	placements, err := s.w.StreetcodeArts().GetAll(ctx,
		store.Eq("streetcode_id", streetcodeID), store.OrderBy("index"))
	if err != nil {
		return nil, storeError("art", "get_by_streetcode", err)
	}
	ids := make([]int, len(placements))
	for i, p := range placements {
		ids[i] = p.ArtID
	}
	arts, err := s.w.Arts().GetAll(ctx, store.In(store.KeyColumn, ids...))
	if err != nil {
		return nil, storeError("art", "get_by_streetcode", err)
	}
	byID := make(map[int]*domain.Art, len(arts))
	for _, a := range arts {
		byID[a.ID] = a
	}
	out := make([]*domain.Art, 0, len(placements))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *artService) validate(ctx context.Context, art *domain.Art) error {
	if err := art.Validate(); err != nil {
		return err
	}
	return ensureExists(ctx, s.w.Images(), "image_id", art.ImageID)
}

func (s *artService) Create(ctx context.Context, art *domain.Art) error {
	if err := s.validate(ctx, art); err != nil {
		return storeError("art", "create", err)
	}
	if err := s.w.Arts().Create(ctx, art); err != nil {
		return storeError("art", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("art created", slog.Int("art_id", art.ID))
	return nil
}

func (s *artService) Update(ctx context.Context, art *domain.Art) error {
	if _, err := s.w.Arts().GetByID(ctx, art.ID); err != nil {
		return storeError("art", "update", err)
	}
	if err := s.validate(ctx, art); err != nil {
		return storeError("art", "update", err)
	}
	return storeError("art", "update", s.w.Arts().Update(ctx, art))
}

func (s *artService) Delete(ctx context.Context, id int) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if _, err := tx.StreetcodeArts().DeleteWhere(ctx, store.Eq("art_id", id)); err != nil {
			return err
		}
		return tx.Arts().Delete(ctx, id)
	})
	if err != nil {
		return storeError("art", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("art deleted", slog.Int("art_id", id))
	return nil
}
