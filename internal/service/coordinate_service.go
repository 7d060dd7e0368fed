package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// CoordinateService manages the map points of streetcodes.
type CoordinateService interface {
	GetAll(ctx context.Context) ([]*domain.StreetcodeCoordinate, error)
	GetByID(ctx context.Context, id int) (*domain.StreetcodeCoordinate, error)
	GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.StreetcodeCoordinate, error)
	Create(ctx context.Context, coordinate *domain.StreetcodeCoordinate) error
	Update(ctx context.Context, coordinate *domain.StreetcodeCoordinate) error
	// Delete fails with ErrConflict while a statistic record points at the
	// coordinate.
	Delete(ctx context.Context, id int) error
}

type coordinateService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewCoordinateService creates a CoordinateService.
func NewCoordinateService(w store.Wrapper, logger *slog.Logger) (CoordinateService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &coordinateService{w: w, logger: componentLogger(logger, "coordinate_service")}, nil
}

func (s *coordinateService) GetAll(ctx context.Context) ([]*domain.StreetcodeCoordinate, error) {
	coords, err := s.w.Coordinates().GetAll(ctx, store.OrderBy(store.KeyColumn))
	return coords, storeError("coordinate", "get_all", err)
}

func (s *coordinateService) GetByID(ctx context.Context, id int) (*domain.StreetcodeCoordinate, error) {
	coord, err := s.w.Coordinates().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("coordinate", "get", err)
	}
	return coord, nil
}

func (s *coordinateService) GetByStreetcodeID(
	ctx context.Context,
	streetcodeID int,
) ([]*domain.StreetcodeCoordinate, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("coordinate", "get_by_streetcode", err)
	}
	coords, err := s.w.Coordinates().GetAll(ctx,
		store.Eq("streetcode_id", streetcodeID), store.OrderBy(store.KeyColumn))
	return coords, storeError("coordinate", "get_by_streetcode", err)
}

func (s *coordinateService) validate(ctx context.Context, coord *domain.StreetcodeCoordinate) error {
	if err := coord.Validate(); err != nil {
		return err
	}
	return ensureExists(ctx, s.w.Streetcodes(), "streetcode_id", coord.StreetcodeID)
}

func (s *coordinateService) Create(ctx context.Context, coord *domain.StreetcodeCoordinate) error {
	coord.ID = 0
	if err := s.validate(ctx, coord); err != nil {
		return storeError("coordinate", "create", err)
	}
	if err := s.w.Coordinates().Create(ctx, coord); err != nil {
		return storeError("coordinate", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("coordinate created",
		slog.Int("coordinate_id", coord.ID),
		slog.Int("streetcode_id", coord.StreetcodeID))
	return nil
}

func (s *coordinateService) Update(ctx context.Context, coord *domain.StreetcodeCoordinate) error {
	if _, err := s.w.Coordinates().GetByID(ctx, coord.ID); err != nil {
		return storeError("coordinate", "update", err)
	}
	if err := s.validate(ctx, coord); err != nil {
		return storeError("coordinate", "update", err)
	}
	return storeError("coordinate", "update", s.w.Coordinates().Update(ctx, coord))
}

func (s *coordinateService) Delete(ctx context.Context, id int) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		used, err := tx.StatisticRecords().Exists(ctx, store.Eq("streetcode_coordinate_id", id))
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: coordinate %d has statistic records", ErrConflict, id)
		}
		return tx.Coordinates().Delete(ctx, id)
	})
	return storeError("coordinate", "delete", err)
}
