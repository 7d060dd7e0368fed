package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// StatisticService manages the scan counters of physical QR plates.
type StatisticService interface {
	GetAll(ctx context.Context) ([]*domain.StatisticRecord, error)
	GetByID(ctx context.Context, id int) (*domain.StatisticRecord, error)
	GetByQrID(ctx context.Context, qrID int) (*domain.StatisticRecord, error)
	GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.StatisticRecord, error)
	// Create fails with ErrConflict when the QR ID is taken.
	Create(ctx context.Context, record *domain.StatisticRecord) error
	// Update keeps the stored scan count.
	Update(ctx context.Context, record *domain.StatisticRecord) error
	Delete(ctx context.Context, id int) error
	// IncrementCount records one scan of the plate and returns the new state.
	IncrementCount(ctx context.Context, qrID int) (*domain.StatisticRecord, error)
}

type statisticService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewStatisticService creates a StatisticService.
func NewStatisticService(w store.Wrapper, logger *slog.Logger) (StatisticService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &statisticService{w: w, logger: componentLogger(logger, "statistic_service")}, nil
}

func (s *statisticService) GetAll(ctx context.Context) ([]*domain.StatisticRecord, error) {
	records, err := s.w.StatisticRecords().GetAll(ctx, store.OrderBy("qr_id"))
	return records, storeError("statistic record", "get_all", err)
}

func (s *statisticService) GetByID(ctx context.Context, id int) (*domain.StatisticRecord, error) {
	record, err := s.w.StatisticRecords().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("statistic record", "get", err)
	}
	return record, nil
}

func (s *statisticService) GetByQrID(ctx context.Context, qrID int) (*domain.StatisticRecord, error) {
	record, err := s.w.StatisticRecords().GetFirst(ctx, store.Eq("qr_id", qrID))
	if err != nil {
		return nil, storeError("statistic record", "get_by_qr", err)
	}
	return record, nil
}

func (s *statisticService) GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.StatisticRecord, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("statistic record", "get_by_streetcode", err)
	}
	records, err := s.w.StatisticRecords().GetAll(ctx,
		store.Eq("streetcode_id", streetcodeID), store.OrderBy("qr_id"))
	return records, storeError("statistic record", "get_by_streetcode", err)
}

func (s *statisticService) validate(ctx context.Context, w store.Wrapper, record *domain.StatisticRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	taken, err := w.StatisticRecords().Exists(ctx,
		store.Eq("qr_id", record.QrID), store.Where(store.KeyColumn, store.OpNe, record.ID))
	if err != nil {
		return err
	}
	if taken {
		return conflict("qr_id", strconv.Itoa(record.QrID))
	}
	if err := ensureExists(ctx, w.Streetcodes(), "streetcode_id", record.StreetcodeID); err != nil {
		return err
	}
	coord, err := w.Coordinates().GetByID(ctx, record.StreetcodeCoordinateID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return missingReference("streetcode_coordinate_id", record.StreetcodeCoordinateID)
		}
		return err
	}
	if coord.StreetcodeID != record.StreetcodeID {
		return domain.NewValidationError("streetcode_coordinate_id", "belongs to another streetcode", nil)
	}
	return nil
}

func (s *statisticService) Create(ctx context.Context, record *domain.StatisticRecord) error {
	record.ID = 0
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if err := s.validate(ctx, tx, record); err != nil {
			return err
		}
		return tx.StatisticRecords().Create(ctx, record)
	})
	if err != nil {
		return storeError("statistic record", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("statistic record created",
		slog.Int("record_id", record.ID),
		slog.Int("qr_id", record.QrID))
	return nil
}

func (s *statisticService) Update(ctx context.Context, record *domain.StatisticRecord) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		existing, err := tx.StatisticRecords().GetByID(ctx, record.ID)
		if err != nil {
			return err
		}
		record.Count = existing.Count
		if err := s.validate(ctx, tx, record); err != nil {
			return err
		}
		return tx.StatisticRecords().Update(ctx, record)
	})
	return storeError("statistic record", "update", err)
}

func (s *statisticService) Delete(ctx context.Context, id int) error {
	return storeError("statistic record", "delete", s.w.StatisticRecords().Delete(ctx, id))
}

func (s *statisticService) IncrementCount(ctx context.Context, qrID int) (*domain.StatisticRecord, error) {
	record, err := s.w.StatisticRecords().GetFirst(ctx, store.Eq("qr_id", qrID))
	if err == nil {
		record, err = s.w.StatisticRecords().Increment(ctx, record.ID, "count")
	}
	if err != nil {
		return nil, storeError("statistic record", "increment", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("qr scan recorded",
		slog.Int("qr_id", qrID),
		slog.Int("count", record.Count))
	return record, nil
}
