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

// FactService manages the numbered facts of streetcodes. Within one
// streetcode the fact numbers always form the sequence 1..n.
type FactService interface {
	GetAll(ctx context.Context) ([]*domain.Fact, error)
	GetByID(ctx context.Context, id int) (*domain.Fact, error)
	// GetByStreetcodeID returns the facts of a streetcode ordered by number.
	GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.Fact, error)
	// Create appends the fact after the streetcode's last fact.
	Create(ctx context.Context, fact *domain.Fact) error
	// Update changes title, content and image. Number and streetcode are kept.
	Update(ctx context.Context, fact *domain.Fact) error
	// Delete removes the fact and renumbers the remaining ones.
	Delete(ctx context.Context, id int) error
	// Reorder assigns new numbers to every fact of a streetcode at once.
	// The positions must name each fact exactly once and use the numbers
	// 1..n exactly once; otherwise ErrInvalidOrder is returned.
	Reorder(ctx context.Context, streetcodeID int, positions []domain.FactPosition) ([]*domain.Fact, error)
}

type factService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewFactService creates a FactService.
func NewFactService(w store.Wrapper, logger *slog.Logger) (FactService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &factService{w: w, logger: componentLogger(logger, "fact_service")}, nil
}

func (s *factService) GetAll(ctx context.Context) ([]*domain.Fact, error) {
	facts, err := s.w.Facts().GetAll(ctx, store.OrderBy("streetcode_id"), store.OrderBy("number"))
	return facts, storeError("fact", "get_all", err)
}

func (s *factService) GetByID(ctx context.Context, id int) (*domain.Fact, error) {
	fact, err := s.w.Facts().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("fact", "get", err)
	}
	return fact, nil
}

func (s *factService) GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.Fact, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("fact", "get_by_streetcode", err)
	}
	facts, err := factsOf(ctx, s.w, streetcodeID)
	return facts, storeError("fact", "get_by_streetcode", err)
}

func factsOf(ctx context.Context, w store.Wrapper, streetcodeID int) ([]*domain.Fact, error) {
	return w.Facts().GetAll(ctx, store.Eq("streetcode_id", streetcodeID), store.OrderBy("number"))
}

func (s *factService) checkImage(ctx context.Context, fact *domain.Fact) error {
	if fact.ImageID == nil {
		return nil
	}
	return ensureExists(ctx, s.w.Images(), "image_id", *fact.ImageID)
}

func (s *factService) Create(ctx context.Context, fact *domain.Fact) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fact.Number = 1
	if err := fact.Validate(); err != nil {
		return err
	}
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if err := ensureExists(ctx, tx.Streetcodes(), "streetcode_id", fact.StreetcodeID); err != nil {
			return err
		}
		if err := s.checkImage(ctx, fact); err != nil {
			return err
		}
		last, err := tx.Facts().GetFirst(ctx,
			store.Eq("streetcode_id", fact.StreetcodeID), store.OrderByDesc("number"))
		switch {
		case err == nil:
			fact.Number = last.Number + 1
		case !store.IsNotFoundError(err):
			return err
		}
		return tx.Facts().Create(ctx, fact)
	})
	if err != nil {
		return storeError("fact", "create", err)
	}

	log.Info("fact created",
		slog.Int("fact_id", fact.ID),
		slog.Int("streetcode_id", fact.StreetcodeID),
		slog.Int("number", fact.Number))
	return nil
}

func (s *factService) Update(ctx context.Context, fact *domain.Fact) error {
	existing, err := s.w.Facts().GetByID(ctx, fact.ID)
	if err != nil {
		return storeError("fact", "update", err)
	}
	if fact.StreetcodeID != 0 && fact.StreetcodeID != existing.StreetcodeID {
		return domain.NewValidationError("streetcode_id", "cannot be changed", nil)
	}
	fact.StreetcodeID = existing.StreetcodeID
	fact.Number = existing.Number
	if err := fact.Validate(); err != nil {
		return err
	}
	if err := s.checkImage(ctx, fact); err != nil {
		return err
	}
	return storeError("fact", "update", s.w.Facts().Update(ctx, fact))
}

func (s *factService) Delete(ctx context.Context, id int) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		fact, err := tx.Facts().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Facts().Delete(ctx, id); err != nil {
			return err
		}
		rest, err := factsOf(ctx, tx, fact.StreetcodeID)
		if err != nil {
			return err
		}
		return renumber(ctx, tx, rest)
	})
	if err != nil {
		return storeError("fact", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("fact deleted", slog.Int("fact_id", id))
	return nil
}

// renumber assigns 1..n to facts in their current order.
func renumber(ctx context.Context, w store.Wrapper, facts []*domain.Fact) error {
	for i, f := range facts {
		if f.Number == i+1 {
			continue
		}
		f.Number = i + 1
		if err := w.Facts().Update(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *factService) Reorder(
	ctx context.Context,
	streetcodeID int,
	positions []domain.FactPosition,
) ([]*domain.Fact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no positions given", ErrInvalidOrder)
	}

	var result []*domain.Fact
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if err := ensureStreetcode(ctx, tx, streetcodeID); err != nil {
			return err
		}
		facts, err := factsOf(ctx, tx, streetcodeID)
		if err != nil {
			return err
		}
		if err := checkPositions(facts, positions); err != nil {
			return err
		}

		byID := make(map[int]*domain.Fact, len(facts))
		for _, f := range facts {
			byID[f.ID] = f
		}
		for _, p := range positions {
			f := byID[p.ID]
			if f.Number == p.Number {
				continue
			}
			f.Number = p.Number
			if err := tx.Facts().Update(ctx, f); err != nil {
				return err
			}
		}
		result, err = factsOf(ctx, tx, streetcodeID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInvalidOrder) {
			log.Debug("rejected fact order",
				slog.Int("streetcode_id", streetcodeID),
				slog.String("reason", err.Error()))
		}
		return nil, storeError("fact", "reorder", err)
	}

	log.Info("facts reordered",
		slog.Int("streetcode_id", streetcodeID),
		slog.Int("count", len(result)))
	return result, nil
}

// checkPositions verifies that positions is a permutation of facts onto 1..n.
func checkPositions(facts []*domain.Fact, positions []domain.FactPosition) error {
	if len(positions) != len(facts) {
		return fmt.Errorf("%w: expected %d positions, got %d", ErrInvalidOrder, len(facts), len(positions))
	}
	owned := make(map[int]bool, len(facts))
	for _, f := range facts {
		owned[f.ID] = true
	}
	seenIDs := make(map[int]bool, len(positions))
	seenNumbers := make(map[int]bool, len(positions))
	for _, p := range positions {
		if !owned[p.ID] {
			return fmt.Errorf("%w: fact %d does not belong to the streetcode", ErrInvalidOrder, p.ID)
		}
		if seenIDs[p.ID] {
			return fmt.Errorf("%w: fact %d is listed twice", ErrInvalidOrder, p.ID)
		}
		if p.Number < 1 || p.Number > len(facts) {
			return fmt.Errorf("%w: number %d is outside 1..%d", ErrInvalidOrder, p.Number, len(facts))
		}
		if seenNumbers[p.Number] {
			return fmt.Errorf("%w: number %d is used twice", ErrInvalidOrder, p.Number)
		}
		seenIDs[p.ID] = true
		seenNumbers[p.Number] = true
	}
	return nil
}
