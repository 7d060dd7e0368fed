package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// TermService manages the dictionary of highlighted terms and their
// related word forms.
type TermService interface {
	GetAll(ctx context.Context) ([]*domain.Term, error)
	GetByID(ctx context.Context, id int) (*domain.Term, error)
	Create(ctx context.Context, term *domain.Term) error
	Update(ctx context.Context, term *domain.Term) error
	// Delete removes the term and its related words.
	Delete(ctx context.Context, id int) error

	GetRelated(ctx context.Context, termID int) ([]*domain.RelatedTerm, error)
	CreateRelated(ctx context.Context, related *domain.RelatedTerm) error
	UpdateRelated(ctx context.Context, related *domain.RelatedTerm) error
	DeleteRelated(ctx context.Context, id int) error
}

type termService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewTermService creates a TermService.
func NewTermService(w store.Wrapper, logger *slog.Logger) (TermService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &termService{w: w, logger: componentLogger(logger, "term_service")}, nil
}

func (s *termService) GetAll(ctx context.Context) ([]*domain.Term, error) {
	terms, err := s.w.Terms().GetAll(ctx, store.OrderBy("title"))
	return terms, storeError("term", "get_all", err)
}

func (s *termService) GetByID(ctx context.Context, id int) (*domain.Term, error) {
	term, err := s.w.Terms().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("term", "get", err)
	}
	return term, nil
}

func (s *termService) checkTitle(ctx context.Context, term *domain.Term) error {
	if err := term.Validate(); err != nil {
		return err
	}
	taken, err := s.w.Terms().Exists(ctx,
		store.Eq("title", term.Title), store.Where(store.KeyColumn, store.OpNe, term.ID))
	if err != nil {
		return err
	}
	if taken {
		return conflict("title", term.Title)
	}
	return nil
}

func (s *termService) Create(ctx context.Context, term *domain.Term) error {
	term.ID = 0
	if err := s.checkTitle(ctx, term); err != nil {
		return storeError("term", "create", err)
	}
	if err := s.w.Terms().Create(ctx, term); err != nil {
		return storeError("term", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("term created", slog.Int("term_id", term.ID))
	return nil
}

func (s *termService) Update(ctx context.Context, term *domain.Term) error {
	if _, err := s.w.Terms().GetByID(ctx, term.ID); err != nil {
		return storeError("term", "update", err)
	}
	if err := s.checkTitle(ctx, term); err != nil {
		return storeError("term", "update", err)
	}
	return storeError("term", "update", s.w.Terms().Update(ctx, term))
}

func (s *termService) Delete(ctx context.Context, id int) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if _, err := tx.RelatedTerms().DeleteWhere(ctx, store.Eq("term_id", id)); err != nil {
			return err
		}
		return tx.Terms().Delete(ctx, id)
	})
	if err != nil {
		return storeError("term", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("term deleted", slog.Int("term_id", id))
	return nil
}

func (s *termService) GetRelated(ctx context.Context, termID int) ([]*domain.RelatedTerm, error) {
	if _, err := s.w.Terms().GetByID(ctx, termID); err != nil {
		return nil, storeError("related term", "get_all", err)
	}
	related, err := s.w.RelatedTerms().GetAll(ctx, store.Eq("term_id", termID), store.OrderBy("word"))
	return related, storeError("related term", "get_all", err)
}

func (s *termService) checkRelated(ctx context.Context, related *domain.RelatedTerm) error {
	if err := related.Validate(); err != nil {
		return err
	}
	if err := ensureExists(ctx, s.w.Terms(), "term_id", related.TermID); err != nil {
		return err
	}
	taken, err := s.w.RelatedTerms().Exists(ctx,
		store.Eq("term_id", related.TermID),
		store.Eq("word", related.Word),
		store.Where(store.KeyColumn, store.OpNe, related.ID))
	if err != nil {
		return err
	}
	if taken {
		return conflict("word", related.Word)
	}
	return nil
}

func (s *termService) CreateRelated(ctx context.Context, related *domain.RelatedTerm) error {
	related.ID = 0
	if err := s.checkRelated(ctx, related); err != nil {
		return storeError("related term", "create", err)
	}
	return storeError("related term", "create", s.w.RelatedTerms().Create(ctx, related))
}

func (s *termService) UpdateRelated(ctx context.Context, related *domain.RelatedTerm) error {
	if _, err := s.w.RelatedTerms().GetByID(ctx, related.ID); err != nil {
		return storeError("related term", "update", err)
	}
	if err := s.checkRelated(ctx, related); err != nil {
		return storeError("related term", "update", err)
	}
	return storeError("related term", "update", s.w.RelatedTerms().Update(ctx, related))
}

func (s *termService) DeleteRelated(ctx context.Context, id int) error {
	return storeError("related term", "delete", s.w.RelatedTerms().Delete(ctx, id))
}
