package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// TextService manages the main article of streetcodes. A streetcode has at
// most one text.
type TextService interface {
	GetAll(ctx context.Context) ([]*domain.Text, error)
	GetByID(ctx context.Context, id int) (*domain.Text, error)
	GetByStreetcodeID(ctx context.Context, streetcodeID int) (*domain.Text, error)
	Create(ctx context.Context, text *domain.Text) error
	Update(ctx context.Context, text *domain.Text) error
	Delete(ctx context.Context, id int) error
	// Parse marks every term title and related word found in content with
	// a <span class="term" data-term-id="N"> element. Matching ignores case.
	Parse(ctx context.Context, content string) (string, error)
}

type textService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewTextService creates a TextService.
func NewTextService(w store.Wrapper, logger *slog.Logger) (TextService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &textService{w: w, logger: componentLogger(logger, "text_service")}, nil
}

func (s *textService) GetAll(ctx context.Context) ([]*domain.Text, error) {
	texts, err := s.w.Texts().GetAll(ctx, store.OrderBy(store.KeyColumn))
	return texts, storeError("text", "get_all", err)
}

func (s *textService) GetByID(ctx context.Context, id int) (*domain.Text, error) {
	text, err := s.w.Texts().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("text", "get", err)
	}
	return text, nil
}

func (s *textService) GetByStreetcodeID(ctx context.Context, streetcodeID int) (*domain.Text, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("text", "get_by_streetcode", err)
	}
	text, err := s.w.Texts().GetFirst(ctx, store.Eq("streetcode_id", streetcodeID))
	if err != nil {
		return nil, storeError("text", "get_by_streetcode", err)
	}
	return text, nil
}

func (s *textService) validate(ctx context.Context, text *domain.Text) error {
	if err := text.Validate(); err != nil {
		return err
	}
	if err := ensureExists(ctx, s.w.Streetcodes(), "streetcode_id", text.StreetcodeID); err != nil {
		return err
	}
	taken, err := s.w.Texts().Exists(ctx,
		store.Eq("streetcode_id", text.StreetcodeID), store.Where(store.KeyColumn, store.OpNe, text.ID))
	if err != nil {
		return err
	}
	if taken {
		return conflict("streetcode_id", "the streetcode already has a text")
	}
	return nil
}

func (s *textService) Create(ctx context.Context, text *domain.Text) error {
	text.ID = 0
	if err := s.validate(ctx, text); err != nil {
		return storeError("text", "create", err)
	}
	if err := s.w.Texts().Create(ctx, text); err != nil {
		return storeError("text", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("text created",
		slog.Int("text_id", text.ID),
		slog.Int("streetcode_id", text.StreetcodeID))
	return nil
}

func (s *textService) Update(ctx context.Context, text *domain.Text) error {
	if _, err := s.w.Texts().GetByID(ctx, text.ID); err != nil {
		return storeError("text", "update", err)
	}
	if err := s.validate(ctx, text); err != nil {
		return storeError("text", "update", err)
	}
	return storeError("text", "update", s.w.Texts().Update(ctx, text))
}

func (s *textService) Delete(ctx context.Context, id int) error {
	return storeError("text", "delete", s.w.Texts().Delete(ctx, id))
}

func (s *textService) Parse(ctx context.Context, content string) (string, error) {
	terms, err := s.w.Terms().GetAll(ctx, store.OrderBy(store.KeyColumn))
	if err != nil {
		return "", storeError("text", "parse", err)
	}
	related, err := s.w.RelatedTerms().GetAll(ctx, store.OrderBy("term_id"), store.OrderBy(store.KeyColumn))
	if err != nil {
		return "", storeError("text", "parse", err)
	}

	dict := newTermDictionary()
	for _, t := range terms {
		dict.add(t.Title, t.ID)
	}
	for _, r := range related {
		dict.add(r.Word, r.TermID)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("highlighting terms",
		slog.Int("phrases", len(dict.phrases)),
		slog.Int("content_length", len(content)))
	return dict.highlight(content), nil
}
