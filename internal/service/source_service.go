package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// SourceService manages source link categories and the per-streetcode
// text shown under each of them.
type SourceService interface {
	GetAll(ctx context.Context) ([]*domain.SourceLinkCategory, error)
	GetByID(ctx context.Context, id int) (*domain.SourceLinkCategory, error)
	// GetByStreetcodeID returns the categories a streetcode has content for.
	GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.SourceLinkCategory, error)
	Create(ctx context.Context, category *domain.SourceLinkCategory) error
	Update(ctx context.Context, category *domain.SourceLinkCategory) error
	// Delete removes the category together with all its streetcode contents.
	Delete(ctx context.Context, id int) error

	// GetContent returns the text of one streetcode under one category.
	GetContent(ctx context.Context, streetcodeID, categoryID int) (*domain.StreetcodeCategoryContent, error)
	// UpsertContent creates or replaces the text of a (streetcode, category) pair.
	UpsertContent(ctx context.Context, content *domain.StreetcodeCategoryContent) error
	DeleteContent(ctx context.Context, streetcodeID, categoryID int) error
}

type sourceService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewSourceService creates a SourceService.
func NewSourceService(w store.Wrapper, logger *slog.Logger) (SourceService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &sourceService{w: w, logger: componentLogger(logger, "source_service")}, nil
}

func (s *sourceService) GetAll(ctx context.Context) ([]*domain.SourceLinkCategory, error) {
	categories, err := s.w.SourceCategories().GetAll(ctx, store.OrderBy("title"))
	return categories, storeError("source category", "get_all", err)
}

func (s *sourceService) GetByID(ctx context.Context, id int) (*domain.SourceLinkCategory, error) {
	category, err := s.w.SourceCategories().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("source category", "get", err)
	}
	return category, nil
}

func (s *sourceService) GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.SourceLinkCategory, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("source category", "get_by_streetcode", err)
	}
	contents, err := s.w.CategoryContents().GetAll(ctx, store.Eq("streetcode_id", streetcodeID))
	if err != nil {
		return nil, storeError("source category", "get_by_streetcode", err)
	}
	ids := make([]int, len(contents))
	for i, c := range contents {
		ids[i] = c.SourceLinkCategoryID
	}
	categories, err := s.w.SourceCategories().GetAll(ctx, store.In(store.KeyColumn, ids...), store.OrderBy("title"))
	return categories, storeError("source category", "get_by_streetcode", err)
}

func (s *sourceService) validate(ctx context.Context, category *domain.SourceLinkCategory) error {
	if err := category.Validate(); err != nil {
		return err
	}
	taken, err := s.w.SourceCategories().Exists(ctx,
		store.Eq("title", category.Title), store.Where(store.KeyColumn, store.OpNe, category.ID))
	if err != nil {
		return err
	}
	if taken {
		return conflict("title", category.Title)
	}
	return ensureExists(ctx, s.w.Images(), "image_id", category.ImageID)
}

func (s *sourceService) Create(ctx context.Context, category *domain.SourceLinkCategory) error {
	category.ID = 0
	if err := s.validate(ctx, category); err != nil {
		return storeError("source category", "create", err)
	}
	if err := s.w.SourceCategories().Create(ctx, category); err != nil {
		return storeError("source category", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("source category created",
		slog.Int("category_id", category.ID))
	return nil
}

func (s *sourceService) Update(ctx context.Context, category *domain.SourceLinkCategory) error {
	if _, err := s.w.SourceCategories().GetByID(ctx, category.ID); err != nil {
		return storeError("source category", "update", err)
	}
	if err := s.validate(ctx, category); err != nil {
		return storeError("source category", "update", err)
	}
	return storeError("source category", "update", s.w.SourceCategories().Update(ctx, category))
}

func (s *sourceService) Delete(ctx context.Context, id int) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if _, err := tx.CategoryContents().DeleteWhere(ctx, store.Eq("source_link_category_id", id)); err != nil {
			return err
		}
		return tx.SourceCategories().Delete(ctx, id)
	})
	if err != nil {
		return storeError("source category", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("source category deleted", slog.Int("category_id", id))
	return nil
}

func contentQuery(streetcodeID, categoryID int) []store.Option {
	return []store.Option{
		store.Eq("streetcode_id", streetcodeID),
		store.Eq("source_link_category_id", categoryID),
	}
}

func (s *sourceService) GetContent(
	ctx context.Context,
	streetcodeID, categoryID int,
) (*domain.StreetcodeCategoryContent, error) {
	content, err := s.w.CategoryContents().GetFirst(ctx, contentQuery(streetcodeID, categoryID)...)
	if err != nil {
		return nil, storeError("category content", "get", err)
	}
	return content, nil
}

func (s *sourceService) UpsertContent(ctx context.Context, content *domain.StreetcodeCategoryContent) error {
	if err := content.Validate(); err != nil {
		return err
	}
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if err := ensureExists(ctx, tx.Streetcodes(), "streetcode_id", content.StreetcodeID); err != nil {
			return err
		}
		if err := ensureExists(ctx, tx.SourceCategories(), "source_link_category_id",
			content.SourceLinkCategoryID); err != nil {
			return err
		}
		existing, err := tx.CategoryContents().GetFirst(ctx,
			contentQuery(content.StreetcodeID, content.SourceLinkCategoryID)...)
		switch {
		case err == nil:
			content.ID = existing.ID
			return tx.CategoryContents().Update(ctx, content)
		case store.IsNotFoundError(err):
			content.ID = 0
			return tx.CategoryContents().Create(ctx, content)
		default:
			return err
		}
	})
	return storeError("category content", "upsert", err)
}

func (s *sourceService) DeleteContent(ctx context.Context, streetcodeID, categoryID int) error {
	n, err := s.w.CategoryContents().DeleteWhere(ctx, contentQuery(streetcodeID, categoryID)...)
	if err != nil {
		return storeError("category content", "delete", err)
	}
	if n == 0 {
		return store.CategoryContentsTable.NotFound()
	}
	return nil
}
