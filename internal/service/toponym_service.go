package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/events"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/geocoding"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/task"
)

// Paging limits for toponym listings.
const (
	DefaultToponymPageSize = 50
	MaxToponymPageSize     = 500
)

// ToponymFilter selects a page of toponyms. Empty fields do not filter.
type ToponymFilter struct {
	Oblast     string
	Community  string
	StreetName string // case-insensitive substring
	Page       int
	Amount     int
}

// ToponymPage is one page of a toponym listing.
type ToponymPage struct {
	Toponyms []*domain.Toponym
	Pages    int
}

// ToponymService manages the street register and its imports.
type ToponymService interface {
	GetAll(ctx context.Context, filter ToponymFilter) (*ToponymPage, error)
	GetByID(ctx context.Context, id int) (*domain.Toponym, error)
	GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.Toponym, error)
	Create(ctx context.Context, toponym *domain.Toponym) error
	Update(ctx context.Context, toponym *domain.Toponym) error
	// Delete removes the toponym and its streetcode links.
	Delete(ctx context.Context, id int) error
	Link(ctx context.Context, streetcodeID, toponymID int) error
	Unlink(ctx context.Context, streetcodeID, toponymID int) error

	// StartImport stores a base64 encoded ZIP archive holding one CSV file
	// and queues a background import. It returns the ID of the import task.
	StartImport(ctx context.Context, archiveBase64 string) (uuid.UUID, error)
	// ImportStatus returns the stored state of an import task.
	ImportStatus(ctx context.Context, taskID uuid.UUID) (*task.Record, error)

	task.ToponymImporter
}

type toponymService struct {
	w        store.Wrapper
	blobs    blob.Store
	geocoder geocoding.Geocoder
	emitter  events.EventEmitter
	tasks    task.TaskStore
	logger   *slog.Logger
}

// ToponymServiceDeps are the collaborators of the toponym service. Geocoder
// may be nil, in which case imported rows without coordinates stay
// ungeocoded.
type ToponymServiceDeps struct {
	Store    store.Wrapper
	Blobs    blob.Store
	Geocoder geocoding.Geocoder
	Emitter  events.EventEmitter
	Tasks    task.TaskStore
}

// NewToponymService creates a ToponymService.
func NewToponymService(deps ToponymServiceDeps, logger *slog.Logger) (ToponymService, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("store wrapper cannot be nil")
	case deps.Blobs == nil:
		return nil, errors.New("blob store cannot be nil")
	case deps.Emitter == nil:
		return nil, errors.New("event emitter cannot be nil")
	case deps.Tasks == nil:
		return nil, errors.New("task store cannot be nil")
	}
	return &toponymService{
		w:        deps.Store,
		blobs:    deps.Blobs,
		geocoder: deps.Geocoder,
		emitter:  deps.Emitter,
		tasks:    deps.Tasks,
		logger:   componentLogger(logger, "toponym_service"),
	}, nil
}

func (s *toponymService) GetAll(ctx context.Context, filter ToponymFilter) (*ToponymPage, error) {
	var opts []store.Option
	if filter.Oblast != "" {
		opts = append(opts, store.Eq("oblast", filter.Oblast))
	}
	if filter.Community != "" {
		opts = append(opts, store.Eq("community", filter.Community))
	}
	if filter.StreetName != "" {
		opts = append(opts, store.Contains("street_name", filter.StreetName))
	}

	total, err := s.w.Toponyms().Count(ctx, opts...)
	if err != nil {
		return nil, storeError("toponym", "get_all", err)
	}

	amount := filter.Amount
	if amount <= 0 {
		amount = DefaultToponymPageSize
	}
	amount = min(amount, MaxToponymPageSize)
	page := max(filter.Page, 1)
	if page > pages(total, amount) {
		return &ToponymPage{Toponyms: []*domain.Toponym{}, Pages: pages(total, amount)}, nil
	}

	opts = append(opts,
		store.OrderBy("oblast"), store.OrderBy("community"), store.OrderBy("street_name"),
		store.Page(page, amount))
	toponyms, err := s.w.Toponyms().GetAll(ctx, opts...)
	if err != nil {
		return nil, storeError("toponym", "get_all", err)
	}
	return &ToponymPage{Toponyms: toponyms, Pages: pages(total, amount)}, nil
}

func (s *toponymService) GetByID(ctx context.Context, id int) (*domain.Toponym, error) {
	toponym, err := s.w.Toponyms().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("toponym", "get", err)
	}
	return toponym, nil
}

func (s *toponymService) GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.Toponym, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("toponym", "get_by_streetcode", err)
	}
	links, err := s.w.StreetcodeToponyms().GetAll(ctx, store.Eq("streetcode_id", streetcodeID))
	if err != nil {
		return nil, storeError("toponym", "get_by_streetcode", err)
	}
	ids := make([]int, len(links))
	for i, l := range links {
		ids[i] = l.ToponymID
	}
	toponyms, err := s.w.Toponyms().GetAll(ctx, store.In(store.KeyColumn, ids...), store.OrderBy("street_name"))
	return toponyms, storeError("toponym", "get_by_streetcode", err)
}

func (s *toponymService) Create(ctx context.Context, toponym *domain.Toponym) error {
	toponym.ID = 0
	if err := toponym.Validate(); err != nil {
		return err
	}
	if err := s.w.Toponyms().Create(ctx, toponym); err != nil {
		return storeError("toponym", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("toponym created", slog.Int("toponym_id", toponym.ID))
	return nil
}

func (s *toponymService) Update(ctx context.Context, toponym *domain.Toponym) error {
	if _, err := s.w.Toponyms().GetByID(ctx, toponym.ID); err != nil {
		return storeError("toponym", "update", err)
	}
	if err := toponym.Validate(); err != nil {
		return err
	}
	return storeError("toponym", "update", s.w.Toponyms().Update(ctx, toponym))
}

func (s *toponymService) Delete(ctx context.Context, id int) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if _, err := tx.StreetcodeToponyms().DeleteWhere(ctx, store.Eq("toponym_id", id)); err != nil {
			return err
		}
		return tx.Toponyms().Delete(ctx, id)
	})
	return storeError("toponym", "delete", err)
}

func (s *toponymService) Link(ctx context.Context, streetcodeID, toponymID int) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if err := ensureStreetcode(ctx, tx, streetcodeID); err != nil {
			return err
		}
		if _, err := tx.Toponyms().GetByID(ctx, toponymID); err != nil {
			return err
		}
		linked, err := tx.StreetcodeToponyms().Exists(ctx,
			store.Eq("streetcode_id", streetcodeID), store.Eq("toponym_id", toponymID))
		if err != nil || linked {
			return err
		}
		return tx.StreetcodeToponyms().Create(ctx,
			&domain.StreetcodeToponym{StreetcodeID: streetcodeID, ToponymID: toponymID})
	})
	return storeError("toponym", "link", err)
}

func (s *toponymService) Unlink(ctx context.Context, streetcodeID, toponymID int) error {
	n, err := s.w.StreetcodeToponyms().DeleteWhere(ctx,
		store.Eq("streetcode_id", streetcodeID), store.Eq("toponym_id", toponymID))
	if err != nil {
		return storeError("toponym", "unlink", err)
	}
	if n == 0 {
		return store.StreetcodeToponymsTable.NotFound()
	}
	return nil
}

func (s *toponymService) ImportStatus(ctx context.Context, taskID uuid.UUID) (*task.Record, error) {
	rec, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, storeError("toponym import", "status", err)
	}
	if rec.Type != task.TaskTypeToponymImport {
		return nil, store.ErrTaskNotFound
	}
	return rec, nil
}
