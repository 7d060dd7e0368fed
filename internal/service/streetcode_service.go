package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// Paging limits for streetcode listings.
const (
	DefaultStreetcodePageSize = 10
	MaxStreetcodePageSize     = 100
)

// Columns a streetcode listing may be sorted by.
var streetcodeSortColumns = map[string]bool{
	"index":                            true,
	"title":                            true,
	"created_at":                       true,
	"updated_at":                       true,
	"view_count":                       true,
	"event_start_or_person_birth_date": true,
}

// StreetcodeQuery selects a page of streetcodes.
//
// Sort names one column, prefixed with "-" for descending order. Filter has
// the form "status:<value>". Without a status filter deleted streetcodes
// are left out.
type StreetcodeQuery struct {
	Page   int
	Amount int
	Title  string
	Sort   string
	Filter string
}

// StreetcodePage is one page of a streetcode listing.
type StreetcodePage struct {
	Streetcodes []*domain.Streetcode
	Pages       int
}

// StreetcodeShort is the catalog view of a streetcode.
type StreetcodeShort struct {
	ID                 int
	Index              int
	Title              string
	TransliterationURL string
}

// StreetcodeArtPlacement places an existing art in the streetcode gallery.
// A zero Index places it after the previous entry.
type StreetcodeArtPlacement struct {
	ArtID int
	Index int
}

// StreetcodeContent is a streetcode together with everything created
// alongside it. Facts are numbered in list order.
type StreetcodeContent struct {
	Streetcode    domain.Streetcode
	Text          *domain.Text
	Facts         []*domain.Fact
	TimelineItems []*domain.TimelineItem
	Coordinates   []*domain.StreetcodeCoordinate
	Videos        []*domain.Video
	Categories    []*domain.StreetcodeCategoryContent
	ImageIDs      []int
	Arts          []StreetcodeArtPlacement
	PartnerIDs    []int
	ToponymIDs    []int
}

// StreetcodeService manages streetcodes.
type StreetcodeService interface {
	GetAll(ctx context.Context, q StreetcodeQuery) (*StreetcodePage, error)
	GetByID(ctx context.Context, id int) (*domain.Streetcode, error)
	GetByIndex(ctx context.Context, index int) (*domain.Streetcode, error)
	GetByTransliterationURL(ctx context.Context, url string) (*domain.Streetcode, error)
	// GetShort lists every streetcode that is not deleted, ordered by index.
	GetShort(ctx context.Context) ([]StreetcodeShort, error)
	ExistsWithIndex(ctx context.Context, index int) (bool, error)
	Count(ctx context.Context, onlyPublished bool) (int, error)
	IncrementViewCount(ctx context.Context, id int) (*domain.Streetcode, error)

	// Create stores the streetcode and its content in one transaction.
	// Nothing is stored if any part is rejected.
	Create(ctx context.Context, content *StreetcodeContent) (*domain.Streetcode, error)
	// Update changes the core fields. View count and timestamps are kept.
	Update(ctx context.Context, streetcode *domain.Streetcode) error
	UpdateStatus(ctx context.Context, id int, status domain.StreetcodeStatus) error
	// SoftDelete marks the streetcode deleted and keeps its content.
	SoftDelete(ctx context.Context, id int) error
	// Delete removes the streetcode with all content it owns.
	Delete(ctx context.Context, id int) error
}

type streetcodeService struct {
	w      store.Wrapper
	blobs  blob.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewStreetcodeService creates a StreetcodeService. The blob store is used
// to drop the audio of hard deleted streetcodes.
func NewStreetcodeService(w store.Wrapper, blobs blob.Store, logger *slog.Logger) (StreetcodeService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	if blobs == nil {
		return nil, errors.New("blob store cannot be nil")
	}
	return &streetcodeService{
		w:      w,
		blobs:  blobs,
		logger: componentLogger(logger, "streetcode_service"),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// listOptions turns a query into filter and order options.
func listOptions(q StreetcodeQuery) ([]store.Option, []store.Option, error) {
	var filters []store.Option
	if title := strings.TrimSpace(q.Title); title != "" {
		filters = append(filters, store.Contains("title", title))
	}

	statusFiltered := false
	if q.Filter != "" {
		key, value, ok := strings.Cut(q.Filter, ":")
		if !ok || strings.TrimSpace(key) != "status" {
			return nil, nil, domain.NewValidationError("filter", "must have the form status:<value>", domain.ErrInvalidFormat)
		}
		status := domain.StreetcodeStatus(strings.ToLower(strings.TrimSpace(value)))
		if !domain.IsValidStreetcodeStatus(status) {
			return nil, nil, domain.NewValidationError("filter", "names an unknown status", nil)
		}
		filters = append(filters, store.Eq("status", status))
		statusFiltered = true
	}
	if !statusFiltered {
		filters = append(filters, store.Where("status", store.OpNe, domain.StreetcodeStatusDeleted))
	}

	var order []store.Option
	if q.Sort != "" {
		column, desc := strings.CutPrefix(strings.TrimSpace(q.Sort), "-")
		if !streetcodeSortColumns[column] {
			return nil, nil, domain.NewValidationError("sort", "cannot sort by "+column, nil)
		}
		if desc {
			order = append(order, store.OrderByDesc(column))
		} else {
			order = append(order, store.OrderBy(column))
		}
	}
	order = append(order, store.OrderBy(store.KeyColumn))
	return filters, order, nil
}

func (s *streetcodeService) GetAll(ctx context.Context, q StreetcodeQuery) (*StreetcodePage, error) {
	filters, order, err := listOptions(q)
	if err != nil {
		return nil, err
	}

	total, err := s.w.Streetcodes().Count(ctx, filters...)
	if err != nil {
		return nil, storeError("streetcode", "get_all", err)
	}

	amount := q.Amount
	if amount <= 0 {
		amount = DefaultStreetcodePageSize
	}
	amount = min(amount, MaxStreetcodePageSize)
	page := max(q.Page, 1)
	if page > pages(total, amount) {
		return &StreetcodePage{Streetcodes: []*domain.Streetcode{}, Pages: pages(total, amount)}, nil
	}

	opts := append(filters, order...)
	opts = append(opts, store.Page(page, amount))
	streetcodes, err := s.w.Streetcodes().GetAll(ctx, opts...)
	if err != nil {
		return nil, storeError("streetcode", "get_all", err)
	}
	return &StreetcodePage{Streetcodes: streetcodes, Pages: pages(total, amount)}, nil
}

func (s *streetcodeService) GetByID(ctx context.Context, id int) (*domain.Streetcode, error) {
	sc, err := s.w.Streetcodes().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("streetcode", "get", err)
	}
	return sc, nil
}

func (s *streetcodeService) GetByIndex(ctx context.Context, index int) (*domain.Streetcode, error) {
	sc, err := s.w.Streetcodes().GetFirst(ctx, store.Eq("index", index))
	if err != nil {
		return nil, storeError("streetcode", "get_by_index", err)
	}
	return sc, nil
}

func (s *streetcodeService) GetByTransliterationURL(ctx context.Context, url string) (*domain.Streetcode, error) {
	sc, err := s.w.Streetcodes().GetFirst(ctx, store.Eq("transliteration_url", strings.ToLower(url)))
	if err != nil {
		return nil, storeError("streetcode", "get_by_url", err)
	}
	return sc, nil
}

func (s *streetcodeService) GetShort(ctx context.Context) ([]StreetcodeShort, error) {
	streetcodes, err := s.w.Streetcodes().GetAll(ctx,
		store.Where("status", store.OpNe, domain.StreetcodeStatusDeleted), store.OrderBy("index"))
	if err != nil {
		return nil, storeError("streetcode", "get_short", err)
	}
	out := make([]StreetcodeShort, len(streetcodes))
	for i, sc := range streetcodes {
		out[i] = StreetcodeShort{
			ID:                 sc.ID,
			Index:              sc.Index,
			Title:              sc.Title,
			TransliterationURL: sc.TransliterationURL,
		}
	}
	return out, nil
}

func (s *streetcodeService) ExistsWithIndex(ctx context.Context, index int) (bool, error) {
	ok, err := s.w.Streetcodes().Exists(ctx, store.Eq("index", index))
	return ok, storeError("streetcode", "exists", err)
}

func (s *streetcodeService) Count(ctx context.Context, onlyPublished bool) (int, error) {
	opt := store.Where("status", store.OpNe, domain.StreetcodeStatusDeleted)
	if onlyPublished {
		opt = store.Eq("status", domain.StreetcodeStatusPublished)
	}
	n, err := s.w.Streetcodes().Count(ctx, opt)
	return n, storeError("streetcode", "count", err)
}

func (s *streetcodeService) IncrementViewCount(ctx context.Context, id int) (*domain.Streetcode, error) {
	sc, err := s.w.Streetcodes().Increment(ctx, id, "view_count")
	if err != nil {
		return nil, storeError("streetcode", "increment_view_count", err)
	}
	return sc, nil
}

// checkUnique rejects a streetcode whose index or transliteration URL is
// used by another streetcode.
func checkUnique(ctx context.Context, tx store.Wrapper, sc *domain.Streetcode) error {
	others := store.Where(store.KeyColumn, store.OpNe, sc.ID)
	taken, err := tx.Streetcodes().Exists(ctx, store.Eq("index", sc.Index), others)
	if err != nil {
		return err
	}
	if taken {
		return conflict("index", strconv.Itoa(sc.Index))
	}
	taken, err = tx.Streetcodes().Exists(ctx, store.Eq("transliteration_url", sc.TransliterationURL), others)
	if err != nil {
		return err
	}
	if taken {
		return conflict("transliteration_url", sc.TransliterationURL)
	}
	if sc.AudioID != nil {
		return ensureExists(ctx, tx.Audios(), "audio_id", *sc.AudioID)
	}
	return nil
}

func (s *streetcodeService) Create(ctx context.Context, content *StreetcodeContent) (*domain.Streetcode, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if content == nil {
		return nil, domain.NewValidationError("streetcode", "is required", nil)
	}

	sc := content.Streetcode
	sc.ID = 0
	sc.ViewCount = 0
	sc.TransliterationURL = strings.ToLower(sc.TransliterationURL)
	if sc.Status == "" {
		sc.Status = domain.StreetcodeStatusDraft
	}
	sc.CreatedAt = s.now()
	sc.UpdatedAt = sc.CreatedAt
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if err := checkUnique(ctx, tx, &sc); err != nil {
			return err
		}
		if err := tx.Streetcodes().Create(ctx, &sc); err != nil {
			return err
		}
		return createContent(ctx, tx, sc.ID, content)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) && !errors.Is(err, ErrConflict) {
			log.Error("failed to create streetcode", slog.String("error", err.Error()))
		}
		return nil, storeError("streetcode", "create", err)
	}

	log.Info("streetcode created",
		slog.Int("streetcode_id", sc.ID),
		slog.Int("index", sc.Index),
		slog.Int("facts", len(content.Facts)))
	return &sc, nil
}

// createContent stores every part of content for streetcode id. The
// entities in content receive their generated IDs.
func createContent(ctx context.Context, tx store.Wrapper, id int, content *StreetcodeContent) error {
	if t := content.Text; t != nil {
		t.ID, t.StreetcodeID = 0, id
		if err := t.Validate(); err != nil {
			return err
		}
		if err := tx.Texts().Create(ctx, t); err != nil {
			return err
		}
	}

	for i, f := range content.Facts {
		f.ID, f.StreetcodeID, f.Number = 0, id, i+1
		if err := f.Validate(); err != nil {
			return err
		}
		if f.ImageID != nil {
			if err := ensureExists(ctx, tx.Images(), "image_id", *f.ImageID); err != nil {
				return err
			}
		}
	}
	if len(content.Facts) > 0 {
		if err := tx.Facts().CreateRange(ctx, content.Facts); err != nil {
			return err
		}
	}

	for _, item := range content.TimelineItems {
		item.ID, item.StreetcodeID = 0, id
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if len(content.TimelineItems) > 0 {
		if err := tx.TimelineItems().CreateRange(ctx, content.TimelineItems); err != nil {
			return err
		}
	}

	for _, c := range content.Coordinates {
		c.ID, c.StreetcodeID = 0, id
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if len(content.Coordinates) > 0 {
		if err := tx.Coordinates().CreateRange(ctx, content.Coordinates); err != nil {
			return err
		}
	}

	for _, v := range content.Videos {
		v.ID, v.StreetcodeID = 0, id
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if len(content.Videos) > 0 {
		if err := tx.Videos().CreateRange(ctx, content.Videos); err != nil {
			return err
		}
	}

	for _, c := range content.Categories {
		c.ID, c.StreetcodeID = 0, id
		if err := c.Validate(); err != nil {
			return err
		}
		if err := ensureExists(ctx, tx.SourceCategories(), "source_link_category_id", c.SourceLinkCategoryID); err != nil {
			return err
		}
		if err := tx.CategoryContents().Create(ctx, c); err != nil {
			return err
		}
	}

	return createLinks(ctx, tx, id, content)
}

func createLinks(ctx context.Context, tx store.Wrapper, id int, content *StreetcodeContent) error {
	imageIDs := uniqueIDs(content.ImageIDs)
	if err := ensureAllExist(ctx, tx.Images(), store.ImagesTable, "image_ids", imageIDs); err != nil {
		return err
	}
	for _, imageID := range imageIDs {
		link := &domain.StreetcodeImage{StreetcodeID: id, ImageID: imageID}
		if err := tx.StreetcodeImages().Create(ctx, link); err != nil {
			return err
		}
	}

	next := 1
	for _, p := range content.Arts {
		if err := ensureExists(ctx, tx.Arts(), "art_id", p.ArtID); err != nil {
			return err
		}
		index := p.Index
		if index <= 0 {
			index = next
		}
		next = index + 1
		link := &domain.StreetcodeArt{StreetcodeID: id, ArtID: p.ArtID, Index: index}
		if err := tx.StreetcodeArts().Create(ctx, link); err != nil {
			return err
		}
	}

	partnerIDs := uniqueIDs(content.PartnerIDs)
	if err := ensureAllExist(ctx, tx.Partners(), store.PartnersTable, "partner_ids", partnerIDs); err != nil {
		return err
	}
	for _, partnerID := range partnerIDs {
		link := &domain.StreetcodePartner{StreetcodeID: id, PartnerID: partnerID}
		if err := tx.StreetcodePartners().Create(ctx, link); err != nil {
			return err
		}
	}

	toponymIDs := uniqueIDs(content.ToponymIDs)
	if err := ensureAllExist(ctx, tx.Toponyms(), store.ToponymsTable, "toponym_ids", toponymIDs); err != nil {
		return err
	}
	for _, toponymID := range toponymIDs {
		link := &domain.StreetcodeToponym{StreetcodeID: id, ToponymID: toponymID}
		if err := tx.StreetcodeToponyms().Create(ctx, link); err != nil {
			return err
		}
	}
	return nil
}

func (s *streetcodeService) Update(ctx context.Context, streetcode *domain.Streetcode) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		current, err := tx.Streetcodes().GetByID(ctx, streetcode.ID)
		if err != nil {
			return err
		}
		streetcode.TransliterationURL = strings.ToLower(streetcode.TransliterationURL)
		streetcode.ViewCount = current.ViewCount
		streetcode.CreatedAt = current.CreatedAt
		streetcode.UpdatedAt = s.now()
		if streetcode.Status == "" {
			streetcode.Status = current.Status
		}
		if err := streetcode.Validate(); err != nil {
			return err
		}
		if err := checkUnique(ctx, tx, streetcode); err != nil {
			return err
		}
		return tx.Streetcodes().Update(ctx, streetcode)
	})
	return storeError("streetcode", "update", err)
}

func (s *streetcodeService) UpdateStatus(ctx context.Context, id int, status domain.StreetcodeStatus) error {
	if !domain.IsValidStreetcodeStatus(status) {
		return domain.NewValidationError("status", "is not a valid streetcode status", nil)
	}
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		sc, err := tx.Streetcodes().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sc.Status == status {
			return nil
		}
		sc.Status = status
		sc.UpdatedAt = s.now()
		return tx.Streetcodes().Update(ctx, sc)
	})
	if err != nil {
		return storeError("streetcode", "update_status", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("streetcode status changed",
		slog.Int("streetcode_id", id),
		slog.String("status", string(status)))
	return nil
}

func (s *streetcodeService) SoftDelete(ctx context.Context, id int) error {
	return s.UpdateStatus(ctx, id, domain.StreetcodeStatusDeleted)
}

func (s *streetcodeService) Delete(ctx context.Context, id int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var audioBlob string
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		sc, err := tx.Streetcodes().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := deleteContent(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Streetcodes().Delete(ctx, id); err != nil {
			return err
		}
		if sc.AudioID == nil {
			return nil
		}
		audio, err := tx.Audios().GetByID(ctx, *sc.AudioID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}
		audioBlob = audio.BlobName
		return tx.Audios().Delete(ctx, audio.ID)
	})
	if err != nil {
		return storeError("streetcode", "delete", err)
	}

	removeBlob(ctx, s.blobs, s.logger, audioBlob)
	log.Info("streetcode deleted", slog.Int("streetcode_id", id))
	return nil
}

// deleteContent removes every row owned by streetcode id. Statistic records
// go before the coordinates they reference.
func deleteContent(ctx context.Context, tx store.Wrapper, id int) error {
	byStreetcode := store.Eq("streetcode_id", id)
	steps := []func() (int64, error){
		func() (int64, error) { return tx.Texts().DeleteWhere(ctx, byStreetcode) },
		func() (int64, error) { return tx.Facts().DeleteWhere(ctx, byStreetcode) },
		func() (int64, error) { return tx.TimelineItems().DeleteWhere(ctx, byStreetcode) },
		func() (int64, error) { return tx.StatisticRecords().DeleteWhere(ctx, byStreetcode) },
		func() (int64, error) { return tx.Coordinates().DeleteWhere(ctx, byStreetcode) },
		func() (int64, error) { return tx.Videos().DeleteWhere(ctx, byStreetcode) },
		func() (int64, error) { return tx.CategoryContents().DeleteWhere(ctx, byStreetcode) },
		func() (int64, error) { return tx.StreetcodeImages().DeleteWhere(ctx, byStreetcode) },
		func() (int64, error) { return tx.StreetcodeArts().DeleteWhere(ctx, byStreetcode) },
		func() (int64, error) { return tx.StreetcodePartners().DeleteWhere(ctx, byStreetcode) },
		func() (int64, error) { return tx.StreetcodeToponyms().DeleteWhere(ctx, byStreetcode) },
	}
	for _, step := range steps {
		if _, err := step(); err != nil {
			return err
		}
	}
	return nil
}
