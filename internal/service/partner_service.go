package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// PartnerShort is the compact form of a partner used in pickers.
type PartnerShort struct {
	ID    int
	Title string
}

// PartnerService manages partners, their social links and the streetcodes
// they support.
type PartnerService interface {
	GetAll(ctx context.Context) ([]*domain.Partner, error)
	GetAllShort(ctx context.Context) ([]PartnerShort, error)
	GetByID(ctx context.Context, id int) (*domain.Partner, error)
	// GetByStreetcodeID returns the partners linked to a streetcode plus
	// every partner visible everywhere.
	GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.Partner, error)
	// Create stores the partner with its source links and streetcode links.
	Create(ctx context.Context, partner *domain.Partner) error
	// Update replaces the partner, its source links and its streetcode links.
	Update(ctx context.Context, partner *domain.Partner) error
	Delete(ctx context.Context, id int) error
}

type partnerService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewPartnerService creates a PartnerService.
func NewPartnerService(w store.Wrapper, logger *slog.Logger) (PartnerService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &partnerService{w: w, logger: componentLogger(logger, "partner_service")}, nil
}

var partnerRelations = store.Include(store.RelPartnerSourceLinks, store.RelPartnerStreetcodes)

func (s *partnerService) GetAll(ctx context.Context) ([]*domain.Partner, error) {
	partners, err := s.w.Partners().GetAll(ctx, partnerRelations, store.OrderBy("title"))
	return partners, storeError("partner", "get_all", err)
}

func (s *partnerService) GetAllShort(ctx context.Context) ([]PartnerShort, error) {
	partners, err := s.w.Partners().GetAll(ctx, store.OrderBy("title"))
	if err != nil {
		return nil, storeError("partner", "get_all_short", err)
	}
	out := make([]PartnerShort, len(partners))
	for i, p := range partners {
		out[i] = PartnerShort{ID: p.ID, Title: p.Title}
	}
	return out, nil
}

func (s *partnerService) GetByID(ctx context.Context, id int) (*domain.Partner, error) {
	partner, err := s.w.Partners().GetByID(ctx, id, partnerRelations)
	if err != nil {
		return nil, storeError("partner", "get", err)
	}
	return partner, nil
}

func (s *partnerService) GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*domain.Partner, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("partner", "get_by_streetcode", err)
	}
	links, err := s.w.StreetcodePartners().GetAll(ctx, store.Eq("streetcode_id", streetcodeID))
	if err != nil {
		return nil, storeError("partner", "get_by_streetcode", err)
	}
	ids := make([]int, len(links))
	for i, l := range links {
		ids[i] = l.PartnerID
	}
	linked, err := s.w.Partners().GetAll(ctx, store.In(store.KeyColumn, ids...), partnerRelations)
	if err != nil {
		return nil, storeError("partner", "get_by_streetcode", err)
	}
	everywhere, err := s.w.Partners().GetAll(ctx, store.Eq("is_visible_everywhere", true), partnerRelations)
	if err != nil {
		return nil, storeError("partner", "get_by_streetcode", err)
	}

	seen := make(map[int]bool, len(linked)+len(everywhere))
	out := make([]*domain.Partner, 0, len(linked)+len(everywhere))
	for _, p := range append(linked, everywhere...) {
		if !seen[p.ID] {
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *partnerService) validate(ctx context.Context, w store.Wrapper, partner *domain.Partner) error {
	if err := partner.Validate(); err != nil {
		return err
	}
	taken, err := w.Partners().Exists(ctx,
		store.Eq("title", partner.Title), store.Where(store.KeyColumn, store.OpNe, partner.ID))
	if err != nil {
		return err
	}
	if taken {
		return conflict("title", partner.Title)
	}
	if err := ensureExists(ctx, w.Images(), "logo_id", partner.LogoID); err != nil {
		return err
	}
	return ensureAllExist(ctx, w.Streetcodes(), store.StreetcodesTable, "streetcode_ids", partner.StreetcodeIDs)
}

// saveRelations writes the source links and streetcode links of partner.
func saveRelations(ctx context.Context, w store.Wrapper, partner *domain.Partner) error {
	links := make([]*domain.PartnerSourceLink, len(partner.SourceLinks))
	for i := range partner.SourceLinks {
		partner.SourceLinks[i].ID = 0
		partner.SourceLinks[i].PartnerID = partner.ID
		links[i] = &partner.SourceLinks[i]
	}
	if err := w.PartnerSourceLinks().CreateRange(ctx, links); err != nil {
		return err
	}
	partner.StreetcodeIDs = uniqueIDs(partner.StreetcodeIDs)
	joins := make([]*domain.StreetcodePartner, len(partner.StreetcodeIDs))
	for i, id := range partner.StreetcodeIDs {
		joins[i] = &domain.StreetcodePartner{StreetcodeID: id, PartnerID: partner.ID}
	}
	return w.StreetcodePartners().CreateRange(ctx, joins)
}

func clearRelations(ctx context.Context, w store.Wrapper, partnerID int) error {
	if _, err := w.PartnerSourceLinks().DeleteWhere(ctx, store.Eq("partner_id", partnerID)); err != nil {
		return err
	}
	_, err := w.StreetcodePartners().DeleteWhere(ctx, store.Eq("partner_id", partnerID))
	return err
}

func (s *partnerService) Create(ctx context.Context, partner *domain.Partner) error {
	partner.ID = 0
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if err := s.validate(ctx, tx, partner); err != nil {
			return err
		}
		if err := tx.Partners().Create(ctx, partner); err != nil {
			return err
		}
		return saveRelations(ctx, tx, partner)
	})
	if err != nil {
		return storeError("partner", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("partner created",
		slog.Int("partner_id", partner.ID),
		slog.Int("source_links", len(partner.SourceLinks)),
		slog.Int("streetcodes", len(partner.StreetcodeIDs)))
	return nil
}

func (s *partnerService) Update(ctx context.Context, partner *domain.Partner) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if _, err := tx.Partners().GetByID(ctx, partner.ID); err != nil {
			return err
		}
		if err := s.validate(ctx, tx, partner); err != nil {
			return err
		}
		if err := tx.Partners().Update(ctx, partner); err != nil {
			return err
		}
		if err := clearRelations(ctx, tx, partner.ID); err != nil {
			return err
		}
		return saveRelations(ctx, tx, partner)
	})
	if err != nil {
		return storeError("partner", "update", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("partner updated", slog.Int("partner_id", partner.ID))
	return nil
}

func (s *partnerService) Delete(ctx context.Context, id int) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if _, err := tx.Partners().GetByID(ctx, id); err != nil {
			return err
		}
		if err := clearRelations(ctx, tx, id); err != nil {
			return err
		}
		return tx.Partners().Delete(ctx, id)
	})
	if err != nil {
		return storeError("partner", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("partner deleted", slog.Int("partner_id", id))
	return nil
}
