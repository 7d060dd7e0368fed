package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// TeamService manages team members, their links and positions.
type TeamService interface {
	GetAll(ctx context.Context) ([]*domain.TeamMember, error)
	// GetAllMain returns the members shown on the main page.
	GetAllMain(ctx context.Context) ([]*domain.TeamMember, error)
	GetByID(ctx context.Context, id int) (*domain.TeamMember, error)
	Create(ctx context.Context, member *domain.TeamMember) error
	// Update replaces the member together with its links and positions.
	Update(ctx context.Context, member *domain.TeamMember) error
	Delete(ctx context.Context, id int) error

	GetAllPositions(ctx context.Context) ([]*domain.Position, error)
	CreatePosition(ctx context.Context, position *domain.Position) error
}

type teamService struct {
	w      store.Wrapper
	logger *slog.Logger
}

// NewTeamService creates a TeamService.
func NewTeamService(w store.Wrapper, logger *slog.Logger) (TeamService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	return &teamService{w: w, logger: componentLogger(logger, "team_service")}, nil
}

var teamRelations = store.Include(store.RelTeamMemberLinks, store.RelTeamMemberPosition)

func (s *teamService) GetAll(ctx context.Context) ([]*domain.TeamMember, error) {
	members, err := s.w.TeamMembers().GetAll(ctx, teamRelations, store.OrderBy(store.KeyColumn))
	return members, storeError("team member", "get_all", err)
}

func (s *teamService) GetAllMain(ctx context.Context) ([]*domain.TeamMember, error) {
	members, err := s.w.TeamMembers().GetAll(ctx,
		store.Eq("is_main", true), teamRelations, store.OrderBy(store.KeyColumn))
	return members, storeError("team member", "get_all_main", err)
}

func (s *teamService) GetByID(ctx context.Context, id int) (*domain.TeamMember, error) {
	member, err := s.w.TeamMembers().GetByID(ctx, id, teamRelations)
	if err != nil {
		return nil, storeError("team member", "get", err)
	}
	return member, nil
}

func (s *teamService) validate(ctx context.Context, w store.Wrapper, member *domain.TeamMember) error {
	if err := member.Validate(); err != nil {
		return err
	}
	if err := ensureExists(ctx, w.Images(), "image_id", member.ImageID); err != nil {
		return err
	}
	return ensureAllExist(ctx, w.Positions(), store.PositionsTable, "position_ids", member.PositionIDs)
}

func saveMemberRelations(ctx context.Context, w store.Wrapper, member *domain.TeamMember) error {
	links := make([]*domain.TeamMemberLink, len(member.Links))
	for i := range member.Links {
		member.Links[i].ID = 0
		member.Links[i].TeamMemberID = member.ID
		links[i] = &member.Links[i]
	}
	if err := w.TeamMemberLinks().CreateRange(ctx, links); err != nil {
		return err
	}
	member.PositionIDs = uniqueIDs(member.PositionIDs)
	joins := make([]*domain.TeamMemberPosition, len(member.PositionIDs))
	for i, id := range member.PositionIDs {
		joins[i] = &domain.TeamMemberPosition{TeamMemberID: member.ID, PositionID: id}
	}
	return w.TeamMemberPositions().CreateRange(ctx, joins)
}

func clearMemberRelations(ctx context.Context, w store.Wrapper, memberID int) error {
	if _, err := w.TeamMemberLinks().DeleteWhere(ctx, store.Eq("team_member_id", memberID)); err != nil {
		return err
	}
	_, err := w.TeamMemberPositions().DeleteWhere(ctx, store.Eq("team_member_id", memberID))
	return err
}

func (s *teamService) Create(ctx context.Context, member *domain.TeamMember) error {
	member.ID = 0
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if err := s.validate(ctx, tx, member); err != nil {
			return err
		}
		if err := tx.TeamMembers().Create(ctx, member); err != nil {
			return err
		}
		return saveMemberRelations(ctx, tx, member)
	})
	if err != nil {
		return storeError("team member", "create", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("team member created", slog.Int("team_member_id", member.ID))
	return nil
}

func (s *teamService) Update(ctx context.Context, member *domain.TeamMember) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if _, err := tx.TeamMembers().GetByID(ctx, member.ID); err != nil {
			return err
		}
		if err := s.validate(ctx, tx, member); err != nil {
			return err
		}
		if err := tx.TeamMembers().Update(ctx, member); err != nil {
			return err
		}
		if err := clearMemberRelations(ctx, tx, member.ID); err != nil {
			return err
		}
		return saveMemberRelations(ctx, tx, member)
	})
	return storeError("team member", "update", err)
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	err := s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if _, err := tx.TeamMembers().GetByID(ctx, id); err != nil {
			return err
		}
		if err := clearMemberRelations(ctx, tx, id); err != nil {
			return err
		}
		return tx.TeamMembers().Delete(ctx, id)
	})
	if err != nil {
		return storeError("team member", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("team member deleted", slog.Int("team_member_id", id))
	return nil
}

func (s *teamService) GetAllPositions(ctx context.Context) ([]*domain.Position, error) {
	positions, err := s.w.Positions().GetAll(ctx, store.OrderBy("title"))
	return positions, storeError("position", "get_all", err)
}

func (s *teamService) CreatePosition(ctx context.Context, position *domain.Position) error {
	position.ID = 0
	if err := position.Validate(); err != nil {
		return err
	}
	taken, err := s.w.Positions().Exists(ctx, store.Eq("title", position.Title))
	if err != nil {
		return storeError("position", "create", err)
	}
	if taken {
		return conflict("title", position.Title)
	}
	return storeError("position", "create", s.w.Positions().Create(ctx, position))
}
