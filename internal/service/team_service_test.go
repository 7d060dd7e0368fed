package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

func TestTeamService_Members(t *testing.T) {
	f := newFixture(t)
	svc, err := service.NewTeamService(f.w, testLogger())
	require.NoError(t, err)

	editor := &domain.Position{Title: "Editor"}
	require.NoError(t, svc.CreatePosition(f.ctx, editor))
	assert.ErrorIs(t, svc.CreatePosition(f.ctx, &domain.Position{Title: "Editor"}), service.ErrConflict)

	photo := f.image("photo")
	member := &domain.TeamMember{
		FirstName:   "Lesya",
		LastName:    "Ukrainka",
		IsMain:      true,
		ImageID:     photo.ID,
		Links:       []domain.TeamMemberLink{{LogoType: domain.LogoTypeFacebook, TargetURL: "https://facebook.com/lesya"}},
		PositionIDs: []int{editor.ID},
	}
	require.NoError(t, svc.Create(f.ctx, member))

	helper := &domain.TeamMember{FirstName: "Ivan", LastName: "Franko", ImageID: photo.ID}
	require.NoError(t, svc.Create(f.ctx, helper))

	main, err := svc.GetAllMain(f.ctx)
	require.NoError(t, err)
	require.Len(t, main, 1)
	assert.Equal(t, member.ID, main[0].ID)
	assert.Len(t, main[0].Links, 1)
	assert.Equal(t, []int{editor.ID}, main[0].PositionIDs)

	err = svc.Create(f.ctx, &domain.TeamMember{FirstName: "A", LastName: "B", ImageID: photo.ID, PositionIDs: []int{999}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	member.Links = nil
	member.PositionIDs = nil
	require.NoError(t, svc.Update(f.ctx, member))
	got, err := svc.GetByID(f.ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Links)
	assert.Empty(t, got.PositionIDs)

	require.NoError(t, svc.Delete(f.ctx, helper.ID))
	assert.ErrorIs(t, svc.Delete(f.ctx, helper.ID), store.ErrNotFound)

	all, err := svc.GetAll(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	positions, err := svc.GetAllPositions(f.ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 1)
}
