package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

func TestSourceService_Categories(t *testing.T) {
	f := newFixture(t)
	svc, err := service.NewSourceService(f.w, testLogger())
	require.NoError(t, err)

	img := f.image("books")
	books := &domain.SourceLinkCategory{Title: "Books", ImageID: img.ID}
	require.NoError(t, svc.Create(f.ctx, books))

	assert.ErrorIs(t, svc.Create(f.ctx, &domain.SourceLinkCategory{Title: "Books", ImageID: img.ID}), service.ErrConflict)
	assert.ErrorIs(t, svc.Create(f.ctx, &domain.SourceLinkCategory{Title: "Films", ImageID: 999}), domain.ErrValidation)

	books.Title = "Literature"
	require.NoError(t, svc.Update(f.ctx, books))
	got, err := svc.GetByID(f.ctx, books.ID)
	require.NoError(t, err)
	assert.Equal(t, "Literature", got.Title)

	assert.ErrorIs(t, svc.Update(f.ctx, &domain.SourceLinkCategory{ID: 999, Title: "x", ImageID: img.ID}), store.ErrNotFound)
}

func TestSourceService_Content(t *testing.T) {
	f := newFixture(t)
	svc, err := service.NewSourceService(f.w, testLogger())
	require.NoError(t, err)

	sc := f.streetcode(1, "sc")
	img := f.image("books")
	category := &domain.SourceLinkCategory{Title: "Books", ImageID: img.ID}
	require.NoError(t, svc.Create(f.ctx, category))

	content := &domain.StreetcodeCategoryContent{Text: "Kobzar", SourceLinkCategoryID: category.ID, StreetcodeID: sc.ID}
	require.NoError(t, svc.UpsertContent(f.ctx, content))
	firstID := content.ID

	again := &domain.StreetcodeCategoryContent{Text: "Kobzar, 1840", SourceLinkCategoryID: category.ID, StreetcodeID: sc.ID}
	require.NoError(t, svc.UpsertContent(f.ctx, again))
	assert.Equal(t, firstID, again.ID, "upsert must update the existing content")

	got, err := svc.GetContent(f.ctx, sc.ID, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kobzar, 1840", got.Text)

	categories, err := svc.GetByStreetcodeID(f.ctx, sc.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, category.ID, categories[0].ID)

	err = svc.UpsertContent(f.ctx, &domain.StreetcodeCategoryContent{Text: "x", SourceLinkCategoryID: category.ID, StreetcodeID: 999})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.DeleteContent(f.ctx, sc.ID, category.ID))
	assert.ErrorIs(t, svc.DeleteContent(f.ctx, sc.ID, category.ID), store.ErrNotFound)

	require.NoError(t, svc.UpsertContent(f.ctx, &domain.StreetcodeCategoryContent{
		Text: "again", SourceLinkCategoryID: category.ID, StreetcodeID: sc.ID,
	}))
	require.NoError(t, svc.Delete(f.ctx, category.ID))
	_, err = svc.GetContent(f.ctx, sc.ID, category.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "deleting a category removes its contents")
}
