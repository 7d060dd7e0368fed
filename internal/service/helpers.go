package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", component))
}

// ensureExists returns a validation error when the row referenced by
// field does not exist.
func ensureExists[T any](ctx context.Context, repo store.Repository[T], field string, id int) error {
	ok, err := repo.Exists(ctx, store.Eq(store.KeyColumn, id))
	if err != nil {
		return err
	}
	if !ok {
		return missingReference(field, id)
	}
	return nil
}

// ensureAllExist is ensureExists for a list of references.
func ensureAllExist[T any](
	ctx context.Context,
	repo store.Repository[T],
	table store.Table[T],
	field string,
	ids []int,
) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	rows, err := repo.GetAll(ctx, store.In(store.KeyColumn, ids...))
	if err != nil {
		return err
	}
	found := table.IDs(rows)
	for _, id := range ids {
		if !slices.Contains(found, id) {
			return missingReference(field, id)
		}
	}
	return nil
}

// ensureStreetcode returns store.ErrNotFound when the streetcode addressed
// by the operation does not exist.
func ensureStreetcode(ctx context.Context, w store.Wrapper, id int) error {
	ok, err := w.Streetcodes().Exists(ctx, store.Eq(store.KeyColumn, id))
	if err != nil {
		return err
	}
	if !ok {
		return store.StreetcodesTable.NotFound()
	}
	return nil
}

func uniqueIDs(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// pages returns how many pages of size hold total rows.
func pages(total, size int) int {
	if size <= 0 {
		if total == 0 {
			return 0
		}
		return 1
	}
	return (total + size - 1) / size
}
