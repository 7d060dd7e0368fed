package store

import "context"

// Repository is the generic persistence contract implemented for every
// entity keyed by a serial integer ID.
type Repository[T any] interface {
	// GetAll returns every row matching opts, in the requested order.
	GetAll(ctx context.Context, opts ...Option) ([]*T, error)

	// GetFirst returns the first row matching opts or ErrNotFound.
	GetFirst(ctx context.Context, opts ...Option) (*T, error)

	// GetByID returns the row with the given ID or ErrNotFound.
	GetByID(ctx context.Context, id int, opts ...Option) (*T, error)

	// Exists reports whether any row matches opts.
	Exists(ctx context.Context, opts ...Option) (bool, error)

	// Count returns the number of rows matching opts. Limit and offset are ignored.
	Count(ctx context.Context, opts ...Option) (int, error)

	// Create inserts entity and assigns its ID.
	Create(ctx context.Context, entity *T) error

	// CreateRange inserts every entity and assigns their IDs.
	CreateRange(ctx context.Context, entities []*T) error

	// Update overwrites the row identified by the entity's ID.
	// Returns ErrNotFound when no such row exists.
	Update(ctx context.Context, entity *T) error

	// Increment adds one to an integer column of the row with the given ID
	// as a single write and returns the updated row. Returns ErrNotFound
	// when no such row exists.
	Increment(ctx context.Context, id int, column string) (*T, error)

	// Delete removes the row with the given ID. Returns ErrNotFound when
	// no such row exists.
	Delete(ctx context.Context, id int) error

	// DeleteWhere removes every row matching opts and returns how many
	// were removed.
	DeleteWhere(ctx context.Context, opts ...Option) (int64, error)
}
