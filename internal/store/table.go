package store

import (
	"context"
	"fmt"
	"slices"
)

// KeyColumn is the primary key column shared by every table.
const KeyColumn = "id"

// Column binds a table column to a field of T. Field returns a pointer to
// the field so implementations can both read and scan into it.
type Column[T any] struct {
	Name  string
	Field func(*T) any
}

// Relation loads related data into items using repositories from w.
type Relation[T any] func(ctx context.Context, w Wrapper, items []*T) error

// Table describes how an entity maps onto a relational table. It is shared
// by the postgres and in-memory repository implementations.
type Table[T any] struct {
	Name   string
	Entity string
	Key    func(*T) *int
	// Columns lists every persisted column except the key.
	Columns   []Column[T]
	Relations map[string]Relation[T]
	// Unique lists column sets that must be unique across rows. NULL values
	// never conflict.
	Unique [][]string
}

// New returns a zero entity.
func (t Table[T]) New() *T {
	return new(T)
}

// ColumnNames returns the persisted column names, key first.
func (t Table[T]) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns)+1)
	names = append(names, KeyColumn)
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// HasColumn reports whether name is the key or a declared column.
func (t Table[T]) HasColumn(name string) bool {
	if name == KeyColumn {
		return true
	}
	return slices.ContainsFunc(t.Columns, func(c Column[T]) bool { return c.Name == name })
}

// CheckCounter rejects columns Increment cannot apply to.
func (t Table[T]) CheckCounter(column string) error {
	if column == KeyColumn || !t.HasColumn(column) {
		return fmt.Errorf("%w: %s has no counter column %q", ErrInvalidQuery, t.Name, column)
	}
	return nil
}

// FieldPtr returns a pointer to the field bound to column name.
func (t Table[T]) FieldPtr(entity *T, name string) (any, bool) {
	if name == KeyColumn {
		return t.Key(entity), true
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Field(entity), true
		}
	}
	return nil, false
}

// NotFound returns ErrNotFound annotated with the table's entity name.
func (t Table[T]) NotFound() error {
	return NotFound(t.Entity)
}

// Check rejects queries that reference unknown columns or relations.
func (t Table[T]) Check(q Query) error {
	for _, c := range q.Conditions {
		if !t.HasColumn(c.Column) {
			return fmt.Errorf("%w: %s has no column %q", ErrInvalidQuery, t.Name, c.Column)
		}
		switch c.Op {
		case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpContains, OpIsNull:
		case OpIn:
			if _, ok := c.Value.([]any); !ok {
				return fmt.Errorf("%w: IN on %q needs a list", ErrInvalidQuery, c.Column)
			}
		default:
			return fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, c.Op)
		}
	}
	for _, o := range q.Orders {
		if !t.HasColumn(o.Column) {
			return fmt.Errorf("%w: %s has no column %q", ErrInvalidQuery, t.Name, o.Column)
		}
	}
	for _, rel := range q.Includes {
		if _, ok := t.Relations[rel]; !ok {
			return fmt.Errorf("%w: %s has no relation %q", ErrInvalidQuery, t.Name, rel)
		}
	}
	if q.Limit < 0 || q.Offset < 0 {
		return fmt.Errorf("%w: negative limit or offset", ErrInvalidQuery)
	}
	return nil
}

// LoadRelations runs every included relation over items.
func (t Table[T]) LoadRelations(ctx context.Context, w Wrapper, items []*T, includes []string) error {
	if len(items) == 0 {
		return nil
	}
	for _, name := range includes {
		load, ok := t.Relations[name]
		if !ok {
			return fmt.Errorf("%w: %s has no relation %q", ErrInvalidQuery, t.Name, name)
		}
		if err := load(ctx, w, items); err != nil {
			return fmt.Errorf("failed to load %s.%s: %w", t.Name, name, err)
		}
	}
	return nil
}

// IDs returns the keys of items.
func (t Table[T]) IDs(items []*T) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = *t.Key(item)
	}
	return ids
}
