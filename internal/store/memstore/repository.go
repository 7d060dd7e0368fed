package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// table holds the rows of one entity type.
type table[T any] struct {
	def    store.Table[T]
	rows   map[int]*T
	nextID int
}

func newTable[T any](def store.Table[T]) *table[T] {
	return &table[T]{def: def, rows: make(map[int]*T), nextID: 1}
}

// clone copies the persisted columns of src into a fresh entity. Relation
// fields are not persisted and are left zero.
func (t *table[T]) clone(src *T) *T {
	dst := t.def.New()
	*t.def.Key(dst) = *t.def.Key(src)
	for _, c := range t.def.Columns {
		copyField(c.Field(dst), c.Field(src))
	}
	return dst
}

// snapshot captures the table and returns a function restoring it.
func (t *table[T]) snapshot() func() {
	rows := make(map[int]*T, len(t.rows))
	for id, row := range t.rows {
		rows[id] = t.clone(row)
	}
	nextID := t.nextID
	return func() {
		t.rows = rows
		t.nextID = nextID
	}
}

func (t *table[T]) value(row *T, column string) (any, bool) {
	ptr, _ := t.def.FieldPtr(row, column)
	return normalize(ptr)
}

func (t *table[T]) matches(row *T, conds []store.Condition) bool {
	for _, c := range conds {
		if !t.match(row, c) {
			return false
		}
	}
	return true
}

func (t *table[T]) match(row *T, c store.Condition) bool {
	v, isNull := t.value(row, c.Column)
	if c.Op == store.OpIsNull {
		return isNull
	}
	if isNull {
		return false
	}
	switch c.Op {
	case store.OpIn:
		for _, candidate := range c.Value.([]any) {
			want, null := normalize(candidate)
			if null {
				continue
			}
			if cmp, ok := compare(v, want); ok && cmp == 0 {
				return true
			}
		}
		return false
	case store.OpContains:
		s, ok := v.(string)
		sub, _ := normalize(c.Value)
		subStr, subOK := sub.(string)
		return ok && subOK && containsFold(s, subStr)
	}

	want, null := normalize(c.Value)
	if null {
		return false
	}
	cmp, ok := compare(v, want)
	if !ok {
		return false
	}
	switch c.Op {
	case store.OpEq:
		return cmp == 0
	case store.OpNe:
		return cmp != 0
	case store.OpGt:
		return cmp > 0
	case store.OpGte:
		return cmp >= 0
	case store.OpLt:
		return cmp < 0
	case store.OpLte:
		return cmp <= 0
	default:
		return false
	}
}

// sorted returns matching rows ordered by q.Orders then by ID. NULLs sort
// last in ascending order and first in descending order.
func (t *table[T]) sorted(q store.Query) []*T {
	out := make([]*T, 0, len(t.rows))
	for _, row := range t.rows {
		if t.matches(row, q.Conditions) {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range q.Orders {
			a, aNull := t.value(out[i], o.Column)
			b, bNull := t.value(out[j], o.Column)
			var cmp int
			switch {
			case aNull && bNull:
				cmp = 0
			case aNull:
				cmp = 1
			case bNull:
				cmp = -1
			default:
				cmp, _ = compare(a, b)
			}
			if o.Desc {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return *t.def.Key(out[i]) < *t.def.Key(out[j])
	})
	return out
}

// checkUnique returns ErrDuplicate when entity collides with another row on
// one of the table's unique column sets.
func (t *table[T]) checkUnique(entity *T) error {
	id := *t.def.Key(entity)
	for _, cols := range t.def.Unique {
	rows:
		for otherID, other := range t.rows {
			if otherID == id {
				continue
			}
			for _, col := range cols {
				a, aNull := t.value(entity, col)
				b, bNull := t.value(other, col)
				if aNull || bNull {
					continue rows
				}
				if cmp, ok := compare(a, b); !ok || cmp != 0 {
					continue rows
				}
			}
			return fmt.Errorf("%w: %s (%s)", store.ErrDuplicate, t.def.Entity, strings.Join(cols, ", "))
		}
	}
	return nil
}

// repository implements store.Repository over a table.
type repository[T any] struct {
	db    *database
	data  *table[T]
	owner store.Wrapper
}

var _ store.Repository[domain.Fact] = (*repository[domain.Fact])(nil)

func (r *repository[T]) query(opts []store.Option) (store.Query, error) {
	q := store.BuildQuery(opts...)
	if err := r.data.def.Check(q); err != nil {
		return q, err
	}
	return q, nil
}

func (r *repository[T]) find(ctx context.Context, q store.Query) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	rows := r.data.sorted(q)
	if q.Offset > 0 {
		if q.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[q.Offset:]
		}
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	out := make([]*T, len(rows))
	for i, row := range rows {
		out[i] = r.data.clone(row)
	}
	r.db.mu.RUnlock()

	if err := r.data.def.LoadRelations(ctx, r.owner, out, q.Includes); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository[T]) GetAll(ctx context.Context, opts ...store.Option) ([]*T, error) {
	q, err := r.query(opts)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, q)
}

func (r *repository[T]) GetFirst(ctx context.Context, opts ...store.Option) (*T, error) {
	q, err := r.query(opts)
	if err != nil {
		return nil, err
	}
	q.Limit = 1
	rows, err := r.find(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, r.data.def.NotFound()
	}
	return rows[0], nil
}

func (r *repository[T]) GetByID(ctx context.Context, id int, opts ...store.Option) (*T, error) {
	return r.GetFirst(ctx, append([]store.Option{store.Eq(store.KeyColumn, id)}, opts...)...)
}

func (r *repository[T]) Exists(ctx context.Context, opts ...store.Option) (bool, error) {
	n, err := r.Count(ctx, opts...)
	return n > 0, err
}

func (r *repository[T]) Count(ctx context.Context, opts ...store.Option) (int, error) {
	q, err := r.query(opts)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	n := 0
	for _, row := range r.data.rows {
		if r.data.matches(row, q.Conditions) {
			n++
		}
	}
	return n, nil
}

func (r *repository[T]) Create(ctx context.Context, entity *T) error {
	return r.CreateRange(ctx, []*T{entity})
}

func (r *repository[T]) CreateRange(ctx context.Context, entities []*T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	firstID := r.data.nextID
	assigned := make([]int, 0, len(entities))
	for _, entity := range entities {
		row := r.data.clone(entity)
		*r.data.def.Key(row) = r.data.nextID
		if err := r.data.checkUnique(row); err != nil {
			for _, id := range assigned {
				delete(r.data.rows, id)
			}
			r.data.nextID = firstID
			return err
		}
		r.data.rows[r.data.nextID] = row
		assigned = append(assigned, r.data.nextID)
		r.data.nextID++
	}
	for i, entity := range entities {
		*r.data.def.Key(entity) = assigned[i]
	}
	return nil
}

func (r *repository[T]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	id := *r.data.def.Key(entity)
	if _, ok := r.data.rows[id]; !ok {
		return r.data.def.NotFound()
	}
	row := r.data.clone(entity)
	if err := r.data.checkUnique(row); err != nil {
		return err
	}
	r.data.rows[id] = row
	return nil
}

func (r *repository[T]) Increment(ctx context.Context, id int, column string) (*T, error) {
	if err := r.data.def.CheckCounter(column); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.data.rows[id]
	if !ok {
		return nil, r.data.def.NotFound()
	}
	ptr, _ := r.data.def.FieldPtr(row, column)
	switch v := ptr.(type) {
	case *int:
		*v++
	case *int64:
		*v++
	default:
		return nil, fmt.Errorf("%w: %s.%s is not an integer", store.ErrInvalidQuery, r.data.def.Name, column)
	}
	return r.data.clone(row), nil
}

func (r *repository[T]) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.data.rows[id]; !ok {
		return r.data.def.NotFound()
	}
	delete(r.data.rows, id)
	return nil
}

func (r *repository[T]) DeleteWhere(ctx context.Context, opts ...store.Option) (int64, error) {
	q, err := r.query(opts)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	ids := make([]int, 0)
	for id, row := range r.data.rows {
		if r.data.matches(row, q.Conditions) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		delete(r.data.rows, id)
	}
	return int64(len(ids)), nil
}
