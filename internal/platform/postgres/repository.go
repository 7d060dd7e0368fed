package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/postgres"

// Repository implements store.Repository for one table.
type Repository[T any] struct {
	db     store.DBTX
	table  store.Table[T]
	owner  store.Wrapper
	logger *slog.Logger
	tracer trace.Tracer
}

// NewRepository creates a repository for table. owner resolves the
// repositories used by relation loaders and may be nil when the table has
// no relations.
func NewRepository[T any](db store.DBTX, table store.Table[T], owner store.Wrapper, logger *slog.Logger) *Repository[T] {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository[T]{
		db:     db,
		table:  table,
		owner:  owner,
		logger: logger.With(slog.String("component", "repository"), slog.String("table", table.Name)),
		tracer: otel.Tracer(tracerName),
	}
}

var _ store.Repository[struct{ ID int }] = (*Repository[struct{ ID int }])(nil)

func (r *Repository[T]) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "postgres."+r.table.Name+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.sql.table", r.table.Name),
			attribute.String("db.operation", op),
		))
}

// fail records err on the span, logs it and returns it annotated with the
// operation and entity.
func (r *Repository[T]) fail(ctx context.Context, span trace.Span, op string, err error) error {
	mapped := MapError(err)
	if store.IsNotFoundError(mapped) {
		return mapped
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	logger.FromContextOrDefault(ctx, r.logger).Error("database operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return fmt.Errorf("failed to %s %s: %w", op, r.table.Entity, mapped)
}

func (r *Repository[T]) query(opts []store.Option) (store.Query, error) {
	q := store.BuildQuery(opts...)
	if err := r.table.Check(q); err != nil {
		return q, err
	}
	return q, nil
}

// GetAll implements store.Repository.
func (r *Repository[T]) GetAll(ctx context.Context, opts ...store.Option) ([]*T, error) {
	ctx, span := r.start(ctx, "select")
	defer span.End()

	q, err := r.query(opts)
	if err != nil {
		return nil, err
	}
	st := selectSQL(r.table, q)

	rows, err := r.db.QueryContext(ctx, st.String(), st.args...)
	if err != nil {
		return nil, r.fail(ctx, span, "list", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*T
	for rows.Next() {
		item := r.table.New()
		if err := rows.Scan(r.scanTargets(item)...); err != nil {
			return nil, r.fail(ctx, span, "scan", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(ctx, span, "list", err)
	}
	span.SetAttributes(attribute.Int("db.rows", len(items)))

	if len(q.Includes) > 0 {
		if err := r.table.LoadRelations(ctx, r.owner, items, q.Includes); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *Repository[T]) scanTargets(item *T) []any {
	targets := make([]any, 0, len(r.table.Columns)+1)
	targets = append(targets, r.table.Key(item))
	for _, c := range r.table.Columns {
		targets = append(targets, c.Field(item))
	}
	return targets
}

// GetFirst implements store.Repository.
func (r *Repository[T]) GetFirst(ctx context.Context, opts ...store.Option) (*T, error) {
	items, err := r.GetAll(ctx, append(opts, store.Limit(1))...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, r.table.NotFound()
	}
	return items[0], nil
}

// GetByID implements store.Repository.
func (r *Repository[T]) GetByID(ctx context.Context, id int, opts ...store.Option) (*T, error) {
	return r.GetFirst(ctx, append([]store.Option{store.Eq(store.KeyColumn, id)}, opts...)...)
}

// Exists implements store.Repository.
func (r *Repository[T]) Exists(ctx context.Context, opts ...store.Option) (bool, error) {
	ctx, span := r.start(ctx, "exists")
	defer span.End()

	q, err := r.query(opts)
	if err != nil {
		return false, err
	}
	st := existsSQL(r.table, q)

	var exists bool
	if err := r.db.QueryRowContext(ctx, st.String(), st.args...).Scan(&exists); err != nil {
		return false, r.fail(ctx, span, "check", err)
	}
	return exists, nil
}

// Count implements store.Repository.
func (r *Repository[T]) Count(ctx context.Context, opts ...store.Option) (int, error) {
	ctx, span := r.start(ctx, "count")
	defer span.End()

	q, err := r.query(opts)
	if err != nil {
		return 0, err
	}
	st := countSQL(r.table, q)

	var n int
	if err := r.db.QueryRowContext(ctx, st.String(), st.args...).Scan(&n); err != nil {
		return 0, r.fail(ctx, span, "count", err)
	}
	return n, nil
}

// Create implements store.Repository.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.CreateRange(ctx, []*T{entity})
}

// CreateRange implements store.Repository. Large batches are split into
// several statements; run it inside RunInTx when all rows must land together.
func (r *Repository[T]) CreateRange(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	ctx, span := r.start(ctx, "insert")
	defer span.End()
	span.SetAttributes(attribute.Int("db.rows", len(entities)))

	size := insertBatchSize(r.table)
	for from := 0; from < len(entities); from += size {
		batch := entities[from:min(from+size, len(entities))]
		if err := r.insert(ctx, batch); err != nil {
			return r.fail(ctx, span, "create", err)
		}
	}
	return nil
}

func (r *Repository[T]) insert(ctx context.Context, batch []*T) error {
	st := insertSQL(r.table, batch)
	rows, err := r.db.QueryContext(ctx, st.String(), st.args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	i := 0
	for rows.Next() {
		if i >= len(batch) {
			return errors.New("insert returned more keys than rows")
		}
		if err := rows.Scan(r.table.Key(batch[i])); err != nil {
			return err
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if i != len(batch) {
		return fmt.Errorf("insert returned %d keys for %d rows", i, len(batch))
	}
	return nil
}

// Update implements store.Repository.
func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	ctx, span := r.start(ctx, "update")
	defer span.End()

	st := updateSQL(r.table, entity)
	result, err := r.db.ExecContext(ctx, st.String(), st.args...)
	if err != nil {
		return r.fail(ctx, span, "update", err)
	}
	return CheckRowsAffected(result, r.table.Entity)
}

// Increment implements store.Repository.
func (r *Repository[T]) Increment(ctx context.Context, id int, column string) (*T, error) {
	ctx, span := r.start(ctx, "increment")
	defer span.End()

	if err := r.table.CheckCounter(column); err != nil {
		return nil, err
	}
	st := incrementSQL(r.table, id, column)

	item := r.table.New()
	err := r.db.QueryRowContext(ctx, st.String(), st.args...).Scan(r.scanTargets(item)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.table.NotFound()
	}
	if err != nil {
		return nil, r.fail(ctx, span, "increment", err)
	}
	return item, nil
}

// Delete implements store.Repository.
func (r *Repository[T]) Delete(ctx context.Context, id int) error {
	ctx, span := r.start(ctx, "delete")
	defer span.End()

	st := deleteSQL(r.table, store.BuildQuery(store.Eq(store.KeyColumn, id)))
	result, err := r.db.ExecContext(ctx, st.String(), st.args...)
	if err != nil {
		return r.fail(ctx, span, "delete", err)
	}
	return CheckRowsAffected(result, r.table.Entity)
}

// DeleteWhere implements store.Repository.
func (r *Repository[T]) DeleteWhere(ctx context.Context, opts ...store.Option) (int64, error) {
	ctx, span := r.start(ctx, "delete")
	defer span.End()

	q, err := r.query(opts)
	if err != nil {
		return 0, err
	}
	st := deleteSQL(r.table, q)

	result, err := r.db.ExecContext(ctx, st.String(), st.args...)
	if err != nil {
		return 0, r.fail(ctx, span, "delete", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, r.fail(ctx, span, "delete", err)
	}
	return n, nil
}
