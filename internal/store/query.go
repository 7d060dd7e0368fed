package store

import "math"

// Operator is a comparison applied by a query condition.
type Operator string

// Supported operators. Contains is a case-insensitive substring match.
const (
	OpEq       Operator = "="
	OpNe       Operator = "<>"
	OpGt       Operator = ">"
	OpGte      Operator = ">="
	OpLt       Operator = "<"
	OpLte      Operator = "<="
	OpIn       Operator = "IN"
	OpContains Operator = "CONTAINS"
	OpIsNull   Operator = "IS NULL"
)

// Condition restricts a query to rows where Column Op Value holds.
// For OpIn, Value is a []any. For OpIsNull, Value is ignored.
type Condition struct {
	Column string
	Op     Operator
	Value  any
}

// Order sorts query results by a column.
type Order struct {
	Column string
	Desc   bool
}

// Query is the compiled form of a set of options. All conditions are
// combined with AND.
type Query struct {
	Conditions []Condition
	Orders     []Order
	Limit      int
	Offset     int
	Includes   []string
}

// Option configures a Query.
type Option func(*Query)

// BuildQuery applies opts to an empty Query.
func BuildQuery(opts ...Option) Query {
	var q Query
	for _, opt := range opts {
		if opt != nil {
			opt(&q)
		}
	}
	return q
}

// Where adds an arbitrary condition.
func Where(column string, op Operator, value any) Option {
	return func(q *Query) {
		q.Conditions = append(q.Conditions, Condition{Column: column, Op: op, Value: value})
	}
}

// Eq restricts column to value.
func Eq(column string, value any) Option {
	return Where(column, OpEq, value)
}

// In restricts column to one of values. An empty list matches nothing.
func In[V any](column string, values ...V) Option {
	list := make([]any, len(values))
	for i, v := range values {
		list[i] = v
	}
	return Where(column, OpIn, list)
}

// Contains restricts column to values containing substr, ignoring case.
func Contains(column, substr string) Option {
	return Where(column, OpContains, substr)
}

// IsNull restricts column to NULL values.
func IsNull(column string) Option {
	return Where(column, OpIsNull, nil)
}

// OrderBy sorts ascending by column. Multiple orders apply in sequence.
func OrderBy(column string) Option {
	return func(q *Query) {
		q.Orders = append(q.Orders, Order{Column: column})
	}
}

// OrderByDesc sorts descending by column.
func OrderByDesc(column string) Option {
	return func(q *Query) {
		q.Orders = append(q.Orders, Order{Column: column, Desc: true})
	}
}

// Limit caps the number of returned rows. Zero means no limit.
func Limit(n int) Option {
	return func(q *Query) { q.Limit = n }
}

// Offset skips the first n rows.
func Offset(n int) Option {
	return func(q *Query) { q.Offset = n }
}

// Page selects the 1-based page of the given size. Pages past the end of
// the int range saturate the offset.
func Page(page, size int) Option {
	return func(q *Query) {
		if page < 1 {
			page = 1
		}
		if size < 1 {
			return
		}
		q.Limit = size
		if page-1 > math.MaxInt/size {
			q.Offset = math.MaxInt
			return
		}
		q.Offset = (page - 1) * size
	}
}

// Include loads the named relations into the returned entities.
func Include(relations ...string) Option {
	return func(q *Query) {
		q.Includes = append(q.Includes, relations...)
	}
}
