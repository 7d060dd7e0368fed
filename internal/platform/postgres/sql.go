package postgres

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// maxParams is the PostgreSQL limit on bind parameters per statement.
const maxParams = 65535

// statement accumulates SQL text and its positional arguments.
type statement struct {
	sb   strings.Builder
	args []any
}

func (s *statement) write(parts ...string) {
	for _, p := range parts {
		s.sb.WriteString(p)
	}
}

// bind appends v to the arguments and returns its placeholder.
func (s *statement) bind(v any) string {
	s.args = append(s.args, v)
	return "$" + strconv.Itoa(len(s.args))
}

func (s *statement) String() string {
	return s.sb.String()
}

// ident quotes a column or table name. Names come from store.Table
// definitions and checked queries, never from user input.
func ident(name string) string {
	return `"` + name + `"`
}

func columnList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = ident(n)
	}
	return strings.Join(quoted, ", ")
}

// escapeLike escapes the LIKE wildcards in s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// fieldValue dereferences a field pointer returned by a Column binding so
// the driver receives the field's value.
func fieldValue(ptr any) any {
	return reflect.ValueOf(ptr).Elem().Interface()
}

// writeWhere renders the conditions of q joined with AND.
func writeWhere(st *statement, conds []store.Condition) {
	if len(conds) == 0 {
		return
	}
	st.write(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			st.write(" AND ")
		}
		col := ident(c.Column)
		switch c.Op {
		case store.OpIsNull:
			st.write(col, " IS NULL")
		case store.OpIn:
			values, _ := c.Value.([]any)
			if len(values) == 0 {
				st.write("FALSE")
				continue
			}
			placeholders := make([]string, len(values))
			for j, v := range values {
				placeholders[j] = st.bind(v)
			}
			st.write(col, " IN (", strings.Join(placeholders, ", "), ")")
		case store.OpContains:
			pattern := "%" + escapeLike(fmt.Sprint(c.Value)) + "%"
			st.write(col, " ILIKE ", st.bind(pattern))
		default:
			st.write(col, " ", string(c.Op), " ", st.bind(c.Value))
		}
	}
}

// writeOrder renders ORDER BY with the key as the final tie-breaker so
// paging is stable.
func writeOrder(st *statement, orders []store.Order) {
	parts := make([]string, 0, len(orders)+1)
	keyed := false
	for _, o := range orders {
		part := ident(o.Column)
		if o.Desc {
			part += " DESC"
		}
		parts = append(parts, part)
		keyed = keyed || o.Column == store.KeyColumn
	}
	if !keyed {
		parts = append(parts, ident(store.KeyColumn))
	}
	st.write(" ORDER BY ", strings.Join(parts, ", "))
}

func writePaging(st *statement, q store.Query) {
	if q.Limit > 0 {
		st.write(" LIMIT ", st.bind(q.Limit))
	}
	if q.Offset > 0 {
		st.write(" OFFSET ", st.bind(q.Offset))
	}
}

func selectSQL[T any](t store.Table[T], q store.Query) *statement {
	st := &statement{}
	st.write("SELECT ", columnList(t.ColumnNames()), " FROM ", ident(t.Name))
	writeWhere(st, q.Conditions)
	writeOrder(st, q.Orders)
	writePaging(st, q)
	return st
}

func countSQL[T any](t store.Table[T], q store.Query) *statement {
	st := &statement{}
	st.write("SELECT COUNT(*) FROM ", ident(t.Name))
	writeWhere(st, q.Conditions)
	return st
}

func existsSQL[T any](t store.Table[T], q store.Query) *statement {
	st := &statement{}
	st.write("SELECT EXISTS (SELECT 1 FROM ", ident(t.Name))
	writeWhere(st, q.Conditions)
	st.write(")")
	return st
}

// insertSQL renders a multi-row INSERT returning the generated keys in
// row order.
func insertSQL[T any](t store.Table[T], entities []*T) *statement {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}

	st := &statement{}
	st.write("INSERT INTO ", ident(t.Name), " (", columnList(names), ") VALUES ")
	for i, e := range entities {
		if i > 0 {
			st.write(", ")
		}
		st.write("(")
		for j, c := range t.Columns {
			if j > 0 {
				st.write(", ")
			}
			st.write(st.bind(fieldValue(c.Field(e))))
		}
		st.write(")")
	}
	st.write(" RETURNING ", ident(store.KeyColumn))
	return st
}

func updateSQL[T any](t store.Table[T], entity *T) *statement {
	st := &statement{}
	st.write("UPDATE ", ident(t.Name), " SET ")
	for i, c := range t.Columns {
		if i > 0 {
			st.write(", ")
		}
		st.write(ident(c.Name), " = ", st.bind(fieldValue(c.Field(entity))))
	}
	st.write(" WHERE ", ident(store.KeyColumn), " = ", st.bind(*t.Key(entity)))
	return st
}

// incrementSQL renders an in-place counter update returning the whole row.
func incrementSQL[T any](t store.Table[T], id int, column string) *statement {
	st := &statement{}
	col := ident(column)
	st.write("UPDATE ", ident(t.Name), " SET ", col, " = ", col, " + 1")
	st.write(" WHERE ", ident(store.KeyColumn), " = ", st.bind(id))
	st.write(" RETURNING ", columnList(t.ColumnNames()))
	return st
}

func deleteSQL[T any](t store.Table[T], q store.Query) *statement {
	st := &statement{}
	st.write("DELETE FROM ", ident(t.Name))
	writeWhere(st, q.Conditions)
	return st
}

// insertBatchSize is the number of rows per INSERT that stays within the
// bind parameter limit.
func insertBatchSize[T any](t store.Table[T]) int {
	if len(t.Columns) == 0 {
		return 1
	}
	return maxParams / len(t.Columns)
}
