package memstore

import (
	"reflect"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// normalize dereferences pointers and maps every scalar onto one of
// string, int64, float64, bool or time.Time. isNull is true for nil.
func normalize(v any) (value any, isNull bool) {
	if v == nil {
		return nil, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), false
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), false
	case reflect.Float32, reflect.Float64:
		return rv.Float(), false
	case reflect.Bool:
		return rv.Bool(), false
	}
	if t, ok := rv.Interface().(time.Time); ok {
		return t, false
	}
	return rv.Interface(), false
}

// compare orders two normalized values. ok is false when they are not
// comparable.
func compare(a, b any) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case int64:
		switch bv := b.(type) {
		case int64:
			return cmpOrdered(av, bv), true
		case float64:
			return cmpOrdered(float64(av), bv), true
		}
	case float64:
		switch bv := b.(type) {
		case float64:
			return cmpOrdered(av, bv), true
		case int64:
			return cmpOrdered(av, float64(bv)), true
		}
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	}
	if reflect.TypeOf(a) == reflect.TypeOf(b) && reflect.TypeOf(a).Comparable() && a == b {
		return 0, true
	}
	return 0, false
}

func cmpOrdered[N int64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// containsFold reports whether s contains substr under Unicode case folding.
func containsFold(s, substr string) bool {
	return strings.Contains(folder.String(s), folder.String(substr))
}

// copyField copies *src into *dst where both are pointers to the same
// field type. Pointer fields are cloned so stored rows never alias caller
// memory.
func copyField(dst, src any) {
	d := reflect.ValueOf(dst).Elem()
	s := reflect.ValueOf(src).Elem()
	if s.Kind() == reflect.Pointer && !s.IsNil() {
		clone := reflect.New(s.Elem().Type())
		clone.Elem().Set(s.Elem())
		d.Set(clone)
		return
	}
	d.Set(s)
}
