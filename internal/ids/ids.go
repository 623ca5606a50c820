// Package ids holds the opaque identifiers used across the transition engine.
//
// Every identifier wraps a caller-supplied comparable value. A value whose
// dynamic type cannot be compared, such as a slice passed as any, is
// rejected with a panic when the identifier is built. Equality and map
// hashing depend only on the logical value: numeric kinds are normalised and
// identifiers passed back through a constructor are unwrapped, so
// Page(1) == Page(int64(1)) == Page(Page(1)).
package ids

import (
	"fmt"
	"math"
	"reflect"

	"github.com/google/uuid"
)

// Any is a type-erased identifier value. The zero Any is the nil identifier.
type Any struct {
	v any
}

// Of wraps v after normalising it.
func Of[T comparable](v T) Any {
	return Any{v: normalize(any(v))}
}

// Value returns the normalised underlying value.
func (a Any) Value() any { return a.v }

// IsZero reports whether a wraps nothing.
func (a Any) IsZero() bool { return a.v == nil }

func (a Any) String() string {
	if a.v == nil {
		return "<nil>"
	}
	return fmt.Sprint(a.v)
}

type unwrapper interface {
	erased() Any
}

func (a Any) erased() Any { return a }

func normalize(v any) any {
	switch x := v.(type) {
	case unwrapper:
		return x.erased().v
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return normalizeUnsigned(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return normalizeUnsigned(x)
	case uintptr:
		return normalizeUnsigned(uint64(x))
	case float32:
		return normalizeFloat(float64(x))
	case float64:
		return normalizeFloat(x)
	}
	if v != nil && !reflect.ValueOf(v).Comparable() {
		panic(fmt.Sprintf("ids: %T is not comparable and cannot identify anything", v))
	}
	return v
}

func normalizeUnsigned(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}

// PageID identifies a page.
type PageID struct{ id Any }

// TabID identifies a tab.
type TabID struct{ id Any }

// TransitionElementID identifies a tracked sub-region of a page.
type TransitionElementID struct{ id Any }

// MorphingViewID identifies a morphing view within a page.
type MorphingViewID struct{ id Any }

func Page[T comparable](v T) PageID { return PageID{Of(v)} }
func Tab[T comparable](v T) TabID { return TabID{Of(v)} }
func Element[T comparable](v T) TransitionElementID { return TransitionElementID{Of(v)} }
func Morphing[T comparable](v T) MorphingViewID { return MorphingViewID{Of(v)} }
func (p PageID) erased() Any { return p.id }
func (t TabID) erased() Any { return t.id }
func (e TransitionElementID) erased() Any { return e.id }
func (m MorphingViewID) erased() Any { return m.id }
func (p PageID) String() string { return p.id.String() }
func (t TabID) String() string { return t.id.String() }
func (e TransitionElementID) String() string { return e.id.String() }
func (m MorphingViewID) String() string { return m.id.String() }
func (p PageID) IsZero() bool { return p.id.IsZero() }
func (t TabID) IsZero() bool { return t.id.IsZero() }
func (p PageID) Erase() Any { return p.id }
func (t TabID) Erase() Any { return t.id }

// NewPageID mints a random page identifier.
func NewPageID() PageID {
	return Page(uuid.NewString())
}
