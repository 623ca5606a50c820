// Package values implements the keyed, mergeable property bag that carries
// animatable effect channels between transition definitions and pages.
//
// A Values is an immutable-by-convention value: Set and Merge never write
// into a map another Values can observe, so copies may be passed around
// freely. A missing key means "inherit the current value", never "reset".
package values

import (
	"fmt"
	"sort"
	"strings"
)

// Key declares a typed entry. Keys are identified by name, so two keys with
// the same name address the same entry.
type Key[V comparable] struct {
	name string
	def  V
}

func NewKey[V comparable](name string, def V) Key[V] {
	return Key[V]{name: name, def: def}
}

func (k Key[V]) Name() string { return k.name }
func (k Key[V]) Default() V { return k.def }

// Built-in effect channels. All are unspecified until set.
var (
	OffsetX    = NewKey[float64]("offsetX", 0)
	OffsetY    = NewKey[float64]("offsetY", 0)
	ScaleX     = NewKey[float64]("scaleX", 0)
	ScaleY     = NewKey[float64]("scaleY", 0)
	Opacity    = NewKey[float64]("opacity", 0)
	BlurRadius = NewKey[float64]("blurRadius", 0)
)

// Values maps key names to boxed comparable values. The zero Values is empty.
type Values struct {
	m map[string]any
}

// Get returns the value stored under k, or k's default when absent.
func Get[V comparable](vs Values, k Key[V]) V {
	if v, ok := Lookup(vs, k); ok {
		return v
	}
	return k.def
}

// Lookup returns the value stored under k and whether it was present.
// An entry stored with a different type under the same name reads as absent.
func Lookup[V comparable](vs Values, k Key[V]) (V, bool) {
	raw, ok := vs.m[k.name]
	if !ok {
		var zero V
		return zero, false
	}
	v, ok := raw.(V)
	return v, ok
}

// Set stores v under k, overwriting any previous entry.
func Set[V comparable](vs *Values, k Key[V], v V) {
	vs.put(k.name, v)
}

// Make builds a Values from a list of setters, applied in order.
func Make(setters ...func(*Values)) Values {
	var vs Values
	for _, s := range setters {
		s(&vs)
	}
	return vs
}

// With returns a setter for use with Make.
func With[V comparable](k Key[V], v V) func(*Values) {
	return func(vs *Values) { Set(vs, k, v) }
}

func (vs *Values) put(name string, v any) {
	next := make(map[string]any, len(vs.m)+1)
	for k, old := range vs.m {
		next[k] = old
	}
	next[name] = v
	vs.m = next
}

// Delete removes the entry named by k.
func Delete[V comparable](vs *Values, k Key[V]) {
	if _, ok := vs.m[k.name]; !ok {
		return
	}
	next := make(map[string]any, len(vs.m))
	for name, v := range vs.m {
		if name != k.name {
			next[name] = v
		}
	}
	vs.m = next
}

func (vs Values) Len() int { return len(vs.m) }
func (vs Values) IsEmpty() bool { return len(vs.m) == 0 }

func (vs Values) Has(name string) bool {
	_, ok := vs.m[name]
	return ok
}

// Merge returns vs with every entry of other written over it. Entries only
// in vs survive untouched.
func (vs Values) Merge(other Values) Values {
	if len(other.m) == 0 {
		return vs
	}
	if len(vs.m) == 0 {
		return other
	}
	next := make(map[string]any, len(vs.m)+len(other.m))
	for k, v := range vs.m {
		next[k] = v
	}
	for k, v := range other.m {
		next[k] = v
	}
	return Values{m: next}
}

// MergeAll folds the given sets left to right.
func MergeAll(sets ...Values) Values {
	var out Values
	for _, s := range sets {
		out = out.Merge(s)
	}
	return out
}

// Equal reports structural equality over the full key/value set.
func (vs Values) Equal(other Values) bool {
	if len(vs.m) != len(other.m) {
		return false
	}
	for k, v := range vs.m {
		ov, ok := other.m[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Names returns the stored key names in sorted order.
func (vs Values) Names() []string {
	out := make([]string, 0, len(vs.m))
	for k := range vs.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Channel is one float-valued entry.
type Channel struct {
	Name  string
	Value float64
}

// Floats returns every float64 entry, built-in or extension, sorted by name.
// Entries of other types are not animatable and are skipped.
func (vs Values) Floats() []Channel {
	out := make([]Channel, 0, len(vs.m))
	for _, name := range vs.Names() {
		if f, ok := vs.m[name].(float64); ok {
			out = append(out, Channel{Name: name, Value: f})
		}
	}
	return out
}

func (vs Values) String() string {
	parts := make([]string, 0, len(vs.m))
	for _, name := range vs.Names() {
		parts = append(parts, fmt.Sprintf("%s=%v", name, vs.m[name]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
