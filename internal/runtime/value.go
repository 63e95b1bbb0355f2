// Package runtime implements the evaluator and runtime value system for mint.
//
// The central idea of the binding model: assigning one variable to another
// stores a reference to the source slot, not a copy of its value. The cost
// of materialization is paid at consumption time, when a consumer calls
// Resolve. Compound values (objects, lists) are therefore shared between
// aliases until a resolution snapshot is taken.
package runtime

import (
	"fmt"
	"sort"
	"strings"
)

// Value is the interface for all runtime values.
type Value interface {
	TypeName() string
	String() string
}

// ---- Primitive values ----

// IntVal represents an integer value.
type IntVal int64

func (v IntVal) TypeName() string { return "int" }
func (v IntVal) String() string   { return fmt.Sprintf("%d", int64(v)) }

// StringVal represents a string value.
type StringVal string

func (v StringVal) TypeName() string { return "string" }
func (v StringVal) String() string   { return string(v) }

// NullVal represents the absence of a value (e.g. what print returns).
type NullVal struct{}

func (v NullVal) TypeName() string { return "null" }
func (v NullVal) String() string   { return "null" }

// ---- References ----

// RefPath addresses a slot in the Context: a bare variable name, or a
// two-part object-attribute path when Attr is non-empty.
type RefPath struct {
	Name string
	Attr string
}

// HasAttr reports whether the path addresses an object attribute.
func (r RefPath) HasAttr() bool { return r.Attr != "" }

// String renders the path the way user-facing errors name it: the bare
// name, or the two parts joined by a space.
func (r RefPath) String() string {
	if r.Attr == "" {
		return r.Name
	}
	return r.Name + " " + r.Attr
}

// RefVal is a stored indirection: "this slot currently aliases another
// slot". A RefVal always names a slot, never another RefVal directly;
// chains form through the slots themselves and are chased at read time.
type RefVal struct {
	Path RefPath
}

func (v *RefVal) TypeName() string { return "reference" }
func (v *RefVal) String() string   { return fmt.Sprintf("<ref %s>", v.Path) }

// ---- Compound values ----

// ObjectVal represents an attribute map produced by type instantiation.
// Type records which constructor built it and is never touched by Resolve.
type ObjectVal struct {
	Type  string
	Attrs map[string]Value
}

func (v *ObjectVal) TypeName() string {
	if v.Type == "" {
		return "object"
	}
	return v.Type
}

func (v *ObjectVal) String() string {
	if len(v.Attrs) == 0 {
		return "<" + v.TypeName() + ">"
	}
	names := make([]string, 0, len(v.Attrs))
	for name := range v.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, quoted(v.Attrs[name]))
	}
	return "<" + v.TypeName() + " " + strings.Join(parts, ", ") + ">"
}

// ListVal represents an ordered, mutable sequence of bindings.
type ListVal struct {
	Type     string
	Elements []Value
}

func (v *ListVal) TypeName() string {
	if v.Type == "" {
		return "list"
	}
	return v.Type
}

func (v *ListVal) String() string {
	parts := make([]string, len(v.Elements))
	for i, elem := range v.Elements {
		parts[i] = quoted(elem)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Items returns the list's current ordered contents.
func (v *ListVal) Items() []Value { return v.Elements }

// Apply performs a named mutation operation on the list in place. "add"
// appends the item as given (a reference operand stays a reference, so
// lists can hold aliases); "remove" compares resolved forms and drops the
// first match, doing nothing when no element matches.
func (v *ListVal) Apply(env *Env, op string, item Value) error {
	switch op {
	case "add":
		v.Elements = append(v.Elements, item)
		return nil
	case "remove":
		want, err := Resolve(env, item)
		if err != nil {
			return err
		}
		for idx, elem := range v.Elements {
			got, err := Resolve(env, elem)
			if err != nil {
				return err
			}
			if valuesEqual(got, want) {
				v.Elements = append(v.Elements[:idx], v.Elements[idx+1:]...)
				return nil
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown list operation '%s'", op)
	}
}

// ---- Callable values ----

// BuiltinFn is the Go signature for functions callable from mint. The
// argument arrives as stored: possibly a reference, never force-resolved.
// Functions that need a materialized value call Resolve themselves;
// functions that mutate call Deref to reach the shared storage.
type BuiltinFn func(env *Env, arg Value) (Value, error)

// BuiltinVal represents a function value held in the Context.
type BuiltinVal struct {
	Name string
	Fn   BuiltinFn
}

func (v *BuiltinVal) TypeName() string { return "builtin" }
func (v *BuiltinVal) String() string   { return fmt.Sprintf("<builtin %s>", v.Name) }

// ---- Helpers ----

// quoted renders a value for display inside a container, quoting strings.
func quoted(v Value) string {
	if s, ok := v.(StringVal); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return v.String()
}

// valuesEqual compares two (resolved) values: scalars by value, lists by
// contents, everything else by identity.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case IntVal:
		bv, ok := b.(IntVal)
		return ok && av == bv
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && av == bv
	case NullVal:
		_, ok := b.(NullVal)
		return ok
	case *ListVal:
		bv, ok := b.(*ListVal)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !valuesEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
