package dsl

import (
	"iter"
	"slices"
)

// Shape is an ordered, immutable mapping from property name to Field.
// Order is declaration order; it drives issue order and JSON Schema output
// but not acceptance.
type Shape struct {
	keys   []string
	fields map[string]Field
}

// Entry is a single name/Field pair used to build a Shape.
type Entry struct {
	Name  string
	Field Field
}

// E is shorthand for Entry{Name: name, Field: f}.
func E(name string, f Field) Entry { return Entry{Name: name, Field: f} }

// NewShape builds a Shape from entries. A repeated name replaces the earlier
// Field and keeps the earlier position.
func NewShape(entries ...Entry) Shape {
	s := newShape(len(entries))
	for _, e := range entries {
		s.set(e.Name, e.Field)
	}
	return s
}

func newShape(capacity int) Shape {
	return Shape{keys: make([]string, 0, capacity), fields: make(map[string]Field, capacity)}
}

// set is only used while a Shape is being assembled and not yet shared.
func (s *Shape) set(name string, f Field) {
	if _, ok := s.fields[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.fields[name] = f
}

// clone returns an independent copy that may be modified with set.
func (s Shape) clone(extra int) Shape {
	out := Shape{keys: make([]string, len(s.keys), len(s.keys)+extra), fields: make(map[string]Field, len(s.keys)+extra)}
	copy(out.keys, s.keys)
	for k, f := range s.fields {
		out.fields[k] = f
	}
	return out
}

// Len returns the number of properties.
func (s Shape) Len() int { return len(s.keys) }

// Keys returns the property names in order. The slice is a copy.
func (s Shape) Keys() []string { return slices.Clone(s.keys) }

// Get returns the Field for name.
func (s Shape) Get(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Has reports whether name is a property of the shape.
func (s Shape) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// All iterates properties in order.
func (s Shape) All() iter.Seq2[string, Field] {
	return func(yield func(string, Field) bool) {
		for _, k := range s.keys {
			if !yield(k, s.fields[k]) {
				return
			}
		}
	}
}
