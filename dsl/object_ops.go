package dsl

// derive copies o with a new shape, sharing the (immutable) checks.
func (o *ObjectSchema) derive(s Shape, strict bool) *ObjectSchema {
	return &ObjectSchema{shape: fixedShape(s), strict: strict, checks: o.checks}
}

// Strict returns a copy of o that rejects unknown keys.
func (o *ObjectSchema) Strict() *ObjectSchema {
	return &ObjectSchema{shape: o.shape, strict: true, checks: o.checks}
}

// NonStrict returns a copy of o that passes unknown keys through.
func (o *ObjectSchema) NonStrict() *ObjectSchema {
	return &ObjectSchema{shape: o.shape, strict: false, checks: o.checks}
}

// Extend returns a copy of o with the entries added. Unlike Merge, an entry
// whose name already exists replaces the old Field.
func (o *ObjectSchema) Extend(entries ...Entry) *ObjectSchema {
	s := o.Shape().clone(len(entries))
	for _, e := range entries {
		if e.Name == "" || e.Field == nil {
			continue
		}
		s.set(e.Name, e.Field)
	}
	return o.derive(s, o.strict)
}

// Partial returns a copy of o in which every property may be absent.
func (o *ObjectSchema) Partial() *ObjectSchema {
	src := o.Shape()
	s := newShape(src.Len())
	for k, f := range src.All() {
		s.set(k, Optional(f))
	}
	return o.derive(s, o.strict)
}

// Pick returns a copy of o restricted to the named properties. Unknown names
// are ignored; shape order is kept.
func (o *ObjectSchema) Pick(names ...string) *ObjectSchema {
	keep := make(map[string]struct{}, len(names))
	for _, n := range names {
		keep[n] = struct{}{}
	}
	return o.filter(func(k string) bool {
		_, ok := keep[k]
		return ok
	})
}

// Omit returns a copy of o without the named properties.
func (o *ObjectSchema) Omit(names ...string) *ObjectSchema {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	return o.filter(func(k string) bool {
		_, ok := drop[k]
		return !ok
	})
}

func (o *ObjectSchema) filter(keep func(string) bool) *ObjectSchema {
	src := o.Shape()
	s := newShape(src.Len())
	for k, f := range src.All() {
		if keep(k) {
			s.set(k, f)
		}
	}
	return o.derive(s, o.strict)
}
