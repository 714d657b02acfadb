package dsl

// MergeShapes combines two shapes. The result holds every key of both; keys
// declared by only one side keep that side's Field unchanged, and keys
// declared by both map to Intersection(first[k], second[k]). Neither input is
// modified.
//
// Order: first's keys, then keys only second declares.
func MergeShapes(first, second Shape) Shape {
	shared := make(map[string]Field)
	for _, k := range first.keys {
		if sf, ok := second.fields[k]; ok {
			shared[k] = Intersection(first.fields[k], sf)
		}
	}
	out := first.clone(second.Len())
	for _, k := range second.keys {
		out.set(k, second.fields[k])
	}
	for k, f := range shared {
		out.set(k, f)
	}
	return out
}

// mergeStrict: the merged schema rejects unknown keys only when both inputs do.
func mergeStrict(a, b bool) bool { return a && b }

// MergeObjects returns a new object schema accepting objects shaped like both
// first and second. Shapes are merged once, at call time, with MergeShapes;
// strictness is the conjunction of both; checks run first's then second's.
func MergeObjects(first, second *ObjectSchema) *ObjectSchema {
	merged := MergeShapes(first.Shape(), second.Shape())
	checks := make([]Check, 0, len(first.checks)+len(second.checks))
	checks = append(checks, first.checks...)
	checks = append(checks, second.checks...)
	return &ObjectSchema{
		shape:  fixedShape(merged),
		strict: mergeStrict(first.strict, second.strict),
		checks: checks,
	}
}

// Merge is MergeObjects(o, other).
func (o *ObjectSchema) Merge(other *ObjectSchema) *ObjectSchema { return MergeObjects(o, other) }

// MergeAll folds MergeObjects from left to right. It returns nil for no
// schemas and the schema itself for one.
func MergeAll(schemas ...*ObjectSchema) *ObjectSchema {
	if len(schemas) == 0 {
		return nil
	}
	acc := schemas[0]
	for _, s := range schemas[1:] {
		acc = MergeObjects(acc, s)
	}
	return acc
}
