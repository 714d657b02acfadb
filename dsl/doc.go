// Package dsl provides the schema builder DSL for zod.
//
// Overview
//   - Builder API: declare object semantics with Object().Field(...).Optional()/Nullable(), Strict()/NonStrict(), Check(...) and MustBuild().
//   - Primitives/Array: String(), Number(), Bool() and Array(elem), each immutable; refinements such as Min or Email return copies.
//   - Wrappers: Optional(f) accepts absence, Nullable(f) accepts null. The two are independent.
//   - Adapter: SchemaOf[T](s) turns any zod.Schema[T] into a Field so it can be embedded in an object.
//   - Composition: Merge/MergeObjects/MergeAll combine object schemas; Intersection(a, b) requires both validators.
//
// Entry points
//   - Object(): create an object builder; chain Field/Optional/Check then MustBuild()/Build.
//   - ObjectOf(shape), LazyObject(fn): build an object directly from a Shape; LazyObject allows recursion.
//   - MergeShapes(first, second): the key-wise union used by MergeObjects. Shared keys become an Intersection.
//   - Extend/Partial/Pick/Omit: derive a new object from an existing one.
//
// File layout (roles)
//   - field.go: the Field interface, SchemaOf and shared issue helpers.
//   - shape.go: the ordered, immutable Shape.
//   - object_builder.go / object_core.go / object_ops.go: ObjectSchema construction, parsing and derivation.
//   - merge.go / intersection.go: object merging and its per-key collaborator.
//   - primitives.go / array.go / wrappers.go: leaf validators and modifiers.
//
// Merged objects capture both operand shapes when Merge is called. Later calls to the
// merged schema's Shape never reach back into the operands.
package dsl
