// Package zod provides runtime structural validation for untyped data
// (decoded JSON or YAML) with composable object schemas.
//
// - Type-checked parsing via Schema[T] (Parse/TypeCheck/RuleCheck/Validate)
// - A stable error model via Issues (JSON Pointer, code, message)
// - Token Sources for JSON (go-json) and YAML (yaml.v3) with duplicate-key,
//   depth and size enforcement
//
// Design policy:
// - Keep only public APIs in the root package; put decoding internals under internal/.
// - Place the builder DSL (Object, String, Number, Intersection, Merge) under dsl/,
//   schema documents under schemadoc/, and the CLI under cmd/zod.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	person := dsl.Object().
//	    Field("name", dsl.String()).
//	    Field("age", dsl.Number()).
//	    MustBuild()
//	contact := dsl.Object().
//	    Field("age", dsl.Number().Positive().Int()).
//	    Field("email", dsl.String().Email()).
//	    NonStrict().
//	    MustBuild()
//	profile := person.Merge(contact)
//	v, err := zod.ParseFrom[map[string]any](ctx, profile, zod.JSONBytes(data))
package zod
