// Package schemaval validates in-memory data values against declarative
// constraint trees.
//
//   - A stable error model via Issues (path, code, message)
//   - Deterministic error ordering (depth-first, declared field order)
//   - Exhaustive or first-failure collection, selectable per call
//   - Recursive schemas through named references with a bounded depth guard
//
// The constraint model lives under constraint/ and the boundary value
// representation under value/. The JSON-Schema-subset compiler sits in
// jsonschema/ and the CLI in cmd/schemaval.
//
// Typical usage:
//
//	node := constraint.Object().
//		Field("age", constraint.AllOf(constraint.Type(constraint.TypeInteger), ageRange)).
//		Require("age").
//		MustBuild()
//	res := schemaval.Validate(nil, node, value.MustFromGo(map[string]any{"age": 42}))
package schemaval
