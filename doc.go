// Package schemagen infers draft-07 JSON Schemas from example instances.
//
//   - Infer maps one instance to its structural schema: a type tag for
//     scalars, properties/required for objects, one unified items schema
//     for arrays.
//   - Merge and InferAll unify schemas pairwise. Same-typed schemas collapse
//     into one node (object properties are joined shallowly, last write
//     wins); anything else becomes a two-way oneOf, nested left to right.
//   - ReadJSON, ReadJSONStream, ReadYAML and Read turn input documents into
//     ordered Value trees through a pluggable JSONDriver (go-json by default,
//     encoding/json on request), with duplicate-key, depth and size
//     enforcement reported as Issues.
//   - Write serializes a Schema as indented JSON, compact JSON or YAML with a
//     stable keyword order.
//
// Typical usage:
//
//	v, err := schemagen.ReadJSON(data, schemagen.ReadOpt{})
//	if err != nil {
//		return err
//	}
//	return schemagen.Write(os.Stdout, schemagen.Infer(v), schemagen.WriteOpt{})
//
// The CLI lives under cmd/schemagen.
package schemagen
