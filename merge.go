package schemagen

// Merge combines two schemas into one that describes both.
//
//   - Structurally equal inputs yield a copy of s1.
//   - Inputs declaring the same type yield {type} alone. When both also
//     declare properties, the result carries the union of both mappings:
//     s1's entries first, then s2's, with s2 winning on a shared name.
//     The result has no required, items or $ref.
//   - Anything else yields {oneOf: [s1, s2]}.
//
// Nested schemas are never unified further. Folding more than two schemas
// with Merge nests oneOf on the left: merge(merge(a, b), c).
// Merge does not modify or retain its inputs.
func Merge(s1, s2 *Schema) *Schema {
	return merge(s1.Clone(), s2.Clone())
}

// merge takes ownership of both arguments.
func merge(s1, s2 *Schema) *Schema {
	if s1.Equal(s2) {
		return s1
	}
	if s1 != nil && s2 != nil && s1.Type != "" && s1.Type == s2.Type {
		out := &Schema{Type: s1.Type}
		if s1.Properties != nil && s2.Properties != nil {
			out.Properties = make([]Property, 0, len(s1.Properties)+len(s2.Properties))
			for _, p := range s1.Properties {
				out.setProperty(p.Name, p.Schema)
			}
			for _, p := range s2.Properties {
				out.setProperty(p.Name, p.Schema)
			}
		}
		return out
	}
	return &Schema{OneOf: []*Schema{s1, s2}}
}
