package schemagen

import "sort"

// Infer derives the schema of a single instance. When v is an object, the
// returned root carries the draft-07 dialect marker; nested object schemas
// never do. Infer does not modify v.
func Infer(v Value) *Schema {
	return inferValue(v, true)
}

// InferAll derives one schema describing every instance. Each instance is
// inferred on its own and the results are folded left to right with Merge.
// The dialect marker is set on the result when it is an object schema, so
// InferAll(v) equals Infer(v). With no instances the empty schema is returned.
func InferAll(vs ...Value) *Schema {
	if len(vs) == 0 {
		return &Schema{}
	}
	common := inferValue(vs[0], false)
	for _, v := range vs[1:] {
		common = merge(common, inferValue(v, false))
	}
	if common.Type == TypeObject {
		common.Dialect = DraftURI
	}
	return common
}

// inferValue dispatches on the instance kind. root is true only for the
// outermost call of an inference.
func inferValue(v Value, root bool) *Schema {
	switch v.Kind {
	case KindObject:
		return inferObject(v, root)
	case KindArray:
		return inferArray(v.Items)
	case KindString:
		return &Schema{Type: TypeString}
	case KindNumber:
		if v.IsInteger() {
			return &Schema{Type: TypeInteger}
		}
		return &Schema{Type: TypeNumber}
	case KindBool:
		return &Schema{Type: TypeBoolean}
	default:
		return &Schema{Type: TypeNull}
	}
}

func inferObject(v Value, root bool) *Schema {
	s := &Schema{
		Type:       TypeObject,
		Properties: make([]Property, 0, len(v.Members)),
		Required:   make([]string, 0, len(v.Members)),
	}
	for _, m := range v.Members {
		if m.Key == "$ref" {
			ref := m.Value.Clone()
			s.Ref = &ref
			continue
		}
		if s.setProperty(m.Key, inferValue(m.Value, false)) {
			s.Required = append(s.Required, m.Key)
		}
	}
	sort.Strings(s.Required)
	if root {
		s.Dialect = DraftURI
	}
	return s
}

func inferArray(items []Value) *Schema {
	if len(items) == 0 {
		return &Schema{Type: TypeArray, Items: &Schema{}}
	}
	common := inferValue(items[0], false)
	for _, it := range items[1:] {
		common = merge(common, inferValue(it, false))
	}
	return &Schema{Type: TypeArray, Items: common}
}
