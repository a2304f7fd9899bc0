package schemagen

// DraftURI is the dialect marker placed on the root of an inferred object schema.
const DraftURI = "http://json-schema.org/draft-07/schema#"

// Type names used in the "type" keyword.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Schema is an inferred JSON Schema node.
//
// Presence is significant: a nil Properties, Required or Items means the
// keyword is absent, while an empty non-nil value is emitted ({} or []).
// A zero Schema is the empty schema {} that admits any value.
type Schema struct {
	Dialect    string     // "$schema"
	Ref        *Value     // "$ref", copied verbatim from the instance
	Type       string     // "type"
	Properties []Property // "properties", in first-seen order
	Required   []string   // "required"
	Items      *Schema    // "items"
	OneOf      []*Schema  // "oneOf"
}

// Property is one entry of a "properties" mapping.
type Property struct {
	Name   string
	Schema *Schema
}

// Property returns the schema of the named property.
func (s *Schema) Property(name string) (*Schema, bool) {
	if s == nil {
		return nil, false
	}
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// setProperty replaces an existing entry in place or appends a new one.
func (s *Schema) setProperty(name string, sub *Schema) bool {
	for i := range s.Properties {
		if s.Properties[i].Name == name {
			s.Properties[i].Schema = sub
			return false
		}
	}
	s.Properties = append(s.Properties, Property{Name: name, Schema: sub})
	return true
}

// Clone returns a deep copy of s.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{Dialect: s.Dialect, Type: s.Type}
	if s.Ref != nil {
		r := s.Ref.Clone()
		out.Ref = &r
	}
	if s.Properties != nil {
		out.Properties = make([]Property, len(s.Properties))
		for i, p := range s.Properties {
			out.Properties[i] = Property{Name: p.Name, Schema: p.Schema.Clone()}
		}
	}
	if s.Required != nil {
		out.Required = append(make([]string, 0, len(s.Required)), s.Required...)
	}
	out.Items = s.Items.Clone()
	if s.OneOf != nil {
		out.OneOf = make([]*Schema, len(s.OneOf))
		for i, alt := range s.OneOf {
			out.OneOf[i] = alt.Clone()
		}
	}
	return out
}

// Equal reports structural equality. The order of properties is not
// significant; the order of required names and oneOf alternatives is.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Dialect != o.Dialect || s.Type != o.Type {
		return false
	}
	if (s.Ref == nil) != (o.Ref == nil) || (s.Ref != nil && !s.Ref.Equal(*o.Ref)) {
		return false
	}
	if !propertiesEqual(s.Properties, o.Properties) {
		return false
	}
	if (s.Required == nil) != (o.Required == nil) || len(s.Required) != len(o.Required) {
		return false
	}
	for i := range s.Required {
		if s.Required[i] != o.Required[i] {
			return false
		}
	}
	if !s.Items.Equal(o.Items) {
		return false
	}
	if (s.OneOf == nil) != (o.OneOf == nil) || len(s.OneOf) != len(o.OneOf) {
		return false
	}
	for i := range s.OneOf {
		if !s.OneOf[i].Equal(o.OneOf[i]) {
			return false
		}
	}
	return true
}

func propertiesEqual(a, b []Property) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	idx := make(map[string]*Schema, len(b))
	for _, p := range b {
		idx[p.Name] = p.Schema
	}
	for _, p := range a {
		other, ok := idx[p.Name]
		if !ok || !p.Schema.Equal(other) {
			return false
		}
	}
	return true
}
