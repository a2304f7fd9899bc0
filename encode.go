package schemagen

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects the serialization used by Write.
type OutputFormat int

const (
	OutputJSON OutputFormat = iota
	OutputYAML
)

// WriteOpt configures Write. The zero value writes JSON indented by two
// spaces; set Compact for single-line JSON.
type WriteOpt struct {
	Format  OutputFormat
	Indent  string
	Compact bool
}

// Write serializes s to w followed by a newline. HTML characters are not escaped.
func Write(w io.Writer, s *Schema, opt WriteOpt) error {
	var out []byte
	var err error
	switch opt.Format {
	case OutputYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(s); err == nil {
			err = enc.Close()
		}
		out = buf.Bytes()
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if !opt.Compact {
			indent := opt.Indent
			if indent == "" {
				indent = "  "
			}
			enc.SetIndent("", indent)
		}
		err = enc.Encode(s)
		out = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}

// MarshalJSON emits keywords in a fixed order: $schema, $ref, type,
// properties, required, items, oneOf. A nil schema encodes as {}.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Schema) appendJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	if s == nil {
		buf.WriteByte('}')
		return nil
	}
	n := 0
	key := func(k string) {
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		writeJSONString(buf, k)
		buf.WriteByte(':')
	}
	if s.Dialect != "" {
		key("$schema")
		writeJSONString(buf, s.Dialect)
	}
	if s.Ref != nil {
		key("$ref")
		if err := s.Ref.appendJSON(buf); err != nil {
			return err
		}
	}
	if s.Type != "" {
		key("type")
		writeJSONString(buf, s.Type)
	}
	if s.Properties != nil {
		key("properties")
		buf.WriteByte('{')
		for i, p := range s.Properties {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, p.Name)
			buf.WriteByte(':')
			if err := p.Schema.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	if s.Required != nil {
		key("required")
		buf.WriteByte('[')
		for i, r := range s.Required {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, r)
		}
		buf.WriteByte(']')
	}
	if s.Items != nil {
		key("items")
		if err := s.Items.appendJSON(buf); err != nil {
			return err
		}
	}
	if s.OneOf != nil {
		key("oneOf")
		buf.WriteByte('[')
		for i, alt := range s.OneOf {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := alt.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return nil
}

// MarshalJSON encodes v as JSON text, preserving member order and numerals.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) appendJSON(buf *bytes.Buffer) error {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindNumber:
		if !json.Valid([]byte(v.Number)) {
			return fmt.Errorf("invalid JSON numeral %q", v.Number)
		}
		buf.WriteString(v.Number)
	case KindString:
		writeJSONString(buf, v.String)
	case KindArray:
		buf.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, m.Key)
			buf.WriteByte(':')
			if err := m.Value.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", v.Kind)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.MarshalNoEscape(s)
	buf.Write(b)
}

// MarshalYAML builds an ordered mapping node so YAML output keeps the same
// keyword order as JSON output.
func (s *Schema) MarshalYAML() (any, error) {
	return s.yamlNode(), nil
}

func (s *Schema) yamlNode() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if s == nil {
		n.Style = yaml.FlowStyle
		return n
	}
	add := func(k string, v *yaml.Node) {
		n.Content = append(n.Content, yamlString(k), v)
	}
	if s.Dialect != "" {
		add("$schema", yamlString(s.Dialect))
	}
	if s.Ref != nil {
		add("$ref", s.Ref.yamlNode())
	}
	if s.Type != "" {
		add("type", yamlString(s.Type))
	}
	if s.Properties != nil {
		props := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range s.Properties {
			props.Content = append(props.Content, yamlString(p.Name), p.Schema.yamlNode())
		}
		if len(props.Content) == 0 {
			props.Style = yaml.FlowStyle
		}
		add("properties", props)
	}
	if s.Required != nil {
		req := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, r := range s.Required {
			req.Content = append(req.Content, yamlString(r))
		}
		if len(req.Content) == 0 {
			req.Style = yaml.FlowStyle
		}
		add("required", req)
	}
	if s.Items != nil {
		add("items", s.Items.yamlNode())
	}
	if s.OneOf != nil {
		alts := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, alt := range s.OneOf {
			alts.Content = append(alts.Content, alt.yamlNode())
		}
		add("oneOf", alts)
	}
	if len(n.Content) == 0 {
		n.Style = yaml.FlowStyle
	}
	return n
}

func (v Value) yamlNode() *yaml.Node {
	switch v.Kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}
	case KindNumber:
		tag := "!!float"
		if v.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.Number}
	case KindString:
		return yamlString(v.String)
	case KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range v.Items {
			n.Content = append(n.Content, it.yamlNode())
		}
		return n
	case KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.Members {
			n.Content = append(n.Content, yamlString(m.Key), m.Value.yamlNode())
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
