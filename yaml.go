package schemagen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ReadYAML parses every document of a YAML stream into instances. Mapping
// order is kept, aliases are resolved and duplicate keys follow
// opt.Strictness. Values without a JSON form (.inf, .nan) are rejected.
func ReadYAML(data []byte, opt ReadOpt) ([]Value, error) {
	if err := checkSize(data, opt); err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []Value
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, Issues{{Code: CodeParseError, Message: err.Error(), Cause: err, Offset: -1}}
		}
		c := yamlConverter{opt: opt}
		v, err := c.value(&root, "", 0)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

type yamlConverter struct {
	opt ReadOpt
	// anchored nodes whose conversion is in progress; an alias to one of
	// them is a cycle.
	active     map[*yaml.Node]bool
	aliasDepth int
	nodes      int // nodes converted in this document
	aliased    int // nodes converted while expanding an alias
}

// allowedAliasRatio bounds the share of converted nodes that may come from
// alias expansion. Small documents may be mostly aliases; large ones may not.
func allowedAliasRatio(nodes int) float64 {
	switch {
	case nodes <= 400_000:
		return 0.99
	case nodes >= 4_000_000:
		return 0.10
	default:
		return 0.99 - 0.89*float64(nodes-400_000)/3_600_000
	}
}

// count records one converted node and fails once alias expansion dominates.
func (c *yamlConverter) count(n *yaml.Node, path string) error {
	c.nodes++
	if c.aliasDepth > 0 {
		c.aliased++
	}
	if c.aliased > 100 && c.nodes > 1000 && float64(c.aliased)/float64(c.nodes) > allowedAliasRatio(c.nodes) {
		return c.fail(n, path, CodeParseError, "document contains excessive aliasing")
	}
	return nil
}

func (c *yamlConverter) fail(n *yaml.Node, path, code, msg string) error {
	return Issues{{Path: pathOrRoot(path), Code: code, Message: msg, Offset: -1, Line: n.Line, Column: n.Column}}
}

func (c *yamlConverter) value(n *yaml.Node, path string, depth int) (Value, error) {
	if err := c.count(n, path); err != nil {
		return Value{}, err
	}
	if n.Anchor != "" && n.Kind != yaml.AliasNode {
		if c.active[n] {
			return Value{}, c.fail(n, path, CodeParseError, fmt.Sprintf("anchor %q refers to itself", n.Anchor))
		}
		if c.active == nil {
			c.active = make(map[*yaml.Node]bool)
		}
		c.active[n] = true
		defer delete(c.active, n)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return c.value(n.Content[0], path, depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return Value{}, c.fail(n, path, CodeParseError, "unresolved alias")
		}
		if c.active[n.Alias] {
			return Value{}, c.fail(n, path, CodeParseError, fmt.Sprintf("alias *%s refers to an enclosing anchor", n.Value))
		}
		c.aliasDepth++
		defer func() { c.aliasDepth-- }()
		return c.value(n.Alias, path, depth)
	case yaml.SequenceNode:
		if err := c.enter(n, path, depth); err != nil {
			return Value{}, err
		}
		items := make([]Value, 0, len(n.Content))
		for i, it := range n.Content {
			v, err := c.value(it, path+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{Kind: KindArray, Items: items}, nil
	case yaml.MappingNode:
		if err := c.enter(n, path, depth); err != nil {
			return Value{}, err
		}
		return c.mapping(n, path, depth)
	case yaml.ScalarNode:
		return c.scalar(n, path)
	}
	return Value{}, c.fail(n, path, CodeParseError, fmt.Sprintf("unsupported YAML node kind %d", n.Kind))
}

func (c *yamlConverter) enter(n *yaml.Node, path string, depth int) error {
	if c.opt.MaxDepth > 0 && depth+1 > c.opt.MaxDepth {
		return c.fail(n, path, CodeParseError, "max depth exceeded")
	}
	return nil
}

func (c *yamlConverter) mapping(n *yaml.Node, path string, depth int) (Value, error) {
	members := make([]Member, 0, len(n.Content)/2)
	first := make(map[string]*yaml.Node, len(n.Content)/2)
	index := make(map[string]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.AliasNode && k.Alias != nil {
			k = k.Alias
		}
		if k.Kind != yaml.ScalarNode {
			return Value{}, c.fail(k, path, CodeInvalidType, "mapping keys must be scalars")
		}
		key := k.Value
		kpath := path + "/" + jsonPointerEscaper.Replace(key)
		if prev, dup := first[key]; dup {
			msg := fmt.Sprintf("duplicate YAML key %q (first at %d:%d)", key, prev.Line, prev.Column)
			switch c.opt.Strictness.OnDuplicateKey {
			case Error:
				return Value{}, c.fail(k, kpath, CodeDuplicateKey, msg)
			case Warn:
				if c.opt.IssueSink != nil {
					c.opt.IssueSink(Issue{Path: kpath, Code: CodeDuplicateKey, Message: msg, Offset: -1, Line: k.Line, Column: k.Column})
				}
			}
		} else {
			first[key] = k
		}
		v, err := c.value(vn, kpath, depth+1)
		if err != nil {
			return Value{}, err
		}
		if at, dup := index[key]; dup {
			members[at].Value = v
			continue
		}
		index[key] = len(members)
		members = append(members, Member{Key: key, Value: v})
	}
	return Value{Kind: KindObject, Members: members}, nil
}

func (c *yamlConverter) scalar(n *yaml.Node, path string) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, c.fail(n, path, CodeParseError, err.Error())
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		if json.Valid([]byte(n.Value)) {
			return Number(n.Value), nil
		}
		return Value{}, c.fail(n, path, CodeInvalidType, fmt.Sprintf("integer %q has no JSON form", n.Value))
	case "!!float":
		return c.float(n, path)
	default:
		return String(n.Value), nil
	}
}

// float keeps a JSON-compatible numeral as written; other YAML spellings are
// normalized while staying non-integral, so they still infer as "number".
func (c *yamlConverter) float(n *yaml.Node, path string) (Value, error) {
	if json.Valid([]byte(n.Value)) {
		return Number(n.Value), nil
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return Value{}, c.fail(n, path, CodeParseError, err.Error())
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, c.fail(n, path, CodeInvalidType, fmt.Sprintf("%s has no JSON form", n.Value))
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return Number(s), nil
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
