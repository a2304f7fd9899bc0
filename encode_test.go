package schemagen_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	sg "github.com/reoring/schemagen"
)

func TestWrite_PrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := sg.Write(&buf, sg.Infer(mustRead(t, `{"name":"John","age":30}`)), sg.WriteOpt{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": {
      "type": "string"
    },
    "age": {
      "type": "integer"
    }
  },
  "required": [
    "age",
    "name"
  ]
}
`
	if buf.String() != want {
		t.Fatalf("unexpected output\n got=%q\nwant=%q", buf.String(), want)
	}
}

func TestWrite_DoesNotEscapeHTML(t *testing.T) {
	got := compactJSON(t, sg.Infer(mustRead(t, `{"<a&b>":1,"$ref":"x<y"}`)))
	if !strings.Contains(got, `"<a&b>"`) || !strings.Contains(got, `"x<y"`) {
		t.Fatalf("HTML characters must be written as-is: %s", got)
	}
}

func TestWrite_YAMLKeepsOrder(t *testing.T) {
	s := sg.Infer(mustRead(t, `{"$ref":"#/definitions/a","zeta":[],"alpha":{"n":1.5}}`))
	var buf bytes.Buffer
	if err := sg.Write(&buf, s, sg.WriteOpt{Format: sg.OutputYAML}); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	out := buf.String()
	order := []string{"$schema:", "$ref:", "type: object", "properties:", "zeta:", "alpha:", "required:"}
	last := -1
	for _, k := range order {
		i := strings.Index(out, k)
		if i < 0 || i < last {
			t.Fatalf("key %q missing or out of order in:\n%s", k, out)
		}
		last = i
	}

	var got any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml output does not parse: %v\n%s", err, out)
	}
	want := normalize(t, compactJSON(t, s))
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("yaml and json disagree\n got=%v\nwant=%v", got, want)
	}
}

func TestWrite_CustomIndent(t *testing.T) {
	var buf bytes.Buffer
	if err := sg.Write(&buf, &sg.Schema{Type: sg.TypeArray, Items: &sg.Schema{}}, sg.WriteOpt{Indent: "\t"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "{\n\t\"type\": \"array\",\n\t\"items\": {}\n}\n"
	if buf.String() != want {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestValueMarshalJSON_PreservesOrderAndNumerals(t *testing.T) {
	src := `{"z":1.50,"a":[true,null,"s",-0,1e5],"m":{}}`
	v := mustRead(t, src)
	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != src {
		t.Fatalf("got %s want %s", b, src)
	}
}

func TestValueMarshalJSON_RejectsBadNumeral(t *testing.T) {
	if _, err := sg.Number("NaN").MarshalJSON(); err == nil {
		t.Fatalf("expected error for invalid numeral")
	}
}
