package schemagen_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	sg "github.com/reoring/schemagen"
)

func TestReadYAML_KeepsOrderAndNumerals(t *testing.T) {
	in := `
zeta: 1
alpha:
  - 2.50
  - "3"
  - true
  - ~
mid: {}
`
	vs, err := sg.ReadYAML([]byte(in), sg.ReadOpt{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []sg.Value{sg.Object(
		sg.M("zeta", sg.Int(1)),
		sg.M("alpha", sg.Array(sg.Number("2.50"), sg.String("3"), sg.Bool(true), sg.Null())),
		sg.M("mid", sg.Object()),
	)}
	if diff := cmp.Diff(want, vs); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestReadYAML_InfersLikeJSON(t *testing.T) {
	y, err := sg.Read([]byte("name: John\nage: 30\nscore: 1.5\ntags: [a, b]\n"), sg.FormatYAML, sg.ReadOpt{})
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	j := mustRead(t, `{"name":"John","age":30,"score":1.5,"tags":["a","b"]}`)
	if got, want := compactJSON(t, sg.Infer(y)), compactJSON(t, sg.Infer(j)); got != want {
		t.Fatalf("yaml and json inference differ\n got=%s\nwant=%s", got, want)
	}
}

func TestReadYAML_Scalars(t *testing.T) {
	cases := []struct {
		in   string
		want sg.Value
	}{
		{"0x1F", sg.Int(31)},
		{"-7", sg.Int(-7)},
		{"1e3", sg.Number("1e3")},
		{"3.0", sg.Number("3.0")},
		{".5", sg.Number("0.5")},
		{"1.e2", sg.Number("100.0")},
		{"yes", sg.String("yes")},
		{"null", sg.Null()},
		{"false", sg.Bool(false)},
		{"'12'", sg.String("12")},
	}
	for _, tc := range cases {
		v, err := sg.Read([]byte(tc.in), sg.FormatYAML, sg.ReadOpt{})
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, v); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestReadYAML_FloatsStayNumbers(t *testing.T) {
	v, err := sg.Read([]byte("1.e2"), sg.FormatYAML, sg.ReadOpt{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if s := sg.Infer(v); s.Type != sg.TypeNumber {
		t.Fatalf("a YAML float must infer as number, got %q", s.Type)
	}
}

func TestReadYAML_RejectsNonJSONFloats(t *testing.T) {
	for _, in := range []string{"a: .inf", "a: -.Inf", "a: .nan"} {
		_, err := sg.Read([]byte(in), sg.FormatYAML, sg.ReadOpt{})
		iss, ok := sg.AsIssues(err)
		if !ok || iss[0].Code != sg.CodeInvalidType || iss[0].Path != "/a" {
			t.Fatalf("%s: expected invalid_type at /a, got %v", in, err)
		}
	}
}

func TestReadYAML_Aliases(t *testing.T) {
	in := "base: &b {x: 1}\ncopy: *b\n"
	v, err := sg.Read([]byte(in), sg.FormatYAML, sg.ReadOpt{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	base, _ := v.Get("base")
	cp, _ := v.Get("copy")
	if !base.Equal(cp) || cp.Kind != sg.KindObject {
		t.Fatalf("alias not resolved: %+v", v)
	}

	nested := "a: &a {x: 1}\nb: &b [*a, *a]\nc: [*b, *b]\n"
	if _, err := sg.ReadYAML([]byte(nested), sg.ReadOpt{}); err != nil {
		t.Fatalf("nested aliases: %v", err)
	}
}

func TestReadYAML_CyclicAliasRejected(t *testing.T) {
	for _, in := range []string{
		"a: &a [1, *a]\n",
		"a: &a {b: {c: *a}}\n",
		"- &x [*x]\n",
	} {
		_, err := sg.ReadYAML([]byte(in), sg.ReadOpt{})
		iss, ok := sg.AsIssues(err)
		if !ok || iss[0].Code != sg.CodeParseError || iss[0].Line == 0 {
			t.Fatalf("%q: expected parse_error with a position, got %v", in, err)
		}
	}
}

// aliasBomb builds levels of anchors, each aliasing the previous one ten
// times, so the expanded document has 10^levels leaves.
func aliasBomb(levels int) string {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= levels; i++ {
		prev := "*l" + strconv.Itoa(i-1)
		b.WriteString("l" + strconv.Itoa(i) + ": &l" + strconv.Itoa(i) + " [")
		for k := 0; k < 10; k++ {
			if k > 0 {
				b.WriteString(", ")
			}
			b.WriteString(prev)
		}
		b.WriteString("]\n")
	}
	return b.String()
}

func TestReadYAML_AliasExpansionBounded(t *testing.T) {
	in := aliasBomb(6)
	_, err := sg.ReadYAML([]byte(in), sg.ReadOpt{MaxBytes: 1024, MaxDepth: 64})
	if !sg.HasCode(err, sg.CodeParseError) || !strings.Contains(err.Error(), "aliasing") {
		t.Fatalf("expected excessive aliasing error, got %v", err)
	}
	if _, err := sg.ReadYAML([]byte(aliasBomb(1)), sg.ReadOpt{}); err != nil {
		t.Fatalf("small alias fan-out must pass: %v", err)
	}
}

func TestReadYAML_DuplicateKeys(t *testing.T) {
	in := []byte("a: 1\nb: 2\na: x\n")

	var warned []sg.Issue
	vs, err := sg.ReadYAML(in, sg.ReadOpt{
		Strictness: sg.Strictness{OnDuplicateKey: sg.Warn},
		IssueSink:  func(i sg.Issue) { warned = append(warned, i) },
	})
	if err != nil {
		t.Fatalf("warn mode: %v", err)
	}
	if got := vs[0].Members; len(got) != 2 || got[0].Key != "a" || got[0].Value.String != "x" {
		t.Fatalf("last value must win at first position: %+v", got)
	}
	if len(warned) != 1 || warned[0].Path != "/a" || warned[0].Line != 3 {
		t.Fatalf("unexpected warnings: %+v", warned)
	}

	_, err = sg.ReadYAML(in, sg.ReadOpt{Strictness: sg.Strictness{OnDuplicateKey: sg.Error}})
	iss, ok := sg.AsIssues(err)
	if !ok || iss[0].Code != sg.CodeDuplicateKey || iss[0].Line != 3 || iss[0].Column != 1 {
		t.Fatalf("expected duplicate_key at 3:1, got %v", err)
	}
}

func TestReadYAML_MaxDepth(t *testing.T) {
	in := []byte("a:\n  b:\n    - 1\n")
	if _, err := sg.ReadYAML(in, sg.ReadOpt{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 must pass: %v", err)
	}
	_, err := sg.ReadYAML(in, sg.ReadOpt{MaxDepth: 2})
	iss, ok := sg.AsIssues(err)
	if !ok || iss[0].Path != "/a/b" {
		t.Fatalf("expected depth error at /a/b, got %v", err)
	}
}

func TestReadYAML_ComplexKeysRejected(t *testing.T) {
	_, err := sg.ReadYAML([]byte("? [a, b]\n: 1\n"), sg.ReadOpt{})
	if !sg.HasCode(err, sg.CodeInvalidType) {
		t.Fatalf("expected invalid_type, got %v", err)
	}
}

func TestReadYAML_MultiDocument(t *testing.T) {
	vs, err := sg.ReadYAML([]byte("a: 1\n---\n- x\n---\n~\n"), sg.ReadOpt{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(vs) != 3 || vs[0].Kind != sg.KindObject || vs[1].Kind != sg.KindArray || vs[2].Kind != sg.KindNull {
		t.Fatalf("unexpected documents: %+v", vs)
	}
	if _, err := sg.Read([]byte("a: 1\n---\nb: 2\n"), sg.FormatYAML, sg.ReadOpt{}); err == nil {
		t.Fatalf("Read must reject multiple documents")
	}
}

func TestReadYAML_SyntaxError(t *testing.T) {
	_, err := sg.ReadYAML([]byte("a: [1, 2\n"), sg.ReadOpt{})
	if !sg.HasCode(err, sg.CodeParseError) {
		t.Fatalf("expected parse_error, got %v", err)
	}
}
