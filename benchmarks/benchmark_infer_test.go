package benchmarks_test

import (
	"bytes"
	"strconv"
	"testing"

	sg "github.com/reoring/schemagen"
)

// generateHugeJSONArray returns a JSON array of objects of the form:
// [{"id":"obj_0","name":"n0","age":0,"active":true,"meta":{"score":0.5},"k0":"v0",...}, ...]
func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (72 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		n := strconv.Itoa(i)
		buf.WriteString(`{"id":"obj_` + n + `","name":"n` + n + `","age":` + n + `,"active":true,"meta":{"score":` + n + `.5}`)
		for k := 0; k < extraFields; k++ {
			ks := strconv.Itoa(k)
			buf.WriteString(`,"k` + ks + `":"v` + ks + `"`)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func smallUserJSON() []byte {
	return []byte(`{"id":"u_1","name":"alice","age":30,"tags":["a","b"]}`)
}

const hugeN = 20000

func benchmarkRead(b *testing.B, d sg.JSONDriver, data []byte) {
	opt := sg.ReadOpt{Driver: d}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sg.ReadJSON(data, opt); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ReadJSON_Small_GoJSON(b *testing.B) {
	benchmarkRead(b, sg.GoJSONDriver(), smallUserJSON())
}

func Benchmark_ReadJSON_Small_Std(b *testing.B) {
	benchmarkRead(b, sg.StdJSONDriver(), smallUserJSON())
}

func Benchmark_ReadJSON_HugeArray_GoJSON(b *testing.B) {
	benchmarkRead(b, sg.GoJSONDriver(), generateHugeJSONArray(hugeN, 4))
}

func Benchmark_ReadJSON_HugeArray_Std(b *testing.B) {
	benchmarkRead(b, sg.StdJSONDriver(), generateHugeJSONArray(hugeN, 4))
}

func Benchmark_ReadJSON_HugeArray_Enforced(b *testing.B) {
	data := generateHugeJSONArray(hugeN, 4)
	opt := sg.ReadOpt{Strictness: sg.Strictness{OnDuplicateKey: sg.Error}, MaxDepth: 16}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sg.ReadJSON(data, opt); err != nil {
			b.Fatal(err)
		}
	}
}

// Inference only; the instance is parsed once outside the loop.
func Benchmark_Infer_HugeArray(b *testing.B) {
	v, err := sg.ReadJSON(generateHugeJSONArray(hugeN, 4), sg.ReadOpt{})
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if s := sg.Infer(v); s.Type != sg.TypeArray {
			b.Fatalf("unexpected root type %q", s.Type)
		}
	}
}

func Benchmark_Write_HugeArraySchema(b *testing.B) {
	v, err := sg.ReadJSON(generateHugeJSONArray(100, 64), sg.ReadOpt{})
	if err != nil {
		b.Fatal(err)
	}
	s := sg.Infer(v)
	var buf bytes.Buffer
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := sg.Write(&buf, s, sg.WriteOpt{}); err != nil {
			b.Fatal(err)
		}
	}
}
