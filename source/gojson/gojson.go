// Package gojson tokenizes JSON with github.com/goccy/go-json. It is the
// default tokenizer of the schemagen reader.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/schemagen/internal/engine"
)

// Decoder.Token does not check the separators between tokens, so the input
// is validated as a whole before the first token is handed out.
type source struct {
	data      []byte
	dec       *j.Decoder
	frames    eng.FrameStack
	validated bool
	err       error
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
// The whole input is read up front.
func NewReader(r io.Reader) eng.TokenSource {
	b, err := io.ReadAll(r)
	return &source{data: b, err: err}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource {
	return &source{data: b}
}

func (s *source) NextToken() (eng.Token, error) {
	if !s.validated {
		s.validated = true
		if s.err == nil {
			s.err = Validate(s.data)
		}
		dec := j.NewDecoder(bytes.NewReader(s.data))
		dec.UseNumber()
		s.dec = dec
	}
	if s.err != nil {
		return eng.Token{}, s.err
	}
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.frames.Open(true)
			return eng.Token{Kind: eng.KindBeginObject, Offset: -1}, nil
		case '}':
			s.frames.Close()
			return eng.Token{Kind: eng.KindEndObject, Offset: -1}, nil
		case '[':
			s.frames.Open(false)
			return eng.Token{Kind: eng.KindBeginArray, Offset: -1}, nil
		default:
			s.frames.Close()
			return eng.Token{Kind: eng.KindEndArray, Offset: -1}, nil
		}
	case string:
		if s.frames.TakeKey() {
			return eng.Token{Kind: eng.KindKey, String: v, Offset: -1}, nil
		}
		s.frames.ValueDone()
		return eng.Token{Kind: eng.KindString, String: v, Offset: -1}, nil
	case bool:
		s.frames.ValueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.frames.ValueDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.frames.ValueDone()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	}
	s.frames.ValueDone()
	return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
}

// Validate checks that data is a sequence of zero or more well-formed JSON
// values separated by optional whitespace. The stream decoder only finds
// value boundaries; each value is then checked by the strict decoder.
func Validate(data []byte) error {
	dec := j.NewDecoder(bytes.NewReader(data))
	for {
		var raw j.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		var v any
		if err := j.Unmarshal(raw, &v); err != nil {
			return err
		}
	}
}

// Location is unknown for go-json; byte limits are enforced up front by the reader.
func (s *source) Location() int64 { return -1 }
