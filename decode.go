package schemagen

import (
	"io"

	eng "github.com/reoring/schemagen/internal/engine"
)

// DecodeValue consumes the tokens of one JSON value from src and builds it.
// It returns io.EOF when src holds no further value. A repeated object key
// keeps its first position and takes the last value.
func DecodeValue(src Source) (Value, error) {
	return decodeNext(engineTokenSource(src))
}

func decodeNext(src eng.TokenSource) (Value, error) {
	tok, err := src.NextToken()
	if err != nil {
		return Value{}, err
	}
	return decodeValue(src, tok)
}

func decodeValue(src eng.TokenSource, tok eng.Token) (Value, error) {
	switch tok.Kind {
	case eng.KindBeginObject:
		return decodeObject(src)
	case eng.KindBeginArray:
		return decodeArray(src)
	case eng.KindString:
		return String(tok.String), nil
	case eng.KindNumber:
		return Number(tok.Number), nil
	case eng.KindBool:
		return Bool(tok.Bool), nil
	case eng.KindNull:
		return Null(), nil
	default:
		return Value{}, io.ErrUnexpectedEOF
	}
}

func decodeObject(src eng.TokenSource) (Value, error) {
	members := []Member{}
	var index map[string]int
	for {
		tok, err := nextInContainer(src)
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == eng.KindEndObject {
			return Value{Kind: KindObject, Members: members}, nil
		}
		if tok.Kind != eng.KindKey {
			return Value{}, io.ErrUnexpectedEOF
		}
		vt, err := nextInContainer(src)
		if err != nil {
			return Value{}, err
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return Value{}, err
		}
		if index == nil {
			index = make(map[string]int)
		}
		if i, dup := index[tok.String]; dup {
			members[i].Value = v
			continue
		}
		index[tok.String] = len(members)
		members = append(members, Member{Key: tok.String, Value: v})
	}
}

func decodeArray(src eng.TokenSource) (Value, error) {
	items := []Value{}
	for {
		tok, err := nextInContainer(src)
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == eng.KindEndArray {
			return Value{Kind: KindArray, Items: items}, nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
}

// nextInContainer turns a clean end of input inside a container into
// io.ErrUnexpectedEOF.
func nextInContainer(src eng.TokenSource) (eng.Token, error) {
	tok, err := src.NextToken()
	if err == io.EOF {
		return eng.Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}
