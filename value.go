package schemagen

import (
	"strconv"
)

// Kind identifies the JSON kind of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a parsed JSON instance. Exactly one payload field is meaningful,
// selected by Kind. Numbers keep the numeral as written so that 3 and 3.0
// stay distinguishable, and object members keep their input order.
type Value struct {
	Kind    Kind
	Bool    bool
	Number  string
	String  string
	Items   []Value
	Members []Member
}

// Member is a single key/value pair of an object Value.
type Member struct {
	Key   string
	Value Value
}

// Null returns the JSON null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number returns a JSON number from its numeral text.
func Number(numeral string) Value { return Value{Kind: KindNumber, Number: numeral} }

// Int returns a JSON integer numeral.
func Int(n int64) Value { return Number(strconv.FormatInt(n, 10)) }

// String returns a JSON string.
func String(s string) Value { return Value{Kind: KindString, String: s} }

// Array returns a JSON array of the given items.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindArray, Items: items}
}

// Object returns a JSON object with members in the given order.
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{Kind: KindObject, Members: members}
}

// M is shorthand for building a Member.
func M(key string, v Value) Member { return Member{Key: key, Value: v} }

// Get returns the value of the last member named key.
func (v Value) Get(key string) (Value, bool) {
	for i := len(v.Members) - 1; i >= 0; i-- {
		if v.Members[i].Key == key {
			return v.Members[i].Value, true
		}
	}
	return Value{}, false
}

// IsInteger reports whether the numeral is a base-10 integer that fits in
// 64 signed bits. The check is on the written form: "3.0" and "1e2" are not
// integers, neither is a numeral outside the int64 range.
func (v Value) IsInteger() bool {
	if v.Kind != KindNumber {
		return false
	}
	_, err := strconv.ParseInt(v.Number, 10, 64)
	return err == nil
}

// Equal reports deep equality. Object members compare as a mapping, so their
// order does not matter; arrays compare element by element. Numbers compare
// by value within their class (signed, unsigned, floating): 1.0 equals 1.00
// but not 1.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindString:
		return v.String == o.String
	case KindNumber:
		return numbersEqual(v.Number, o.Number)
	case KindArray:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		a, b := v.dedup(), o.dedup()
		if len(a) != len(b) {
			return false
		}
		for _, m := range a {
			ov, ok := o.Get(m.Key)
			if !ok || !m.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// dedup returns members with repeated keys collapsed to their last value.
func (v Value) dedup() []Member {
	seen := make(map[string]int, len(v.Members))
	out := make([]Member, 0, len(v.Members))
	for _, m := range v.Members {
		if i, ok := seen[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		seen[m.Key] = len(out)
		out = append(out, m)
	}
	return out
}

type numberClass int

const (
	numSigned numberClass = iota
	numUnsigned
	numFloat
)

func classifyNumber(s string) (numberClass, int64, uint64, float64) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if i >= 0 {
			return numUnsigned, 0, uint64(i), 0
		}
		return numSigned, i, 0, 0
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return numUnsigned, 0, u, 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return numFloat, 0, 0, f
}

func numbersEqual(a, b string) bool {
	ca, ia, ua, fa := classifyNumber(a)
	cb, ib, ub, fb := classifyNumber(b)
	if ca != cb {
		return false
	}
	switch ca {
	case numSigned:
		return ia == ib
	case numUnsigned:
		return ua == ub
	default:
		return fa == fb
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	out := v
	if v.Items != nil {
		out.Items = make([]Value, len(v.Items))
		for i := range v.Items {
			out.Items[i] = v.Items[i].Clone()
		}
	}
	if v.Members != nil {
		out.Members = make([]Member, len(v.Members))
		for i, m := range v.Members {
			out.Members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return out
}
