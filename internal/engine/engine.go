package engine

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "begin_object"
	case KindEndObject:
		return "end_object"
	case KindBeginArray:
		return "begin_array"
	case KindEndArray:
		return "end_array"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Token represents a streaming token with approximate input offset.
// Number keeps the numeral exactly as written in the input.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// FrameStack tracks whether the innermost open object expects a key next.
// Tokenizers built on encoding/json style decoders use it to tell object keys
// apart from string values.
type FrameStack struct {
	frames []frame
}

type frame struct {
	object       bool
	expectingKey bool
}

// Open pushes a new container.
func (s *FrameStack) Open(object bool) {
	s.frames = append(s.frames, frame{object: object, expectingKey: object})
}

// Close pops the innermost container and marks it as a completed value of its parent.
func (s *FrameStack) Close() {
	if n := len(s.frames); n > 0 {
		s.frames = s.frames[:n-1]
	}
	s.ValueDone()
}

// TakeKey reports whether a string token at this position is an object key,
// flipping the frame to expect a value when it is.
func (s *FrameStack) TakeKey() bool {
	if n := len(s.frames); n > 0 {
		top := &s.frames[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return true
		}
	}
	return false
}

// ValueDone records that a member value was consumed.
func (s *FrameStack) ValueDone() {
	if n := len(s.frames); n > 0 {
		top := &s.frames[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
