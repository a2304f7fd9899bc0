package engine

import (
	"strconv"
	"strings"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling,
// max depth checks, and max bytes truncation in a streaming fashion.

// Issue codes emitted by the enforcement layer.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal issues (duplicate keys in warn mode).
	// Fatal issues are returned as IssueError and are not sent to the sink.
	IssueSink func(SimpleIssue)
}

type enforceFrame struct {
	object     bool
	keys       map[string]struct{}
	path       string
	nextIndex  int
	pendingKey string
	keyed      bool
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []enforceFrame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	path := e.pathFor(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		obj := tok.Kind == KindBeginObject
		f := enforceFrame{object: obj, path: path}
		if obj {
			f.keys = make(map[string]struct{})
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.fatal(CodeParseError, path, "max depth exceeded", tok)
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.memberDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				si := SimpleIssue{Code: CodeDuplicateKey, Path: path, Message: "key '" + tok.String + "' duplicated", Offset: tok.Offset}
				if e.opt.OnDuplicate == DupError {
					return Token{}, IssueError{si}
				}
				if e.opt.IssueSink != nil {
					e.opt.IssueSink(si)
				}
			}
			if top.keys != nil {
				top.keys[tok.String] = struct{}{}
			}
			top.pendingKey = tok.String
			top.keyed = true
		}
	default:
		e.memberDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			return Token{}, e.fatal(CodeTruncated, path, "max bytes exceeded", tok)
		}
	}
	return tok, nil
}

func (e *enforcingTokenSource) fatal(code, path, msg string, tok Token) error {
	return IssueError{SimpleIssue{Code: code, Path: path, Message: msg, Offset: tok.Offset}}
}

func (e *enforcingTokenSource) memberDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.object {
			top.pendingKey = ""
			top.keyed = false
		}
	}
}

// pathFor returns the JSON Pointer of the value the token belongs to.
func (e *enforcingTokenSource) pathFor(tok Token) string {
	n := len(e.stack)
	if n == 0 {
		if tok.Kind == KindKey {
			return joinJSONPointer("", tok.String)
		}
		return "/"
	}
	top := &e.stack[n-1]
	switch tok.Kind {
	case KindKey:
		return joinJSONPointer(top.path, tok.String)
	case KindEndObject, KindEndArray:
		return normalizeIssuePath(top.path)
	}
	if !top.object {
		p := joinJSONPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	if top.keyed {
		return joinJSONPointer(top.path, top.pendingKey)
	}
	return normalizeIssuePath(top.path)
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

func normalizeIssuePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinJSONPointer(base, token string) string {
	if base == "" || base == "/" {
		return "/" + jsonPointerEscaper.Replace(token)
	}
	return base + "/" + jsonPointerEscaper.Replace(token)
}
