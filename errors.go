package schemagen

import (
	"errors"
	"fmt"
	"strings"

	eng "github.com/reoring/schemagen/internal/engine"
)

// Issue codes reported while reading instances.
const (
	CodeParseError   = eng.CodeParseError
	CodeDuplicateKey = eng.CodeDuplicateKey
	CodeTruncated    = eng.CodeTruncated
	CodeInvalidType  = "invalid_type"
	CodeRepaired     = "repaired"
)

// Issue is a single problem found in the input.
type Issue struct {
	Path    string // JSON Pointer of the offending value ("/" for the root), when known.
	Code    string
	Message string
	Cause   error // Optional underlying error.
	Offset  int64 // Byte offset in the input, -1 when unknown.
	Line    int   // 1-based line for YAML input, 0 when unknown.
	Column  int
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(i.Code)
	if i.Path != "" {
		b.WriteString(" at ")
		b.WriteString(i.Path)
	}
	if i.Line > 0 {
		fmt.Fprintf(&b, " (line %d, column %d)", i.Line, i.Column)
	} else if i.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", i.Offset)
	}
	if i.Message != "" {
		b.WriteString(": ")
		b.WriteString(i.Message)
	}
	return b.String()
}

// Issues is a collection of input problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Unwrap exposes the causes of the issues to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func singleIssue(code, msg string) Issues {
	return Issues{{Code: code, Message: msg, Offset: -1}}
}

func fromEngineIssue(si eng.SimpleIssue) Issue {
	return Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: si.Offset}
}

// toIssues maps reader errors to Issues. Errors that are already Issues pass
// through; engine enforcement errors keep their code and path; anything else
// is a parse error.
func toIssues(err error, offset int64) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{fromEngineIssue(ie.SimpleIssue)}
	}
	return Issues{{Code: CodeParseError, Message: err.Error(), Cause: err, Offset: offset}}
}
