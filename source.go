package schemagen

import (
	"io"
	"sort"
	"sync"

	eng "github.com/reoring/schemagen/internal/engine"
	gojsonsrc "github.com/reoring/schemagen/source/gojson"
	jsonsrc "github.com/reoring/schemagen/source/json"
)

// TokenKind enumerates JSON token kinds.
type TokenKind int

const (
	TokenBeginObject TokenKind = iota
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

// Token describes a token in the input stream. Offset records the byte position
// when known (-1 otherwise).
type Token struct {
	Kind   TokenKind
	String string // Stored for key/string tokens.
	Number string // Numeral text as written in the input.
	Bool   bool
	Offset int64
}

// Source abstracts over token producers. NextToken returns io.EOF once the
// input is exhausted.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into a Source via a pluggable SPI. The default
// implementation is based on goccy/go-json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = goJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default go-json backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = goJSONDriver{}
	jsonDriverMu.Unlock()
}

// CurrentJSONDriver returns the global JSON driver.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// GoJSONDriver returns the driver backed by goccy/go-json.
func GoJSONDriver() JSONDriver { return goJSONDriver{} }

// StdJSONDriver returns the driver backed by encoding/json. Unlike the go-json
// driver it reports byte offsets, which makes parse errors easier to locate.
func StdJSONDriver() JSONDriver { return stdJSONDriver{} }

var namedDrivers = map[string]func() JSONDriver{
	"gojson": GoJSONDriver,
	"std":    StdJSONDriver,
}

// JSONDriverByName resolves the built-in drivers "gojson" and "std".
func JSONDriverByName(name string) (JSONDriver, bool) {
	f, ok := namedDrivers[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// JSONDriverNames lists the names accepted by JSONDriverByName.
func JSONDriverNames() []string {
	out := make([]string, 0, len(namedDrivers))
	for n := range namedDrivers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

type goJSONDriver struct{}

func (goJSONDriver) NewReader(r io.Reader) Source { return SourceFromEngine(gojsonsrc.NewReader(r)) }
func (goJSONDriver) NewBytes(b []byte) Source     { return SourceFromEngine(gojsonsrc.NewBytes(b)) }
func (goJSONDriver) Name() string                 { return "go-json" }

type stdJSONDriver struct{}

func (stdJSONDriver) NewReader(r io.Reader) Source { return SourceFromEngine(jsonsrc.NewReader(r)) }
func (stdJSONDriver) NewBytes(b []byte) Source     { return SourceFromEngine(jsonsrc.NewBytes(b)) }
func (stdJSONDriver) Name() string                 { return "encoding/json" }

// JSONReader wraps an io.Reader as a JSON Source using the global driver.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source using the global driver.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }

// SourceFromEngine wraps an engine.TokenSource as a Source.
func SourceFromEngine(inner eng.TokenSource) Source {
	return &engineSourceAdapter{inner: inner}
}

// enforce wraps s with duplicate key, depth and size enforcement per opt.
// It returns s unchanged when every check is disabled.
func enforce(s Source, opt ReadOpt) eng.TokenSource {
	inner := engineTokenSource(s)
	if opt.Strictness.OnDuplicateKey == Ignore && opt.MaxDepth == 0 && opt.MaxBytes == 0 {
		return inner
	}
	var forward func(eng.SimpleIssue)
	if opt.IssueSink != nil {
		forward = func(si eng.SimpleIssue) { opt.IssueSink(fromEngineIssue(si)) }
	}
	return eng.WrapWithEnforcement(inner, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   forward,
	})
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

type engineSourceAdapter struct {
	inner eng.TokenSource
}

func (s *engineSourceAdapter) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s *engineSourceAdapter) Location() int64 { return s.inner.Location() }

// tokenSourceAdapter exposes a user supplied Source to the engine.
type tokenSourceAdapter struct{ inner Source }

func (a *tokenSourceAdapter) NextToken() (eng.Token, error) {
	t, err := a.inner.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{Kind: eng.Kind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}

func (a *tokenSourceAdapter) Location() int64 { return a.inner.Location() }

func engineTokenSource(s Source) eng.TokenSource {
	if ea, ok := s.(*engineSourceAdapter); ok {
		return ea.inner
	}
	return &tokenSourceAdapter{inner: s}
}
