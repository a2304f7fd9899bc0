package schemagen

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/kaptinlin/jsonrepair"
)

var (
	errEmptyInput   = errors.New("empty input")
	errTrailingData = errors.New("unexpected data after top-level value")
)

// ReadJSON parses exactly one JSON document. Empty input and data after the
// document are parse errors. Failures are returned as Issues.
func ReadJSON(data []byte, opt ReadOpt) (Value, error) {
	v, err := readJSONDocument(data, opt)
	if err == nil || !opt.Repair || !repairable(err) {
		return v, err
	}
	return repairJSON(data, opt, err)
}

// ReadJSONStream parses every JSON document of a stream of concatenated or
// newline-delimited values. Repair is not applied to streams.
func ReadJSONStream(r io.Reader, opt ReadOpt) ([]Value, error) {
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read instances: %w", err)
	}
	if err := checkSize(data, opt); err != nil {
		return nil, err
	}
	src := enforce(driverFor(opt).NewBytes(data), opt)
	var out []Value
	for {
		v, err := decodeNext(src)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, toIssues(err, src.Location())
		}
		out = append(out, v)
	}
}

// Read parses one instance document in the given format. FormatAuto tries
// JSON first and falls back to YAML; with Repair set, repairing the JSON is
// the last resort.
func Read(data []byte, format Format, opt ReadOpt) (Value, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(data, opt)
	case FormatYAML:
		return singleDocument(ReadYAML(data, opt))
	}
	v, jerr := readJSONDocument(data, opt)
	if jerr == nil || !repairable(jerr) {
		return v, jerr
	}
	if yv, yerr := singleDocument(ReadYAML(data, opt)); yerr == nil {
		return yv, nil
	}
	if opt.Repair {
		return repairJSON(data, opt, jerr)
	}
	return Value{}, jerr
}

// ReadAll parses every instance document in the given format: a JSON value
// stream or a multi-document YAML stream. FormatAuto tries JSON first and
// falls back to YAML.
func ReadAll(data []byte, format Format, opt ReadOpt) ([]Value, error) {
	switch format {
	case FormatJSON:
		return ReadJSONStream(bytes.NewReader(data), opt)
	case FormatYAML:
		return ReadYAML(data, opt)
	}
	vs, jerr := ReadJSONStream(bytes.NewReader(data), opt)
	if jerr == nil || !repairable(jerr) {
		return vs, jerr
	}
	if yvs, yerr := ReadYAML(data, opt); yerr == nil {
		return yvs, nil
	}
	return nil, jerr
}

func readJSONDocument(data []byte, opt ReadOpt) (Value, error) {
	if err := checkSize(data, opt); err != nil {
		return Value{}, err
	}
	src := enforce(driverFor(opt).NewBytes(data), opt)
	v, err := decodeNext(src)
	if errors.Is(err, io.EOF) {
		return Value{}, Issues{{Code: CodeParseError, Message: errEmptyInput.Error(), Cause: errEmptyInput, Offset: -1}}
	}
	if err != nil {
		return Value{}, toIssues(err, src.Location())
	}
	tok, err := src.NextToken()
	switch {
	case errors.Is(err, io.EOF):
		return v, nil
	case err != nil:
		return Value{}, toIssues(err, src.Location())
	default:
		return Value{}, Issues{{Code: CodeParseError, Message: errTrailingData.Error(), Cause: errTrailingData, Offset: tok.Offset}}
	}
}

func repairJSON(data []byte, opt ReadOpt, cause error) (Value, error) {
	fixed, err := jsonrepair.JSONRepair(string(data))
	if err != nil {
		return Value{}, cause
	}
	v, err := readJSONDocument([]byte(fixed), opt)
	if err != nil {
		return Value{}, cause
	}
	if opt.IssueSink != nil {
		opt.IssueSink(Issue{Path: "/", Code: CodeRepaired, Message: "input was repaired before parsing", Offset: -1})
	}
	return v, nil
}

// repairable reports whether err is a syntax error, as opposed to a limit or
// duplicate key violation that repairing cannot fix.
func repairable(err error) bool {
	iss, ok := AsIssues(err)
	if !ok || len(iss) == 0 {
		return false
	}
	for _, it := range iss {
		if it.Code != CodeParseError || it.Cause == nil {
			return false
		}
	}
	return true
}

func checkSize(data []byte, opt ReadOpt) error {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return Issues{{Path: "/", Code: CodeTruncated, Message: "max bytes exceeded", Offset: opt.MaxBytes}}
	}
	return nil
}

func driverFor(opt ReadOpt) JSONDriver {
	if opt.Driver != nil {
		return opt.Driver
	}
	return CurrentJSONDriver()
}

func singleDocument(vs []Value, err error) (Value, error) {
	if err != nil {
		return Value{}, err
	}
	switch len(vs) {
	case 0:
		return Value{}, Issues{{Code: CodeParseError, Message: errEmptyInput.Error(), Cause: errEmptyInput, Offset: -1}}
	case 1:
		return vs[0], nil
	default:
		return Value{}, singleIssue(CodeParseError, fmt.Sprintf("expected one document, found %d", len(vs)))
	}
}
