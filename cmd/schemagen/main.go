// Command schemagen infers a draft-07 JSON Schema from a JSON or YAML instance.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	sg "github.com/reoring/schemagen"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	output    string
	stdout    bool
	format    string
	outFormat string
	compact   bool
	multi     bool
	repair    bool
	driver    string
	dup       string
	maxDepth  int
	maxBytes  int64
	verbose   bool
	input     string
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		w := fs.Output()
		fmt.Fprintln(w, "schemagen infers a JSON Schema (draft-07) from an example document.\n\nUsage:\n  schemagen [flags] [input]\n\nWithout an input file the document is read from stdin. Without -o or -s the\nschema is written to <input stem>.jsonschema in the working directory, or to\nstdout when reading stdin.\n\nFlags:")
		fs.PrintDefaults()
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("schemagen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs)
	fs.StringVar(&o.output, "o", "", "write the schema to `file`")
	fs.StringVar(&o.output, "output", "", "same as -o")
	fs.BoolVar(&o.stdout, "s", false, "write the schema to stdout")
	fs.BoolVar(&o.stdout, "stdout", false, "same as -s")
	fs.StringVar(&o.format, "format", "auto", "input format: auto, json or yaml")
	fs.StringVar(&o.outFormat, "out-format", "json", "output format: json or yaml")
	fs.BoolVar(&o.compact, "compact", false, "write single-line JSON")
	fs.BoolVar(&o.multi, "multi", false, "treat the input as a stream of instances and merge their schemas")
	fs.BoolVar(&o.repair, "repair", false, "repair malformed JSON before parsing")
	fs.StringVar(&o.driver, "driver", "gojson", "JSON tokenizer: "+strings.Join(sg.JSONDriverNames(), ", "))
	fs.StringVar(&o.dup, "dup", "warn", "duplicate key policy: ignore, warn or error")
	fs.IntVar(&o.maxDepth, "max-depth", 0, "maximum nesting depth (0 = unlimited)")
	fs.Int64Var(&o.maxBytes, "max-bytes", 0, "maximum input size in bytes (0 = unlimited)")
	fs.BoolVar(&o.verbose, "v", false, "enable debug logs")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		o.input = fs.Arg(0)
	default:
		return o, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}
	if o.maxDepth < 0 || o.maxBytes < 0 {
		return o, errors.New("-max-depth and -max-bytes must not be negative")
	}
	return o, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "schemagen: %v\n", err)
		return exitUsage
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	readOpt, inFormat, writeOpt, err := o.resolve(logger)
	if err != nil {
		fmt.Fprintf(stderr, "schemagen: %v\n", err)
		return exitUsage
	}

	data, name, err := readInput(o.input, stdin)
	if errors.Is(err, errInteractive) {
		fmt.Fprintln(stderr, "schemagen: no input file given and stdin is a terminal")
		return exitUsage
	}
	if err != nil {
		logger.Error("read input failed", "input", name, "err", err)
		return exitFail
	}
	logger.Debug("read input", "input", name, "bytes", len(data), "format", inFormat, "driver", readOpt.Driver.Name())

	schema, err := infer(data, inFormat, readOpt, o.multi, logger)
	if err != nil {
		logger.Error("parse input failed", "input", name, "err", err)
		return exitFail
	}

	dest := o.destination()
	if err := writeSchema(dest, stdout, schema, writeOpt); err != nil {
		logger.Error("write schema failed", "output", dest, "err", err)
		return exitFail
	}
	logger.Debug("wrote schema", "output", destName(dest))
	return exitOK
}

// resolve turns flag values into reader and writer options.
func (o options) resolve(logger *slog.Logger) (sg.ReadOpt, sg.Format, sg.WriteOpt, error) {
	var ro sg.ReadOpt
	var wo sg.WriteOpt

	d, ok := sg.JSONDriverByName(o.driver)
	if !ok {
		return ro, 0, wo, fmt.Errorf("unknown -driver %q (want one of %s)", o.driver, strings.Join(sg.JSONDriverNames(), ", "))
	}
	sev, err := parseSeverity(o.dup)
	if err != nil {
		return ro, 0, wo, err
	}
	format, err := inputFormat(o.format, o.input)
	if err != nil {
		return ro, 0, wo, err
	}
	switch o.outFormat {
	case "json":
		wo.Format = sg.OutputJSON
	case "yaml":
		wo.Format = sg.OutputYAML
	default:
		return ro, 0, wo, fmt.Errorf("unknown -out-format %q (want json or yaml)", o.outFormat)
	}
	wo.Compact = o.compact

	ro = sg.ReadOpt{
		Strictness: sg.Strictness{OnDuplicateKey: sev},
		MaxDepth:   o.maxDepth,
		MaxBytes:   o.maxBytes,
		Repair:     o.repair,
		Driver:     d,
		IssueSink: func(i sg.Issue) {
			logger.Warn("input issue", "code", i.Code, "path", i.Path, "detail", i.Message)
		},
	}
	return ro, format, wo, nil
}

func parseSeverity(s string) (sg.Severity, error) {
	switch s {
	case "ignore":
		return sg.Ignore, nil
	case "warn":
		return sg.Warn, nil
	case "error":
		return sg.Error, nil
	}
	return sg.Ignore, fmt.Errorf("unknown -dup %q (want ignore, warn or error)", s)
}

// inputFormat picks the input format from the flag, then the file extension.
func inputFormat(flagValue, input string) (sg.Format, error) {
	switch flagValue {
	case "json":
		return sg.FormatJSON, nil
	case "yaml":
		return sg.FormatYAML, nil
	case "auto":
	default:
		return sg.FormatAuto, fmt.Errorf("unknown -format %q (want auto, json or yaml)", flagValue)
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".yaml", ".yml":
		return sg.FormatYAML, nil
	case ".json", ".jsonl", ".ndjson":
		return sg.FormatJSON, nil
	}
	return sg.FormatAuto, nil
}

var errInteractive = errors.New("stdin is a terminal")

func readInput(path string, stdin io.Reader) ([]byte, string, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("reading input: %w", err)
		}
		return b, path, nil
	}
	if f, ok := stdin.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil, "stdin", errInteractive
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return nil, "stdin", fmt.Errorf("reading stdin: %w", err)
	}
	return b, "stdin", nil
}

func infer(data []byte, format sg.Format, opt sg.ReadOpt, multi bool, logger *slog.Logger) (*sg.Schema, error) {
	if !multi {
		v, err := sg.Read(data, format, opt)
		if err != nil {
			return nil, err
		}
		return sg.Infer(v), nil
	}
	vs, err := sg.ReadAll(data, format, opt)
	if err != nil && opt.Repair && format != sg.FormatYAML {
		// streams are not repaired; a single malformed document still is
		v, rerr := sg.ReadJSON(data, opt)
		if rerr != nil {
			return nil, err
		}
		vs, err = []sg.Value{v}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, errors.New("no instances in input")
	}
	logger.Debug("merging instances", "count", len(vs))
	return sg.InferAll(vs...), nil
}

// destination returns the output path, or "" for stdout.
func (o options) destination() string {
	switch {
	case o.stdout:
		return ""
	case o.output != "":
		return o.output
	case o.input != "":
		stem := strings.TrimSuffix(filepath.Base(o.input), filepath.Ext(o.input))
		return stem + ".jsonschema"
	}
	return ""
}

func destName(dest string) string {
	if dest == "" {
		return "stdout"
	}
	return dest
}

func writeSchema(dest string, stdout io.Writer, s *sg.Schema, opt sg.WriteOpt) error {
	if dest == "" {
		return sg.Write(stdout, s, opt)
	}
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := sg.Write(f, s, opt); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}
