package schemagen

// Severity expresses how an input problem is handled.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate object keys. Whatever the
// severity, a duplicate that does not fail the read keeps its first position
// and takes the last value.
type Strictness struct {
	OnDuplicateKey Severity
}

// Format names the syntax of an instance document.
type Format int

const (
	FormatAuto Format = iota // JSON, falling back to YAML
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// ReadOpt bundles reading options. The zero value reads with the current
// JSON driver, ignores duplicate keys and applies no limits.
type ReadOpt struct {
	Strictness Strictness
	MaxDepth   int   // 0 disables the nesting limit
	MaxBytes   int64 // 0 disables the size limit
	// Repair retries a JSON document that fails to parse after passing it
	// through jsonrepair once.
	Repair bool
	// Driver overrides the global JSON driver when non-nil.
	Driver JSONDriver
	// IssueSink receives non-fatal issues such as duplicate keys in Warn mode
	// and the notice that a document was repaired.
	IssueSink func(Issue)
}
