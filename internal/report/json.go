package report

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSONWriter writes results as JSON for tool integration. Output is
// compact unless indentation is configured, and always ends with a
// newline so files and pipes terminate cleanly.
type JSONWriter struct {
	baseWriter

	indent     bool
	prefix     string
	indentWith string

	// version, when set, wraps the output with a version field so
	// consumers can tell which release produced the file.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed output with the given line prefix and
// per-level indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.prefix = prefix
		w.indentWith = indent
	}
}

// WithPrettyPrint is WithIndent with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion adds a version field to the output identifying the release
// that generated the report.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// versionedResult wraps a Result with release metadata. The version lives
// in a wrapper rather than on Result itself because only serialized output
// needs it.
type versionedResult struct {
	Version string `json:"version"`
	*Result
}

// Write marshals the result and writes it to the output.
func (w *JSONWriter) Write(result *Result) (int, error) {
	var v any = result
	if w.version != "" {
		v = versionedResult{Version: w.version, Result: result}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}

	if w.indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, w.prefix, w.indentWith); err != nil {
			return 0, err
		}
		data = buf.Bytes()
	}

	return w.output.Write(append(data, '\n'))
}
