package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names an output mode selectable with -z/--output.
type Format string

const (
	// FormatMinimal is the default human-readable YAML rendering.
	FormatMinimal Format = "minimal"
	// FormatJSON renders results as indented JSON.
	FormatJSON Format = "json"
)

// ParseFormat validates an output mode name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatMinimal:
		return FormatMinimal, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output mode %q (want %s or %s)", s, FormatMinimal, FormatJSON)
}

// Formatter writes command results in one output mode.
type Formatter interface {
	// Object writes a result tree.
	Object(w io.Writer, obj *Object) error

	// Message writes a one-line status message.
	Message(w io.Writer, msg string) error

	// Result writes a result tree together with its status message.
	Result(w io.Writer, obj *Object, msg string) error

	// Error writes a failure of the given kind.
	Error(w io.Writer, kind string, err error) error
}

// New returns the formatter for format.
func New(format Format) Formatter {
	if format == FormatJSON {
		return NewJSONFormatter()
	}
	return NewMinimalFormatter()
}

// MinimalFormatter renders YAML trees and plain messages.
type MinimalFormatter struct{}

// NewMinimalFormatter creates a new minimal formatter.
func NewMinimalFormatter() *MinimalFormatter {
	return &MinimalFormatter{}
}

// Object writes obj as YAML.
func (f *MinimalFormatter) Object(w io.Writer, obj *Object) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(obj)
}

// Message writes msg on its own line.
func (f *MinimalFormatter) Message(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, msg)
	return err
}

// Result writes obj followed by msg.
func (f *MinimalFormatter) Result(w io.Writer, obj *Object, msg string) error {
	if err := f.Object(w, obj); err != nil {
		return err
	}
	return f.Message(w, msg)
}

// Error writes "Error: <err>".
func (f *MinimalFormatter) Error(w io.Writer, _ string, err error) error {
	_, werr := fmt.Fprintf(w, "Error: %v\n", err)
	return werr
}

// JSONFormatter renders every result as one JSON document.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Object writes obj as indented JSON.
func (f *JSONFormatter) Object(w io.Writer, obj *Object) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(obj)
}

// Message writes {"message": msg}.
func (f *JSONFormatter) Message(w io.Writer, msg string) error {
	return f.Object(w, NewObject().Set("message", msg))
}

// Result writes obj with a trailing "message" key.
func (f *JSONFormatter) Result(w io.Writer, obj *Object, msg string) error {
	out := NewObject()
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		out.Set(k, v)
	}
	out.Set("message", msg)
	return f.Object(w, out)
}

// Error writes {"error": {"kind": kind, "message": err}}.
func (f *JSONFormatter) Error(w io.Writer, kind string, err error) error {
	body := NewObject().Set("kind", kind).Set("message", err.Error())
	return f.Object(w, NewObject().Set("error", body))
}
