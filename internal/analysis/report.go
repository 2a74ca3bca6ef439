// Package analysis implements the structural-analysis tool: it parses source
// code with tree-sitter and produces a report of its classes, functions, and
// signatures. The pipeline treats the report as opaque JSON; the shapes here
// exist so the extraction is testable.
package analysis

import "errors"

// ErrUnsupportedLanguage is returned for languages without a parser.
var ErrUnsupportedLanguage = errors.New("analysis: unsupported language")

// Parameter describes a single function or method parameter.
type Parameter struct {
	Name       string `json:"name"`
	Annotation string `json:"annotation,omitempty"`
}

// Function describes a top-level function or a method.
type Function struct {
	Type       string      `json:"type"` // "function" or "method"
	Name       string      `json:"name"`
	Docstring  string      `json:"docstring,omitempty"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"return_type,omitempty"`
}

// Class describes a class (or, for Go, a type with methods).
type Class struct {
	Type      string     `json:"type"` // always "class"
	Name      string     `json:"name"`
	Docstring string     `json:"docstring,omitempty"`
	Methods   []Function `json:"methods"`
}

// Report is the structural-analysis report written to shared state.
type Report struct {
	Language  string     `json:"language"`
	Classes   []Class    `json:"classes"`
	Functions []Function `json:"functions"`
}

// Empty reports carry the language but no symbols.
func (r Report) IsEmpty() bool {
	return len(r.Classes) == 0 && len(r.Functions) == 0
}
