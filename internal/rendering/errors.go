// Package rendering turns a canonical CV into a themed LaTeX document and compiles it to PDF.
package rendering

import (
	"errors"
	"fmt"
)

// ErrCompilerMissing is returned when pdflatex is not installed.
var ErrCompilerMissing = errors.New("pdflatex not found in PATH")

// OptionError reports an unsupported export option.
type OptionError struct {
	Option string
	Value  string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.Option, e.Value)
}

// RenderError represents a failure building or executing the LaTeX template
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// CompileError represents a pdflatex failure. LogOutput holds the compiler transcript.
type CompileError struct {
	Message   string
	LogOutput string
	Cause     error
}

func (e *CompileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LaTeX compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("LaTeX compilation error: %s", e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}
