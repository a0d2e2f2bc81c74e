// Package lang defines the Parser interface for turning source files into syntax modules.
package lang

import (
	"fmt"

	"github.com/odvcencio/py2drawio/pkg/syntax"
)

// Parser converts source files into lowered syntax modules.
type Parser interface {
	// Language returns the name of the language this parser handles.
	Language() string
	// Parse analyzes a source file. Malformed input is reported as an error.
	Parse(path string, src []byte) (*syntax.Module, error)
}

// SyntaxError reports source that could not be parsed into a valid tree.
type SyntaxError struct {
	Path   string
	Line   int
	Column int
	Near   string
}

func (e *SyntaxError) Error() string {
	if e.Near != "" {
		return fmt.Sprintf("%s:%d:%d: invalid syntax near %q", e.Path, e.Line, e.Column, e.Near)
	}
	return fmt.Sprintf("%s:%d:%d: invalid syntax", e.Path, e.Line, e.Column)
}

// DecodeError reports a source file that is not valid UTF-8 text.
type DecodeError struct {
	Path string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: source is not valid UTF-8", e.Path)
}
