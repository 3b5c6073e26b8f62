package extractor

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTree indicates the parser returned no syntax tree at all.
	ErrNoTree = errors.New("parser produced no syntax tree")

	// ErrSyntax indicates the source contains syntax the grammar could not recover from.
	ErrSyntax = errors.New("syntax error")
)

// ParseError reports a source file whose declaration syntax could not be parsed.
type ParseError struct {
	Path   string
	Line   int // 1-based, 0 when unknown
	Column int // 1-based, 0 when unknown
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s at %d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
