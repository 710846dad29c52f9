// Package errs defines the structured error types returned across the
// parse/transform/execute pipeline. Each is a plain struct implementing
// error, grounded on vm/exception.go's ExceptionObject shape (message plus
// structured fields) rather than opaque fmt.Errorf strings, so callers can
// type-switch on failure kind instead of matching error text.
package errs

import (
	"fmt"

	"github.com/klve/jstrace/pkg/ast"
)

// ParseError reports a syntax error at a specific source span.
type ParseError struct {
	Span    ast.Span
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

// RuntimeError wraps a panic or thrown value surfaced while running the
// instrumented program.
type RuntimeError struct {
	Message string
	Stack   string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("runtime error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("runtime error: %s", e.Message)
}

func (e *RuntimeError) Unwrap() error { return e.Cause }

// LimitKind names which cooperative execution limit was exceeded.
type LimitKind int

const (
	LimitTime LimitKind = iota
	LimitSteps
)

func (k LimitKind) String() string {
	switch k {
	case LimitTime:
		return "time"
	case LimitSteps:
		return "steps"
	default:
		return "unknown"
	}
}

// LimitExceeded reports that maxTime or maxSteps was reached mid-execution.
// Observed carries the magnitude that tripped the limit: the elapsed
// milliseconds for LimitTime, the step count for LimitSteps. Steps recorded
// before the limit was hit are still returned alongside it.
type LimitExceeded struct {
	Kind     LimitKind
	Observed int64
}

func (e *LimitExceeded) Error() string {
	return fmt.Sprintf("limit exceeded: %s (observed %d)", e.Kind, e.Observed)
}

// OptionsInvalid reports that the caller's Options value failed the semantic
// check in klve.VerifyOptions: filter.names.include and filter.names.exclude
// both non-empty. Options are not checked against OptionsSchema here.
type OptionsInvalid struct {
	Field   string
	Message string
}

func (e *OptionsInvalid) Error() string {
	return fmt.Sprintf("invalid option %q: %s", e.Field, e.Message)
}
