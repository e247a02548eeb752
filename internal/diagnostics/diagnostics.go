// Package diagnostics defines the HegelError diagnostic carried by the
// builder's result: a stable error code, a phase, a location and a
// %-style message template.
package diagnostics

import (
	"fmt"

	"github.com/yifan-blog/hegel/internal/position"
)

// Phase identifies which stage of the builder produced the diagnostic.
type Phase string

const (
	PhaseNormalize Phase = "normalize"
	PhaseDeclare   Phase = "declare" // Pass 1
	PhaseInfer     Phase = "infer"   // Pass 2
	PhaseCheck     Phase = "check"   // whole-module call check
)

// ErrorCode is a stable identifier for a diagnostic kind, independent of the
// (possibly parameterized) rendered message.
type ErrorCode string

const (
	ErrRedeclaration     ErrorCode = "T001" // redeclaration of a name in the same scope
	ErrUnreachable       ErrorCode = "T002" // unreachable code after this line
	ErrUnresolvedRef     ErrorCode = "T003" // identifier does not resolve
	ErrNotCallable       ErrorCode = "T004" // call target is not a function type
	ErrBadCatchParam     ErrorCode = "T005" // unsupported catch-parameter pattern
	ErrUnknownOperator   ErrorCode = "T006" // operator has no seeded built-in variable
	ErrMalformedAST      ErrorCode = "T007" // a node escaped normalization in a shape the builder cannot handle
)

var templates = map[ErrorCode]string{
	ErrRedeclaration:   "%q is already declared in this scope",
	ErrUnreachable:     "Unreachable code after this line",
	ErrUnresolvedRef:   "%q is not defined",
	ErrNotCallable:     "%q is not callable: its type is not a function type",
	ErrBadCatchParam:   "catch parameter must be a simple identifier, got %s",
	ErrUnknownOperator: "no built-in variable seeded for operator %q",
	ErrMalformedAST:    "malformed AST: %s",
}

// DiagnosticError is a human-readable message plus a source location,
// caught by the driver and appended to the returned diagnostics list
// rather than aborting the build.
type DiagnosticError struct {
	Code  ErrorCode
	Phase Phase
	Loc   position.Loc
	Args  []interface{}
}

func (e *DiagnosticError) Error() string {
	template, ok := templates[e.Code]
	if !ok {
		return fmt.Sprintf("unknown diagnostic code: %s", e.Code)
	}
	msg := fmt.Sprintf(template, e.Args...)
	if e.Loc.Zero() {
		return fmt.Sprintf("[%s] %s", e.Code, msg)
	}
	return fmt.Sprintf("%s [%s] %s", e.Loc, e.Code, msg)
}

// New creates a diagnostic for the given phase, code and location.
func New(phase Phase, code ErrorCode, loc position.Loc, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Phase: phase, Loc: loc, Args: args}
}

// IsHegelError reports whether err is a *DiagnosticError: only recognized
// HegelErrors are collected, anything else re-raises.
func IsHegelError(err error) (*DiagnosticError, bool) {
	de, ok := err.(*DiagnosticError)
	return de, ok
}
