package sema

import (
	"fmt"

	"curv/internal/diag"
	"curv/internal/source"
)

// Error is a fail-fast analysis failure. The first Error aborts the
// whole enclosing top-level scope analysis; there is no recovery,
// since re-running static analysis cannot change the outcome.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	if e.Code.Internal() {
		return "internal error: " + e.Msg
	}
	return e.Msg
}

// Diagnostic converts the error for reporting.
func (e *Error) Diagnostic() diag.Diagnostic {
	msg := e.Msg
	if e.Code.Internal() {
		msg = "internal error: " + msg
	}
	return diag.NewError(e.Code, e.Span, msg)
}

func errAt(code diag.Code, sp source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)}
}
