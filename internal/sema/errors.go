package sema

import (
	"fmt"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

var noSpan source.Span

// Error is an expected resolution or instantiation failure. It carries
// everything needed to report it at the triggering location.
type Error struct {
	Code    diag.Code
	Span    source.Span
	Message string
	Notes   []diag.Note
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Message)
}

func (e *Error) WithNote(sp source.Span, msg string) *Error {
	e.Notes = append(e.Notes, diag.Note{Span: sp, Msg: msg})
	return e
}

func errorf(code diag.Code, sp source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: sp, Message: fmt.Sprintf(format, args...)}
}

// InvariantError is raised by panic when a collaborator breaks an internal
// invariant, such as a symbol expected to be a class that is not one. The
// driver recovers it and aborts the compilation unit.
type InvariantError struct {
	Message string
}

func (e InvariantError) Error() string { return "internal error: " + e.Message }

func invariant(format string, args ...any) {
	panic(InvariantError{Message: fmt.Sprintf(format, args...)})
}
