package toon

import (
	"errors"
	"fmt"
)

// ErrorCode classifies codec failures.
type ErrorCode uint8

const (
	CodeParse ErrorCode = iota + 1
	CodeInvalidEscape
	CodeLengthMismatch
	CodeDelimiterMismatch
	CodeUnterminatedString
	CodeInvalidNumber
	CodeMissingField
	CodeInvalidHeader
	CodeIO
	CodeSerialization
	CodeDeserialization
	CodeInvalidOptions
)

func (c ErrorCode) String() string {
	switch c {
	case CodeParse:
		return "parse error"
	case CodeInvalidEscape:
		return "invalid escape"
	case CodeLengthMismatch:
		return "length mismatch"
	case CodeDelimiterMismatch:
		return "delimiter mismatch"
	case CodeUnterminatedString:
		return "unterminated string"
	case CodeInvalidNumber:
		return "invalid number"
	case CodeMissingField:
		return "missing field"
	case CodeInvalidHeader:
		return "invalid header"
	case CodeIO:
		return "i/o error"
	case CodeSerialization:
		return "serialization error"
	case CodeDeserialization:
		return "deserialization error"
	case CodeInvalidOptions:
		return "invalid options"
	default:
		return "unknown error"
	}
}

// Sentinel errors for errors.Is matching against *Error.
var (
	ErrParse              = &Error{Code: CodeParse}
	ErrInvalidEscape      = &Error{Code: CodeInvalidEscape}
	ErrLengthMismatch     = &Error{Code: CodeLengthMismatch}
	ErrDelimiterMismatch  = &Error{Code: CodeDelimiterMismatch}
	ErrUnterminatedString = &Error{Code: CodeUnterminatedString}
	ErrInvalidNumber      = &Error{Code: CodeInvalidNumber}
	ErrMissingField       = &Error{Code: CodeMissingField}
	ErrInvalidHeader      = &Error{Code: CodeInvalidHeader}
	ErrIO                 = &Error{Code: CodeIO}
	ErrSerialization      = &Error{Code: CodeSerialization}
	ErrDeserialization    = &Error{Code: CodeDeserialization}
	ErrInvalidOptions     = &Error{Code: CodeInvalidOptions}
)

// Error is returned by every failing codec operation.
//
// Pos is set for decode errors. Expected and Found carry the declared and
// realised counts of a length mismatch.
type Error struct {
	Code     ErrorCode
	Pos      Position
	Msg      string
	Expected int
	Found    int
	Err      error
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Code == CodeLengthMismatch {
		msg = fmt.Sprintf("%s: expected %d, found %d", msg, e.Expected, e.Found)
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Pos.Line > 0 {
		msg = fmt.Sprintf("%s at %s", msg, e.Pos)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "toon: " + msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same code, so errors.Is(err, ErrLengthMismatch)
// works for any length mismatch.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, pos Position, msg string) *Error {
	return &Error{Code: code, Pos: pos, Msg: msg}
}

func wrapError(code ErrorCode, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

func lengthMismatch(pos Position, what string, expected, found int) *Error {
	return &Error{Code: CodeLengthMismatch, Pos: pos, Msg: what, Expected: expected, Found: found}
}

// IsCode reports whether err is a codec error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var te *Error
	return errors.As(err, &te) && te.Code == code
}
