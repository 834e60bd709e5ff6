package arma

import (
	"errors"
	"fmt"
	"reflect"
)

// Decode failure kinds. Every error returned by a Decoder wraps exactly one of
// these, so callers can test for them with errors.Is.
var (
	ErrUnexpectedEOF      = errors.New("unexpected end of input")
	ErrSyntax             = errors.New("syntax error")
	ErrExpectedInteger    = errors.New("expected integer")
	ErrExpectedFloat      = errors.New("expected float")
	ErrExpectedBoolean    = errors.New("expected boolean")
	ErrExpectedNull       = errors.New("expected null")
	ErrExpectedArray      = errors.New("expected '{' to open array")
	ErrExpectedArrayComma = errors.New("expected ',' between array elements")
	ErrExpectedArrayEnd   = errors.New("expected '}' to close array")
	ErrExpectedMap        = errors.New("expected '{' to open class body")
	ErrExpectedMapEnd     = errors.New("expected '}' to close class body")
	ErrTrailingCharacters = errors.New("trailing characters after document")
	ErrUnsupported        = errors.New("unsupported construct")
)

// SyntaxError describes where in the input a decode failure happened.
// Offset is the byte offset of the unconsumed input at the time of failure.
type SyntaxError struct {
	Err    error
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("arma: %v at offset %d: %s", e.Err, e.Offset, e.Msg)
	}
	return fmt.Sprintf("arma: %v at offset %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// UnmarshalTypeError reports a value that cannot be stored in the Go value it
// was decoded into.
type UnmarshalTypeError struct {
	Value  string
	Type   reflect.Type
	Field  string
	Offset int
}

func (e *UnmarshalTypeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("arma: cannot unmarshal %s into field %s of type %s", e.Value, e.Field, e.Type)
	}
	return fmt.Sprintf("arma: cannot unmarshal %s into Go value of type %s", e.Value, e.Type)
}

// UnknownFieldError is returned in strict mode when a statement names a field
// the target struct does not have.
type UnknownFieldError struct {
	Field      string
	Type       reflect.Type
	Suggestion string
}

func (e *UnknownFieldError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("arma: unknown field %q in %s (did you mean %q?)", e.Field, e.Type, e.Suggestion)
	}
	return fmt.Sprintf("arma: unknown field %q in %s", e.Field, e.Type)
}

// InvalidUnmarshalError describes an invalid argument passed to Unmarshal.
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "arma: Unmarshal(nil)"
	}
	if e.Type.Kind() != reflect.Pointer {
		return "arma: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "arma: Unmarshal(nil " + e.Type.String() + ")"
}
