package errors

import (
	"errors"
	"fmt"

	"github.com/mcncl/armaconf/arma"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe a config to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrUnknownFormat   = errors.New("unknown output format")
	ErrDuplicateMember = errors.New("duplicate member name")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeDecoding ErrorType = "decoding"
	ErrorTypeAnalysis ErrorType = "analysis"
	ErrorTypeGenerate ErrorType = "generate"
	ErrorTypeFormat   ErrorType = "format"
	ErrorTypeOutput   ErrorType = "output"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError of the same Type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewDecodingError creates a new error for a document that could not be decoded
func NewDecodingError(message string, err error) *AppError {
	return newError(ErrorTypeDecoding, message, err)
}

func NewAnalysisError(message string, err error) *AppError {
	return newError(ErrorTypeAnalysis, message, err)
}

func NewGenerateError(message string, err error) *AppError {
	return newError(ErrorTypeGenerate, message, err)
}

func NewFormatError(message string, err error) *AppError {
	return newError(ErrorTypeFormat, message, err)
}

func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// NewConfigError creates a new error for an unreadable or invalid config file
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// decodeHints explain the decoder's failure kinds in terms of the document.
var decodeHints = []struct {
	kind error
	hint string
}{
	{ErrDuplicateMember, "member names must be unique within a class, ignoring case"},
	{arma.ErrUnexpectedEOF, "the document ends early; check for an unterminated string or a missing '}'"},
	{arma.ErrExpectedArrayComma, "array elements must be separated by ','"},
	{arma.ErrExpectedArrayEnd, "an array is missing its closing '}'"},
	{arma.ErrExpectedArray, "array fields (name[]) take a value in braces: {a, b}"},
	{arma.ErrExpectedMapEnd, "a class body is missing its closing '}'"},
	{arma.ErrExpectedMap, "a class needs a body in braces: class Name { ... };"},
	{arma.ErrTrailingCharacters, "there is text after the end of the document"},
	{arma.ErrExpectedInteger, "a whole number was expected"},
	{arma.ErrExpectedFloat, "a number was expected"},
	{arma.ErrExpectedBoolean, "true or false was expected"},
	{arma.ErrExpectedNull, "null was expected"},
	{arma.ErrUnsupported, "the target type cannot hold this value"},
	{arma.ErrSyntax, "check that every statement ends with ';'"},
}

// DecodeHint returns a short explanation for a decoder error, or "" when err
// did not come from the decoder.
func DecodeHint(err error) string {
	for _, h := range decodeHints {
		if errors.Is(err, h.kind) {
			return h.hint
		}
	}
	var unknown *arma.UnknownFieldError
	if errors.As(err, &unknown) {
		if unknown.Suggestion != "" {
			return fmt.Sprintf("unknown field %q, did you mean %q?", unknown.Field, unknown.Suggestion)
		}
		return fmt.Sprintf("unknown field %q", unknown.Field)
	}
	return ""
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeDecoding:
			if hint := DecodeHint(appErr.Err); hint != "" {
				return fmt.Sprintf("Config decoding error: %s (%s)", appErr.Message, hint)
			}
			return fmt.Sprintf("Config decoding error: %s", appErr.Message)
		case ErrorTypeAnalysis:
			return fmt.Sprintf("Type analysis error: %s", appErr.Message)
		case ErrorTypeGenerate:
			return fmt.Sprintf("Code generation error: %s", appErr.Message)
		case ErrorTypeFormat:
			return fmt.Sprintf("Code formatting error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	switch {
	case errors.Is(err, ErrEmptyInput):
		return "Error: The input is empty. Please provide a config document."
	case errors.Is(err, ErrFileNotFound):
		return "Error: The specified file could not be found. Please check the file path."
	case errors.Is(err, ErrFileEmpty):
		return "Error: The specified file is empty."
	case errors.Is(err, ErrNoInput):
		return "Error: No input provided. Please specify a file with -i or pipe a config to stdin."
	case errors.Is(err, ErrInvalidFilePath):
		return "Error: Invalid file path. Please provide a valid file path."
	case errors.Is(err, ErrUnknownFormat):
		return "Error: Unknown output format. Use go, json or yaml."
	}
	if hint := DecodeHint(err); hint != "" {
		return fmt.Sprintf("Error: %v (%s)", err, hint)
	}
	return fmt.Sprintf("Error: %v", err)
}
