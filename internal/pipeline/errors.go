package pipeline

import (
	"errors"
	"fmt"
)

const (
	CodeInvalidInput        = "invalid_input"
	CodeUnsupportedPlatform = "unsupported_platform"
	CodeUnsupportedFormat   = "unsupported_format"
	CodeConfiguration       = "configuration"
	CodeNotFound            = "not_found"
	CodeInternal            = "internal"
)

type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeInvalidInput:
		return 400
	case CodeUnsupportedPlatform, CodeUnsupportedFormat:
		return 422
	case CodeNotFound:
		return 404
	case CodeConfiguration:
		return 500
	default:
		return 500
	}
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: statusForCode(code)}
}

func NewInvalidInputError(message string) error {
	return newError(CodeInvalidInput, message)
}

func NewUnsupportedPlatformError(p Platform) error {
	return newError(CodeUnsupportedPlatform, fmt.Sprintf("unknown platform %q", string(p)))
}

func NewUnsupportedFormatError(f Format, p Platform) error {
	if p != "" {
		return newError(CodeUnsupportedFormat, fmt.Sprintf("format %q is not supported on %q", string(f), string(p)))
	}
	return newError(CodeUnsupportedFormat, fmt.Sprintf("unknown format %q", string(f)))
}

func NewNotFoundError(message string) error {
	return newError(CodeNotFound, message)
}

// NewConfigurationError signals a missing rule-table entry. Rule tables are
// expected to be complete, so this is fatal for the run.
func NewConfigurationError(message string) error {
	return newError(CodeConfiguration, message)
}

func IsCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// StageError attributes a failure to a named pipeline stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func StageNameFromError(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return "pipeline"
}
