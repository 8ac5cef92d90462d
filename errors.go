package queryval

import (
	"errors"
	"fmt"
	"net/http"
)

// Common validation and integration errors.
var (
	// ErrMissingParameter is returned when a declared parameter is absent from the input.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvalidType is returned when a converter rejects the raw string value.
	ErrInvalidType = errors.New("invalid parameter type")

	// ErrFailedPredicate is returned when a converted value fails its predicate chain.
	ErrFailedPredicate = errors.New("invalid parameter value")

	// ErrParamNotFound is returned when accessing a name absent from the result view.
	ErrParamNotFound = errors.New("parameter not found")

	// ErrTypeMismatch is returned by typed accessors when the stored value has a different type.
	ErrTypeMismatch = errors.New("parameter type mismatch")

	// ErrUnsupportedRequest is returned when a source cannot locate a parameter collection.
	ErrUnsupportedRequest = errors.New("unsupported request shape")

	// ErrNoDeclarations is reported when a handler is wrapped without parameter declarations.
	ErrNoDeclarations = errors.New("no parameter declarations provided")

	// ErrParsingConfig is returned when environment variables cannot be parsed into Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
)

// Reason identifies which validation stage rejected a parameter.
type Reason string

const (
	ReasonMissing         Reason = "missing"
	ReasonInvalidType     Reason = "invalid_type"
	ReasonFailedPredicate Reason = "failed_predicate"
)

// ParamError is the bad-input error kind: the caller-supplied parameter was
// missing, unconvertible, or failed a predicate. It maps to a 400 response.
type ParamError struct {
	Code     int    // HTTP status code, http.StatusBadRequest
	Param    string // parameter name
	Reason   Reason // validation stage that rejected the parameter
	Expected string // expected type hint, set only for recognized primitive converters
	Value    any    // converted value, set when a predicate rejected it
	Message  string // custom predicate message, when one was registered
}

// Error implements the error interface.
func (e *ParamError) Error() string {
	switch e.Reason {
	case ReasonMissing:
		return fmt.Sprintf("missing required parameter %q", e.Param)
	case ReasonInvalidType:
		if e.Expected != "" {
			return fmt.Sprintf("invalid type of the %q parameter: expected %s", e.Param, e.Expected)
		}
		return fmt.Sprintf("invalid type of the %q parameter", e.Param)
	default:
		if e.Message != "" {
			return fmt.Sprintf("invalid %q value: %s", e.Param, e.Message)
		}
		return fmt.Sprintf("invalid %q value: %v", e.Param, e.Value)
	}
}

// Unwrap maps the reason to its sentinel so callers can use errors.Is.
func (e *ParamError) Unwrap() error {
	switch e.Reason {
	case ReasonMissing:
		return ErrMissingParameter
	case ReasonInvalidType:
		return ErrInvalidType
	default:
		return ErrFailedPredicate
	}
}

// Detail returns the structured payload rendered in 400 responses.
func (e *ParamError) Detail() map[string]any {
	detail := map[string]any{
		"error":     e.Error(),
		"parameter": e.Param,
		"reason":    string(e.Reason),
	}
	if e.Expected != "" {
		detail["expected"] = e.Expected
	}
	return detail
}

func missingParam(name string) *ParamError {
	return &ParamError{Code: http.StatusBadRequest, Param: name, Reason: ReasonMissing}
}

func invalidType(name, expected string) *ParamError {
	return &ParamError{Code: http.StatusBadRequest, Param: name, Reason: ReasonInvalidType, Expected: expected}
}

func failedPredicate(name string, value any, msg string) *ParamError {
	return &ParamError{Code: http.StatusBadRequest, Param: name, Reason: ReasonFailedPredicate, Value: value, Message: msg}
}

// InternalMessage is the fixed client-safe message carried by internal errors.
// The underlying cause is never exposed to clients.
const InternalMessage = "An error occurred while processing your request. Please contact the website administrator."

// InternalError is the internal error kind: something other than input
// validation went wrong inside a validation scope. It maps to a 500 response
// with a genericized message; the cause stays available via Unwrap for
// diagnostics only.
type InternalError struct {
	cause error
}

// Error returns the fixed client-safe message.
func (e *InternalError) Error() string { return InternalMessage }

// Unwrap exposes the original failure for logging and errors.Is/As checks.
func (e *InternalError) Unwrap() error { return e.cause }
