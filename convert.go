package queryval

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Converter turns a raw string parameter into a typed value. A nil Converter
// in the declarations means string passthrough.
//
// A converter signals a user-input failure by returning an error that wraps
// *ConversionError; the engine reports it as a bad-input error. Any other
// error is treated as a programmer bug and propagates unchanged.
type Converter func(raw string) (any, error)

// ConversionError marks a converter failure caused by malformed input.
type ConversionError struct {
	Expected string // expected type name, empty when the converter is not a known primitive
	Err      error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("cannot convert value: expected %s", e.Expected)
	}
	return "cannot convert value"
}

// Unwrap exposes the underlying parse error.
func (e *ConversionError) Unwrap() error { return e.Err }

// Conversion tags err as a user-input conversion failure so the engine
// classifies it as bad input. Custom converters use it to opt in to the
// invalid-type classification:
//
//	currency := func(raw string) (any, error) {
//		if !strings.HasSuffix(raw, "$") {
//			return nil, queryval.Conversion("", errors.New("missing currency sign"))
//		}
//		return strconv.ParseFloat(strings.TrimSuffix(raw, "$"), 64)
//	}
func Conversion(expected string, err error) error {
	if err == nil {
		return nil
	}
	return &ConversionError{Expected: expected, Err: err}
}

// String is the identity converter, equivalent to declaring no converter.
func String(raw string) (any, error) {
	return raw, nil
}

// Int converts the raw value to int.
func Int(raw string) (any, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ConversionError{Expected: "int", Err: err}
	}
	return n, nil
}

// Int64 converts the raw value to int64.
func Int64(raw string) (any, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &ConversionError{Expected: "int64", Err: err}
	}
	return n, nil
}

// Float64 converts the raw value to float64.
func Float64(raw string) (any, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &ConversionError{Expected: "float", Err: err}
	}
	return f, nil
}

// Bool converts the raw value to bool, accepting the forms strconv.ParseBool does.
func Bool(raw string) (any, error) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &ConversionError{Expected: "bool", Err: err}
	}
	return b, nil
}

// Decimal converts the raw value to a decimal.Decimal, for monetary amounts
// where float rounding is unacceptable.
func Decimal(raw string) (any, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}
	return d, nil
}

// UUID converts the raw value to a uuid.UUID.
func UUID(raw string) (any, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}
	return id, nil
}

// Time returns a converter parsing the raw value as time.Time with the given layout.
func Time(layout string) Converter {
	return func(raw string) (any, error) {
		t, err := time.Parse(layout, raw)
		if err != nil {
			return nil, &ConversionError{Err: err}
		}
		return t, nil
	}
}

// Duration converts the raw value to a time.Duration.
func Duration(raw string) (any, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}
	return d, nil
}
