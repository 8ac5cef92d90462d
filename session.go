package queryval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// With is the scoped validated-access session: it runs the validation pass
// and, on success, hands the immutable result view to fn. Every exit path
// goes through exactly one reclassification step with three terminal
// outcomes:
//
//  1. Validation rejected the input: the *ParamError is returned as-is
//     (bad input, never logged).
//  2. fn returned nil and did not panic: With returns nil.
//  3. Anything else failed, whether an error returned by fn, a panic inside
//     fn, or an untagged converter error: the event is logged once with the
//     raw parameters, the request body when the source exposes one, and a
//     stack trace, then surfaced as *InternalError with a generic client
//     message.
//
// A *ParamError returned by fn itself passes through unchanged, so handlers
// can reject input after inspecting the view. ErrUnsupportedRequest from the
// source is an integration bug and is returned as-is without reclassification.
func (v *Validator) With(fn func(p *Params) error) (err error) {
	raw, err := v.src.ParamValues()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = v.reclassify(raw, fmt.Errorf("panic in validation scope: %v", r))
			return
		}
		if err == nil {
			return
		}
		var paramErr *ParamError
		if errors.As(err, &paramErr) {
			// Expected bad input, routine and never logged.
			return
		}
		err = v.reclassify(raw, err)
	}()

	params, err := v.validate(raw)
	if err != nil {
		return err
	}
	return fn(params)
}

// reclassify logs the failure with full diagnostic context and converts it
// into the internal error kind. Called exactly once per failed session.
func (v *Validator) reclassify(raw map[string]string, cause error) error {
	attrs := []slog.Attr{
		slog.Any("error", cause),
		slog.Any("parameters", raw),
		slog.String("stack", string(debug.Stack())),
	}
	if provider, ok := v.src.(BodyProvider); ok {
		if body := provider.Body(); len(body) > 0 {
			attrs = append(attrs, slog.String("request_body", string(body)))
		}
	}
	v.log.LogAttrs(context.Background(), slog.LevelError,
		"error during validation or inside the validation scope", attrs...)
	return &InternalError{cause: cause}
}
