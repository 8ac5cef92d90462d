package queryval

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Handler is an HTTP handler that receives the validated result view as its
// final argument.
type Handler func(w http.ResponseWriter, r *http.Request, p *Params)

// ErrorHandler renders a classified validation error to the client.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type wrapConfig struct {
	source       func(r *http.Request) Source
	errorHandler ErrorHandler
	engineOpts   []Option
	rules        func(v *Validator)
}

// WrapOption configures Wrap.
type WrapOption func(*wrapConfig)

// WithSourceFunc swaps the per-request source extraction, e.g. to validate
// chi route parameters instead of the URL query:
//
//	queryval.WithSourceFunc(func(r *http.Request) queryval.Source {
//		return queryval.RouteParams(r)
//	})
func WithSourceFunc(f func(r *http.Request) Source) WrapOption {
	return func(c *wrapConfig) {
		if f != nil {
			c.source = f
		}
	}
}

// WithSource pre-binds a fixed source into the wrapper, ignoring the incoming
// request's parameters. This is the curry form for runtimes that expose one
// ambient request, and for tests.
func WithSource(src Source) WrapOption {
	return func(c *wrapConfig) {
		if src != nil {
			c.source = func(*http.Request) Source { return src }
		}
	}
}

// WithErrorHandler replaces the default JSON error rendering.
func WithErrorHandler(h ErrorHandler) WrapOption {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithValidatorOptions forwards engine options (chains, include-all, logger)
// to the per-request Validator.
func WithValidatorOptions(opts ...Option) WrapOption {
	return func(c *wrapConfig) {
		c.engineOpts = append(c.engineOpts, opts...)
	}
}

// WithRules registers a hook that receives the per-request Validator before
// the pass runs, so integrations can use the fluent chain builders:
//
//	queryval.WithRules(func(v *queryval.Validator) {
//		v.NonZero("b").Gt("price", 0)
//	})
func WithRules(configure func(v *Validator)) WrapOption {
	return func(c *wrapConfig) {
		c.rules = configure
	}
}

// Wrap runs the scoped validation session around an HTTP handler, injecting
// the result view as the handler's final argument. By default parameters come
// from the request's URL query and errors render as JSON: 400 with structured
// detail for bad input, 500 with a fixed generic body for everything else.
//
// Wrap panics when decls is nil: registering a handler without declarations
// is a configuration error and should prevent startup.
//
// Example:
//
//	mux.HandleFunc("/divide", queryval.Wrap(divide,
//		map[string]queryval.Converter{"a": queryval.Int, "b": queryval.Int},
//		queryval.WithRules(func(v *queryval.Validator) { v.NonZero("b") }),
//	))
func Wrap(h Handler, decls map[string]Converter, opts ...WrapOption) http.HandlerFunc {
	if decls == nil {
		panic(fmt.Errorf("queryval: %w", ErrNoDeclarations))
	}

	cfg := &wrapConfig{
		source:       func(r *http.Request) Source { return Request(r) },
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		v := New(cfg.source(r), decls, cfg.engineOpts...)
		if cfg.rules != nil {
			cfg.rules(v)
		}
		err := v.With(func(p *Params) error {
			h(w, r, p)
			return nil
		})
		if err != nil {
			cfg.errorHandler(w, r, err)
		}
	}
}

type errorResponse struct {
	Error map[string]any `json:"error"`
}

// DefaultErrorHandler renders classified errors as JSON. *ParamError becomes a
// 400 with its structured detail; everything else becomes a 500 carrying only
// the fixed internal message.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	var paramErr *ParamError
	if errors.As(err, &paramErr) {
		w.WriteHeader(paramErr.Code)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: paramErr.Detail()})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: map[string]any{"message": InternalMessage}})
}
