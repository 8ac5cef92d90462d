package queryval

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Transform adjusts a converted value before a comparison predicate sees it.
type Transform func(value any) any

// Validator runs the two-phase conversion/validation pass over the raw
// parameters of a single source: first every declared parameter is converted,
// then every finalized value runs through its predicate chain. The first
// failure aborts the pass.
//
// Example:
//
//	v := queryval.New(
//		queryval.Map(map[string]string{"a": "10", "b": "5"}),
//		map[string]queryval.Converter{"a": queryval.Int, "b": queryval.Int},
//	).NonZero("b")
//	params, err := v.Validate()
type Validator struct {
	src        Source
	decls      map[string]Converter
	chains     map[string]*Chain
	includeAll bool
	log        *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithChain associates a predicate chain with a parameter name, replacing any
// chain already registered under that name.
func WithChain(name string, c *Chain) Option {
	return func(v *Validator) {
		if c != nil {
			v.chains[name] = c
		}
	}
}

// WithChains registers predicate chains for multiple parameters at once.
func WithChains(chains map[string]*Chain) Option {
	return func(v *Validator) {
		for name, c := range chains {
			if c != nil {
				v.chains[name] = c
			}
		}
	}
}

// WithIncludeAll controls whether undeclared raw parameters are passed through
// into the result as strings. Defaults to true.
func WithIncludeAll(include bool) Option {
	return func(v *Validator) { v.includeAll = include }
}

// WithLogger sets the logger used to report internal errors from validation
// scopes. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(v *Validator) {
		if log != nil {
			v.log = log
		}
	}
}

// WithConfig applies settings from a Config value object.
func WithConfig(cfg Config) Option {
	return func(v *Validator) { v.includeAll = cfg.IncludeAll }
}

// New creates a Validator for the given source and parameter declarations.
// A nil Converter declares a string passthrough parameter.
func New(src Source, decls map[string]Converter, opts ...Option) *Validator {
	v := &Validator{
		src:        src,
		decls:      decls,
		chains:     make(map[string]*Chain),
		includeAll: true,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateMap creates a Validator over a plain string mapping, the shortcut
// for tests and framework-agnostic callers.
func ValidateMap(params map[string]string, decls map[string]Converter, opts ...Option) *Validator {
	return New(Map(params), decls, opts...)
}

// ValidateRequest creates a Validator over the URL query of an HTTP request.
func ValidateRequest(r *http.Request, decls map[string]Converter, opts ...Option) *Validator {
	return New(Request(r), decls, opts...)
}

// ForSource returns a new Validator that reuses the declarations and predicate
// chains of v against a fresh source, so one configured validator can be
// replayed across requests without rebuilding its chains. The chains are
// copied, so rules added to either validator stay local to it.
func (v *Validator) ForSource(src Source) *Validator {
	chains := make(map[string]*Chain, len(v.chains))
	for name, c := range v.chains {
		chains[name] = c.clone()
	}
	return &Validator{
		src:        src,
		decls:      v.decls,
		chains:     chains,
		includeAll: v.includeAll,
		log:        v.log,
	}
}

// Check appends a predicate to the chain of the named parameter and returns
// the validator for fluent composition.
func (v *Validator) Check(name string, p Predicate) *Validator {
	c, ok := v.chains[name]
	if !ok {
		c = NewChain()
		v.chains[name] = c
	}
	c.Add(p)
	return v
}

// CheckRule is Check with a custom failure message reported to the client
// instead of the generic "invalid value" text.
func (v *Validator) CheckRule(name string, p Predicate, msg string) *Validator {
	c, ok := v.chains[name]
	if !ok {
		c = NewChain()
		v.chains[name] = c
	}
	c.AddRule(p, msg)
	return v
}

// Positive requires the named parameter to be greater than or equal to zero,
// optionally after applying a transform.
func (v *Validator) Positive(name string, transform ...Transform) *Validator {
	t := pickTransform(transform)
	return v.Check(name, func(value any) bool {
		c, ok := compareValues(t(value), 0)
		return ok && c >= 0
	})
}

// Gt requires the named parameter to be strictly greater than bound,
// optionally after applying a transform.
func (v *Validator) Gt(name string, bound any, transform ...Transform) *Validator {
	t := pickTransform(transform)
	return v.Check(name, func(value any) bool {
		c, ok := compareValues(t(value), bound)
		return ok && c > 0
	})
}

// Lt requires the named parameter to be strictly less than bound.
func (v *Validator) Lt(name string, bound any, transform ...Transform) *Validator {
	t := pickTransform(transform)
	return v.Check(name, func(value any) bool {
		c, ok := compareValues(t(value), bound)
		return ok && c < 0
	})
}

// Eq requires the named parameter to equal bound.
func (v *Validator) Eq(name string, bound any, transform ...Transform) *Validator {
	t := pickTransform(transform)
	return v.Check(name, func(value any) bool {
		c, ok := compareValues(t(value), bound)
		return ok && c == 0
	})
}

// NonZero requires the named parameter to differ from zero.
func (v *Validator) NonZero(name string, transform ...Transform) *Validator {
	t := pickTransform(transform)
	return v.Check(name, func(value any) bool {
		c, ok := compareValues(t(value), 0)
		return ok && c != 0
	})
}

// Validate snapshots the raw parameters and runs the two-phase pass. On
// success it returns the immutable result view; on the first failing
// parameter it returns a *ParamError. Errors from the source
// (ErrUnsupportedRequest) and untagged converter errors propagate unchanged.
func (v *Validator) Validate() (*Params, error) {
	raw, err := v.src.ParamValues()
	if err != nil {
		return nil, err
	}
	return v.validate(raw)
}

func (v *Validator) validate(raw map[string]string) (*Params, error) {
	result := newParams(len(raw))

	// Phase 1: conversion. Declared names are processed in sorted order so
	// fail-fast reporting stays deterministic.
	declared := make([]string, 0, len(v.decls))
	for name := range v.decls {
		declared = append(declared, name)
	}
	sort.Strings(declared)

	for _, name := range declared {
		rawVal, ok := raw[name]
		if !ok {
			return nil, missingParam(name)
		}
		convert := v.decls[name]
		if convert == nil {
			result.set(name, rawVal)
			continue
		}
		val, err := convert(rawVal)
		if err != nil {
			var convErr *ConversionError
			if errors.As(err, &convErr) {
				return nil, invalidType(name, convErr.Expected)
			}
			// Untagged converter errors are programmer bugs, not user input.
			return nil, err
		}
		result.set(name, val)
	}

	// Undeclared keys pass through as raw strings when include-all is on.
	if v.includeAll {
		extra := make([]string, 0, len(raw))
		for name := range raw {
			if _, ok := v.decls[name]; !ok {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		for _, name := range extra {
			result.set(name, raw[name])
		}
	}

	// Phase 2: predicate chains over the finalized set, including chains
	// attached to pass-through names.
	for _, name := range result.keys {
		chain := v.chains[name]
		if chain == nil {
			continue
		}
		if err := chain.Validate(result.values[name]); err != nil {
			var ce *checkError
			if errors.As(err, &ce) {
				return nil, failedPredicate(name, result.values[name], ce.msg)
			}
			return nil, failedPredicate(name, result.values[name], "")
		}
	}

	return result, nil
}

func pickTransform(transform []Transform) Transform {
	if len(transform) > 0 && transform[0] != nil {
		return transform[0]
	}
	return func(value any) any { return value }
}

// compareValues orders two dynamically typed values. It handles the types the
// built-in converters produce: integers, floats, strings, and decimals.
// The second result is false when the values are not comparable.
func compareValues(a, b any) (int, bool) {
	if da, ok := a.(decimal.Decimal); ok {
		db, ok := toDecimal(b)
		if !ok {
			return 0, false
		}
		return da.Cmp(db), true
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(sa, sb), true
	}
	fa, ok := toFloat(a)
	if !ok {
		return 0, false
	}
	fb, ok := toFloat(b)
	if !ok {
		return 0, false
	}
	switch {
	case fa < fb:
		return -1, true
	case fa > fb:
		return 1, true
	default:
		return 0, true
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case float64:
		return decimal.NewFromFloat(val), true
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}
