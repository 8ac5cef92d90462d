package queryval

import (
	"cmp"
	"slices"
)

// Predicate checks a single converted parameter value.
type Predicate func(value any) bool

// Numeric covers the numeric types accepted by the generic predicate constructors.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

type chainRule struct {
	check Predicate
	msg   string
}

// checkError carries a predicate's custom failure message out of chain evaluation.
type checkError struct {
	msg string
}

func (e *checkError) Error() string { return e.msg }

// Chain is an ordered list of predicates applied to one converted value.
// All predicates must pass, in insertion order. An empty chain always passes.
//
// Example:
//
//	nonEmpty := queryval.NewChain().
//		Add(func(v any) bool { s, ok := v.(string); return ok && s != "" }).
//		AddRule(queryval.LengthIs(12), "token must be 12 characters long")
type Chain struct {
	rules []chainRule
}

// NewChain creates a chain from the given predicates, preserving order.
func NewChain(preds ...Predicate) *Chain {
	c := &Chain{}
	for _, p := range preds {
		c.Add(p)
	}
	return c
}

// Add appends a predicate and returns the chain for fluent composition.
// Nil predicates are ignored.
func (c *Chain) Add(p Predicate) *Chain {
	if p != nil {
		c.rules = append(c.rules, chainRule{check: p})
	}
	return c
}

// AddRule appends a predicate with a custom failure message. When the
// predicate rejects a value, evaluation aborts and the message replaces the
// generic "invalid value" text in the reported error.
func (c *Chain) AddRule(p Predicate, msg string) *Chain {
	if p != nil {
		c.rules = append(c.rules, chainRule{check: p, msg: msg})
	}
	return c
}

// clone returns an independent copy of the chain so that rules appended to
// one copy never show up in the other.
func (c *Chain) clone() *Chain {
	if c == nil {
		return nil
	}
	return &Chain{rules: slices.Clone(c.rules)}
}

// Len returns the number of registered predicates.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Validate runs the predicates in insertion order, short-circuiting on the
// first failure. It returns nil when every predicate passes. A nil or empty
// chain always passes.
func (c *Chain) Validate(value any) error {
	if c == nil {
		return nil
	}
	for _, r := range c.rules {
		if !r.check(value) {
			if r.msg != "" {
				return &checkError{msg: r.msg}
			}
			return ErrFailedPredicate
		}
	}
	return nil
}

// GreaterThan builds a predicate that passes values of type T strictly greater
// than bound. Values of any other type fail.
func GreaterThan[T cmp.Ordered](bound T) Predicate {
	return func(value any) bool {
		v, ok := value.(T)
		return ok && v > bound
	}
}

// LessThan builds a predicate that passes values of type T strictly less than bound.
func LessThan[T cmp.Ordered](bound T) Predicate {
	return func(value any) bool {
		v, ok := value.(T)
		return ok && v < bound
	}
}

// EqualTo builds a predicate that passes values of type T equal to want.
func EqualTo[T comparable](want T) Predicate {
	return func(value any) bool {
		v, ok := value.(T)
		return ok && v == want
	}
}

// NonZeroValue builds a predicate that passes values of type T different from
// the type's zero value.
func NonZeroValue[T comparable]() Predicate {
	var zero T
	return func(value any) bool {
		v, ok := value.(T)
		return ok && v != zero
	}
}

// NonNegative builds a predicate that passes numeric values of type T greater
// than or equal to zero.
func NonNegative[T Numeric]() Predicate {
	return func(value any) bool {
		v, ok := value.(T)
		return ok && v >= 0
	}
}

// OneOf builds a predicate that passes values of type T contained in choices.
func OneOf[T comparable](choices ...T) Predicate {
	return func(value any) bool {
		v, ok := value.(T)
		if !ok {
			return false
		}
		for _, choice := range choices {
			if v == choice {
				return true
			}
		}
		return false
	}
}

// LengthIs builds a predicate that passes strings of exactly n bytes.
func LengthIs(n int) Predicate {
	return func(value any) bool {
		s, ok := value.(string)
		return ok && len(s) == n
	}
}
