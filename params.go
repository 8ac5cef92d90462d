package queryval

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Params is the immutable result view produced by a successful validation
// pass: a read-only mapping from parameter name to converted value. It has no
// exported mutators and is only constructed by the engine, so a finalized view
// cannot be modified through any access path. Iteration follows finalization
// order.
type Params struct {
	keys   []string
	values map[string]any
}

func newParams(capacity int) *Params {
	return &Params{values: make(map[string]any, capacity)}
}

func (p *Params) set(name string, value any) {
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
}

// Has reports whether the view contains the given parameter.
func (p *Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Len returns the number of parameters in the view.
func (p *Params) Len() int {
	return len(p.keys)
}

// Keys returns the parameter names in finalization order.
func (p *Params) Keys() []string {
	return slices.Clone(p.keys)
}

// Lookup returns the value stored under name and whether it exists.
func (p *Params) Lookup(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Get returns the value stored under name, or ErrParamNotFound when the
// parameter was neither declared nor included.
func (p *Params) Get(name string) (any, error) {
	v, ok := p.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrParamNotFound, name)
	}
	return v, nil
}

// MustGet returns the value stored under name, panicking when it is absent.
// Intended for handlers whose declarations guarantee presence.
func (p *Params) MustGet(name string) any {
	v, err := p.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// All iterates over (name, value) pairs in finalization order.
func (p *Params) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range p.keys {
			if !yield(k, p.values[k]) {
				return
			}
		}
	}
}

// String returns the parameter as a string.
func (p *Params) String(name string) (string, error) {
	return typed[string](p, name)
}

// Int returns the parameter as an int.
func (p *Params) Int(name string) (int, error) {
	return typed[int](p, name)
}

// Int64 returns the parameter as an int64.
func (p *Params) Int64(name string) (int64, error) {
	return typed[int64](p, name)
}

// Float64 returns the parameter as a float64.
func (p *Params) Float64(name string) (float64, error) {
	return typed[float64](p, name)
}

// Bool returns the parameter as a bool.
func (p *Params) Bool(name string) (bool, error) {
	return typed[bool](p, name)
}

// Decimal returns the parameter as a decimal.Decimal.
func (p *Params) Decimal(name string) (decimal.Decimal, error) {
	return typed[decimal.Decimal](p, name)
}

// UUID returns the parameter as a uuid.UUID.
func (p *Params) UUID(name string) (uuid.UUID, error) {
	return typed[uuid.UUID](p, name)
}

// Time returns the parameter as a time.Time.
func (p *Params) Time(name string) (time.Time, error) {
	return typed[time.Time](p, name)
}

func typed[T any](p *Params, name string) (T, error) {
	var zero T
	v, err := p.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: parameter %q holds %T, not %T", ErrTypeMismatch, name, v, zero)
	}
	return t, nil
}
