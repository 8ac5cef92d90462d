// Package queryval provides declarative validation of named string parameters,
// typically HTTP query parameters: declare per-parameter converters and
// predicate chains, run a single validation pass, and receive either a
// read-only view of the typed values or a precisely classified error.
//
// The package distinguishes exactly two outward error kinds. Bad input
// (missing parameter, unconvertible value, failed predicate) surfaces as
// *ParamError with structured detail and a 400 status. Everything else that
// fails inside a validation scope, including panics in caller code, is logged
// once with full context and surfaces as *InternalError with a fixed,
// non-leaking message and a 500 status. Handlers therefore never need their
// own error translation.
//
// Basic Usage:
//
//	params := map[string]string{"num": "42", "s": "str", "double": "3.14"}
//	decls := map[string]queryval.Converter{
//		"num":    queryval.Int,
//		"s":      nil, // passthrough string
//		"double": queryval.Float64,
//	}
//
//	err := queryval.ValidateMap(params, decls).With(func(p *queryval.Params) error {
//		num, _ := p.Int("num")
//		double, _ := p.Float64("double")
//		fmt.Println(num, double)
//		return nil
//	})
//
// Predicate chains attach per-parameter checks that run after conversion:
//
//	v := queryval.ValidateMap(params, decls).
//		NonZero("num").
//		Gt("double", 3.0)
//
// HTTP handlers wrap the session around the handler body and receive the
// validated view as the final argument:
//
//	mux.HandleFunc("/divide", queryval.Wrap(divide,
//		map[string]queryval.Converter{"a": queryval.Int, "b": queryval.Int},
//		queryval.WithRules(func(v *queryval.Validator) { v.NonZero("b") }),
//	))
//
// The validation pass is a pure synchronous computation over an in-memory
// snapshot of the raw parameters. Validators own their state exclusively;
// concurrent requests must each construct their own (Wrap does this per
// request).
package queryval
