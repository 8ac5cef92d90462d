package queryval

import (
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// Source supplies the raw string parameters for one validation session.
// The engine snapshots the mapping once per session and never writes to it.
type Source interface {
	// ParamValues returns the raw parameter mapping. It reports
	// ErrUnsupportedRequest when no recognizable parameter collection exists.
	ParamValues() (map[string]string, error)
}

// BodyProvider is optionally implemented by sources that can expose the
// request body for internal-error diagnostics.
type BodyProvider interface {
	Body() []byte
}

type mapSource map[string]string

func (s mapSource) ParamValues() (map[string]string, error) {
	if s == nil {
		return map[string]string{}, nil
	}
	return maps.Clone(map[string]string(s)), nil
}

// Map wraps a plain string mapping as a Source, for tests and
// framework-agnostic callers.
func Map(params map[string]string) Source {
	return mapSource(params)
}

type valuesSource url.Values

func (s valuesSource) ParamValues() (map[string]string, error) {
	out := make(map[string]string, len(s))
	for key, vals := range s {
		if len(vals) > 0 {
			out[key] = vals[0]
		} else {
			out[key] = ""
		}
	}
	return out, nil
}

// Values wraps url.Values as a Source. Multi-value keys keep their first value.
func Values(v url.Values) Source {
	return valuesSource(v)
}

type requestSource struct {
	r *http.Request
}

func (s requestSource) ParamValues() (map[string]string, error) {
	if s.r == nil || s.r.URL == nil {
		return nil, fmt.Errorf("%w: nil http request", ErrUnsupportedRequest)
	}
	return valuesSource(s.r.URL.Query()).ParamValues()
}

// Body returns a replay of the request body when the request carries GetBody.
// Only client-constructed requests (http.NewRequest) set it; server-side
// requests, including httptest.NewRequest ones, yield nil rather than
// draining the body stream.
func (s requestSource) Body() []byte {
	if s.r == nil || s.r.GetBody == nil {
		return nil
	}
	rc, err := s.r.GetBody()
	if err != nil {
		return nil
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil
	}
	return b
}

// Request exposes the URL query of an HTTP request as a Source.
func Request(r *http.Request) Source {
	return requestSource{r: r}
}

type routeSource struct {
	r *http.Request
}

func (s routeSource) ParamValues() (map[string]string, error) {
	if s.r == nil {
		return nil, fmt.Errorf("%w: nil http request", ErrUnsupportedRequest)
	}
	rctx := chi.RouteContext(s.r.Context())
	if rctx == nil {
		return nil, fmt.Errorf("%w: no chi route context on request", ErrUnsupportedRequest)
	}
	out := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		out[key] = rctx.URLParams.Values[i]
	}
	return out, nil
}

// RouteParams exposes chi URL path parameters as a Source. The request must
// have been routed by chi; otherwise the source reports ErrUnsupportedRequest.
func RouteParams(r *http.Request) Source {
	return routeSource{r: r}
}

type joinSource []Source

func (s joinSource) ParamValues() (map[string]string, error) {
	merged := make(map[string]string)
	for _, src := range s {
		vals, err := src.ParamValues()
		if err != nil {
			return nil, err
		}
		maps.Copy(merged, vals)
	}
	return merged, nil
}

// Join combines several sources into one; on key collisions later sources win.
// Useful for validating query and route parameters together:
//
//	src := queryval.Join(queryval.Request(r), queryval.RouteParams(r))
func Join(sources ...Source) Source {
	return joinSource(sources)
}
