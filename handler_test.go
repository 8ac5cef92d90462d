package queryval_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/queryval"
)

func divideHandler(w http.ResponseWriter, r *http.Request, p *queryval.Params) {
	a := p.MustGet("a").(int)
	b := p.MustGet("b").(int)
	fmt.Fprintf(w, "%d", a/b)
}

func divideDecls() map[string]queryval.Converter {
	return map[string]queryval.Converter{"a": queryval.Int, "b": queryval.Int}
}

func decodeError(t *testing.T, body *bytes.Buffer) map[string]any {
	t.Helper()

	var payload struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &payload))
	return payload.Error
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("injects validated params into the handler", func(t *testing.T) {
		t.Parallel()

		h := queryval.Wrap(divideHandler, divideDecls(),
			queryval.WithRules(func(v *queryval.Validator) { v.NonZero("b") }),
		)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/divide?a=10&b=5", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Body.String())
	})

	t.Run("bad input renders 400 with structured detail", func(t *testing.T) {
		t.Parallel()

		h := queryval.Wrap(divideHandler, divideDecls(),
			queryval.WithRules(func(v *queryval.Validator) { v.NonZero("b") }),
		)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/divide?a=10&b=0", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		detail := decodeError(t, rec.Body)
		assert.Equal(t, "b", detail["parameter"])
		assert.Equal(t, string(queryval.ReasonFailedPredicate), detail["reason"])
		assert.Contains(t, detail["error"], `"b"`)
	})

	t.Run("missing parameter renders 400", func(t *testing.T) {
		t.Parallel()

		h := queryval.Wrap(divideHandler, divideDecls())

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/divide?a=10", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		detail := decodeError(t, rec.Body)
		assert.Equal(t, "b", detail["parameter"])
		assert.Equal(t, string(queryval.ReasonMissing), detail["reason"])
	})

	t.Run("invalid type renders 400 with expected hint", func(t *testing.T) {
		t.Parallel()

		h := queryval.Wrap(divideHandler, divideDecls())

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/divide?a=ten&b=5", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		detail := decodeError(t, rec.Body)
		assert.Equal(t, "a", detail["parameter"])
		assert.Equal(t, "int", detail["expected"])
	})

	t.Run("handler panic renders generic 500", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))

		h := queryval.Wrap(divideHandler, divideDecls(),
			queryval.WithValidatorOptions(queryval.WithLogger(log)),
		)

		rec := httptest.NewRecorder()
		// b=0 passes validation without the nonzero rule, so a/b panics inside the handler.
		h(rec, httptest.NewRequest(http.MethodGet, "/divide?a=10&b=0", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		detail := decodeError(t, rec.Body)
		assert.Equal(t, queryval.InternalMessage, detail["message"])
		assert.Contains(t, buf.String(), "integer divide by zero")
	})

	t.Run("panics at registration without declarations", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithError(t,
			fmt.Sprintf("queryval: %s", queryval.ErrNoDeclarations),
			func() { queryval.Wrap(divideHandler, nil) },
		)
	})

	t.Run("curry form binds a fixed source", func(t *testing.T) {
		t.Parallel()

		h := queryval.Wrap(divideHandler, divideDecls(),
			queryval.WithSource(queryval.Map(map[string]string{"a": "10", "b": "2"})),
		)

		rec := httptest.NewRecorder()
		// The request carries no query at all; the curried source supplies the parameters.
		h(rec, httptest.NewRequest(http.MethodGet, "/divide", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "5", rec.Body.String())
	})

	t.Run("source func swaps the parameter collection", func(t *testing.T) {
		t.Parallel()

		h := queryval.Wrap(divideHandler, divideDecls(),
			queryval.WithSourceFunc(func(r *http.Request) queryval.Source {
				return queryval.Join(queryval.Request(r), queryval.Map(map[string]string{"b": "5"}))
			}),
		)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/divide?a=10", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Body.String())
	})

	t.Run("custom error handler replaces rendering", func(t *testing.T) {
		t.Parallel()

		h := queryval.Wrap(divideHandler, divideDecls(),
			queryval.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				w.WriteHeader(http.StatusTeapot)
			}),
		)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/divide?a=10", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
	})
}
