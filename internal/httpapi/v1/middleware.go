package v1

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/tinoosan/cuaderno/internal/codec"
	"github.com/tinoosan/cuaderno/internal/slug"
)

var validate = newValidator()

// newValidator adds the item tags: prenda_monto accepts an empty string or
// an amount the comment codec can carry, categoria_id a category slug.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	must(v.RegisterValidation("prenda_monto", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || codec.ValidAmount(s)
	}))
	must(v.RegisterValidation("categoria_id", func(fl validator.FieldLevel) bool {
		return slug.IsSlug(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// validatedKey is the context key holding a validated request of type T.
type validatedKey[T any] struct{}

// binder is implemented by query structs that fill themselves from URL values.
type binder[T any] interface {
	*T
	bind(q url.Values)
}

// validateJSON decodes the body into T, runs struct validation and stores the
// result in the request context for the handler to use.
func validateJSON[T any]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req T
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			// an empty body decodes to the zero request
			if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			if !checkStruct(w, req) {
				return
			}
			ctx := context.WithValue(r.Context(), validatedKey[T]{}, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateQuery binds query parameters into T and validates them.
func validateQuery[T any, PT binder[T]]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req T
			PT(&req).bind(r.URL.Query())
			if !checkStruct(w, req) {
				return
			}
			ctx := context.WithValue(r.Context(), validatedKey[T]{}, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validated returns the request stored by validateJSON or validateQuery.
func validated[T any](r *http.Request) T {
	v, _ := r.Context().Value(validatedKey[T]{}).(T)
	return v
}

// checkStruct writes 422 with the offending fields when validation fails.
func checkStruct(w http.ResponseWriter, v any) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Namespace()] = fe.Tag()
		}
		toJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Code: "validation_error", Fields: fields})
		return false
	}
	badRequest(w, err.Error())
	return false
}
