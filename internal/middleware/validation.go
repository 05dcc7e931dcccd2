package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"codesync/internal/models"
	"codesync/internal/utils"
)

type contextKey string

const validatedRequestKey contextKey = "validated_request"

// request models implement this interface
type Validator interface {
	Validate() error
}

// ValidateRequest decodes the JSON body into a fresh T, runs its Validate
// method and stores the result in the request context. Failures answer 400
// with {error, success:false}.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req T
			reqType := reflect.TypeOf(req)
			if reqType.Kind() == reflect.Ptr {
				req = reflect.New(reqType.Elem()).Interface().(T)
			} else {
				req = reflect.New(reqType).Interface().(T)
			}

			// an empty body is treated as {} so every field takes its default
			if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
				utils.JSON(w, http.StatusBadRequest, models.FailureResponse{
					Error:   "invalid_json: Invalid JSON in request body",
					Success: false,
				})
				return
			}

			if err := req.Validate(); err != nil {
				utils.JSON(w, http.StatusBadRequest, models.FailureResponse{
					Error:   err.Error(),
					Success: false,
				})
				return
			}

			ctx := context.WithValue(r.Context(), validatedRequestKey, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetValidatedRequest retrieves the validated request from context
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}
