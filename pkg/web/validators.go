package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// gte returns a ParamValidator that checks if the argument is greater than or equal to the value captured in the closure.
func gte(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue >= closedValue
	})
}

// ParsePathGte extracts the path parameter key as an int64 and checks it is at least value.
// It writes a 400 response and returns false when the parameter is malformed.
func ParsePathGte(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string, value int64) (int64, bool) {
	return parsePathValidate(w, r, logger, key, gte(value))
}

func parsePathValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string, pValidator ParamValidator) (int64, bool) {
	value := chi.URLParam(r, key)
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", idLabel(key), value))
		return 0, false
	}
	return intValue, true
}

func idLabel(key string) string {
	if key == "id" {
		return "ID"
	}
	return key
}
