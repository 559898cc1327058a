package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
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

// ParseQueryGte reads an optional integer query parameter that must be >= minValue.
// def is returned when the parameter is missing.
func ParseQueryGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, def int32, minValue int64) (int32, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, true
	}
	return parseValidate(value, w, logger, key, gte(minValue))
}

// ParsePathInt reads an integer path parameter. Range rules are left to the caller.
func ParsePathInt(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (int32, bool) {
	return parseValidate(r.PathValue(key), w, logger, key, func(int64) bool { return true })
}

func parseValidate(value string, w http.ResponseWriter, logger *slog.Logger, key string, pValidator ParamValidator) (int32, bool) {
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return 0, false
	}
	return int32(intValue), true
}
