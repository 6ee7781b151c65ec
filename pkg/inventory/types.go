package inventory

import (
	"errors"
	"fmt"
)

// ErrValidation marks client input errors. Handlers translate it to 400.
var ErrValidation = errors.New("validation failed")

// Transaction types accepted on inventory_transactions
const (
	TransactionIn  = "in"
	TransactionOut = "out"
)

// Product defaults applied when the client omits the column
const (
	DefaultReorderLevel = 10
	DefaultStatus       = "active"
)

// Fields is a client-supplied column/value map destined for the gateway.
// JSON numbers arrive as float64.
type Fields map[string]interface{}

func validationErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// checkColumns rejects any field outside the allow-list so unknown keys
// surface as client errors instead of falling through to SQL errors.
func checkColumns(fields Fields, allowed []string) error {
	for key := range fields {
		if !columnAllowed(allowed, key) {
			return validationErr("unknown field %q", key)
		}
	}
	return nil
}

func columnAllowed(allowed []string, column string) bool {
	for _, c := range allowed {
		if c == column {
			return true
		}
	}
	return false
}

func stringField(fields Fields, key string) (string, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return s, true
}

func int64Field(fields Fields, key string) (int64, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func float64Field(fields Fields, key string) (float64, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func requireString(fields Fields, key string) error {
	s, ok := stringField(fields, key)
	if !ok || s == "" {
		return validationErr("%s is required", key)
	}
	return nil
}
