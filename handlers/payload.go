package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Helpers for partial-update payloads. Handlers decode the request body into
// a map and copy only the keys that are present into the update set, so an
// omitted field leaves the stored value unchanged while an explicit null
// clears a nullable column.

// applyString copies a required-string field into updates when present.
func applyString(updates, payload map[string]interface{}, key string) error {
	val, ok := payload[key]
	if !ok {
		return nil
	}
	str, ok := val.(string)
	if !ok {
		return fmt.Errorf("'%s' field must be a string", key)
	}
	updates[key] = str
	return nil
}

// applyNullableString copies a nullable-string field into updates when
// present; explicit null clears the column.
func applyNullableString(updates, payload map[string]interface{}, key string) error {
	val, exists := payload[key]
	if !exists {
		return nil
	}
	if val == nil {
		updates[key] = nil
		return nil
	}
	str, ok := val.(string)
	if !ok {
		return fmt.Errorf("'%s' field must be a string or null", key)
	}
	updates[key] = str
	return nil
}

// applyNullableInt coerces a loosely-typed numeric field into updates when
// present. JSON numbers, numeric strings and explicit null are accepted.
func applyNullableInt(updates, payload map[string]interface{}, key string) error {
	val, exists := payload[key]
	if !exists {
		return nil
	}
	if val == nil {
		updates[key] = nil
		return nil
	}
	n, ok := coerceInt(val)
	if !ok {
		return fmt.Errorf("'%s' field must be a number or null", key)
	}
	updates[key] = n
	return nil
}

// applyBool copies a boolean field into updates when present.
func applyBool(updates, payload map[string]interface{}, key string) error {
	val, ok := payload[key]
	if !ok {
		return nil
	}
	b, ok := val.(bool)
	if !ok {
		return fmt.Errorf("'%s' field must be a boolean", key)
	}
	updates[key] = b
	return nil
}

// coerceInt converts loosely-typed input to an int before storage.
func coerceInt(val interface{}) (int, bool) {
	switch v := val.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// coerceIntPtr is coerceInt for optional create-payload fields; a nil input
// yields a nil pointer.
func coerceIntPtr(val interface{}) (*int, bool) {
	if val == nil {
		return nil, true
	}
	n, ok := coerceInt(val)
	if !ok {
		return nil, false
	}
	return &n, true
}
