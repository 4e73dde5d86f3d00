package common

import (
	"fmt"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/shape"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

// RequireID extracts a required numeric identifier from request arguments.
// JSON numbers arrive as float64; string forms are not accepted.
func RequireID(args map[string]interface{}, key string) (int64, error) {
	val, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	f, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	id := int64(f)
	if id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return id, nil
}

// OptionalID extracts an optional numeric identifier. The second return value
// reports whether the argument was present.
func OptionalID(args map[string]interface{}, key string) (int64, bool, error) {
	if _, ok := args[key]; !ok {
		return 0, false, nil
	}
	id, err := RequireID(args, key)
	if err != nil {
		return 0, true, err
	}
	return id, true, nil
}

// OptionalString returns the string argument for key, or fallback when absent
// or empty.
func OptionalString(args map[string]interface{}, key, fallback string) string {
	if s, ok := args[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// OptionalInt returns the numeric argument for key as an int, or fallback
// when absent.
func OptionalInt(args map[string]interface{}, key string, fallback int) int {
	if f, ok := args[key].(float64); ok {
		return int(f)
	}
	return fallback
}

// OptionalBool returns the boolean argument for key, or fallback when absent.
func OptionalBool(args map[string]interface{}, key string, fallback bool) bool {
	if b, ok := args[key].(bool); ok {
		return b
	}
	return fallback
}

// IDList extracts a list of numeric identifiers from an argument that may be
// a single number or an array of numbers.
func IDList(args map[string]interface{}, key string) ([]int64, error) {
	val, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("%s is required", key)
	}
	switch v := val.(type) {
	case float64:
		id := int64(v)
		if id <= 0 {
			return nil, fmt.Errorf("%s must contain positive integers", key)
		}
		return []int64{id}, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s must not be empty", key)
		}
		ids := make([]int64, 0, len(v))
		for _, item := range v {
			f, ok := item.(float64)
			if !ok {
				return nil, fmt.Errorf("%s must be a number or an array of numbers", key)
			}
			id := int64(f)
			if id <= 0 {
				return nil, fmt.Errorf("%s must contain positive integers", key)
			}
			ids = append(ids, id)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("%s must be a number or an array of numbers", key)
	}
}

// CursorFromArgs builds a pagination cursor from the standard limit and
// offset arguments. Out-of-range values are clamped by NewCursor.
func CursorFromArgs(args map[string]interface{}) *vikunja.Cursor {
	limit := OptionalInt(args, "limit", vikunja.DefaultPageSize)
	offset := OptionalInt(args, "offset", 0)
	return vikunja.NewCursor(limit, offset)
}

// ShapeOptionsFromArgs builds response shaping options from the standard
// detail_level and response_format arguments. Unknown values fall back to
// concise markdown.
func ShapeOptionsFromArgs(args map[string]interface{}) shape.Options {
	return shape.Options{
		Detail: shape.ParseDetail(OptionalString(args, "detail_level", "")),
		Format: shape.ParseFormat(OptionalString(args, "response_format", "")),
	}
}
