package parse

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// StringAs parses a string into the target type T.
//
// Primitive targets (string, bool, the int/uint families, floats) are
// converted directly with strconv after trimming surrounding whitespace.
// Everything else (structs, maps, slices) goes through encoding/json; when
// that fails the content is run through jsonrepair once and decoding is
// retried, which recovers the single quotes, trailing commas, and unquoted
// keys that model output frequently contains.
//
// Example:
//
//	type Review struct {
//	    Score   int    `json:"score"`
//	    Verdict string `json:"verdict"`
//	}
//
//	review, err := parse.StringAs[Review](`{score: 8, verdict: 'ship it'}`)
func StringAs[T any](content string) (T, error) {
	var result T
	trimmed := strings.TrimSpace(content)

	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.String:
		reflect.ValueOf(&result).Elem().SetString(content)
		return result, nil

	case reflect.Bool:
		value, err := strconv.ParseBool(trimmed)
		if err != nil {
			return result, fmt.Errorf("parsing %q as bool: %w", trimmed, err)
		}
		reflect.ValueOf(&result).Elem().SetBool(value)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return result, fmt.Errorf("parsing %q as int: %w", trimmed, err)
		}
		reflect.ValueOf(&result).Elem().SetInt(value)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		value, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			return result, fmt.Errorf("parsing %q as uint: %w", trimmed, err)
		}
		reflect.ValueOf(&result).Elem().SetUint(value)
		return result, nil

	case reflect.Float32, reflect.Float64:
		value, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return result, fmt.Errorf("parsing %q as float: %w", trimmed, err)
		}
		reflect.ValueOf(&result).Elem().SetFloat(value)
		return result, nil

	default:
		if err := json.Unmarshal([]byte(trimmed), &result); err == nil {
			return result, nil
		}

		repaired, repairErr := jsonrepair.JSONRepair(trimmed)
		if repairErr != nil {
			return result, fmt.Errorf("parsing as %T: content is not valid JSON and repair failed: %w", result, repairErr)
		}
		if err := json.Unmarshal([]byte(repaired), &result); err != nil {
			return result, fmt.Errorf("parsing repaired JSON as %T: %w (repaired: %s)", result, err, repaired)
		}
		return result, nil
	}
}
