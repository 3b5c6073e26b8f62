// Package mcputils binds loosely typed MCP tool arguments to Go structs.
package mcputils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ArgumentGetter is an interface for getting arguments from a request
type ArgumentGetter interface {
	GetArguments() map[string]any
}

// CoerceBindArguments binds MCP request arguments to target using the json
// tags of its fields. Clients often send every value as a string, so
// "true", "4" and JSON-encoded arrays or objects are converted to the field
// type. Absent or null values leave the field untouched, which lets pointer
// fields tell "not given" from a zero value.
func CoerceBindArguments[T any](request ArgumentGetter, target *T) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonStringHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(request.GetArguments()); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// jsonStringHook decodes string values that hold JSON for non-string
// targets. Strings that are not valid JSON pass through unchanged.
func jsonStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	raw := strings.TrimSpace(data.(string))
	if raw == "" {
		return data, nil
	}

	for to.Kind() == reflect.Pointer {
		to = to.Elem()
	}

	switch to.Kind() {
	case reflect.Slice:
		if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
			return data, nil
		}
		slicePtr := reflect.New(to)
		if err := json.Unmarshal([]byte(raw), slicePtr.Interface()); err == nil {
			return slicePtr.Elem().Interface(), nil
		}

	case reflect.Map, reflect.Struct:
		if !strings.HasPrefix(raw, "{") || !strings.HasSuffix(raw, "}") {
			return data, nil
		}
		var result map[string]any
		if err := json.Unmarshal([]byte(raw), &result); err == nil {
			return result, nil
		}

	case reflect.Bool:
		if raw == "true" || raw == "false" {
			return raw == "true", nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		var result json.Number
		if err := json.Unmarshal([]byte(raw), &result); err == nil {
			return result, nil
		}
	}

	return data, nil
}
