package rpcdispatch

import (
	"encoding/json"
	"fmt"
)

// paramString decodes params[i] as a JSON string, or returns def if params
// is shorter than i+1 (an omitted optional trailing param).
func paramString(params []json.RawMessage, i int, def string) (string, error) {
	if i >= len(params) {
		return def, nil
	}
	var s string
	if err := json.Unmarshal(params[i], &s); err != nil {
		return "", fmt.Errorf("param %d must be a string: %w", i, err)
	}
	return s, nil
}

// paramBool decodes params[i] as a JSON bool, or returns def if omitted.
func paramBool(params []json.RawMessage, i int, def bool) (bool, error) {
	if i >= len(params) {
		return def, nil
	}
	var b bool
	if err := json.Unmarshal(params[i], &b); err != nil {
		return false, fmt.Errorf("param %d must be a bool: %w", i, err)
	}
	return b, nil
}

// requireParamString decodes a required string param, erroring if absent.
func requireParamString(params []json.RawMessage, i int) (string, error) {
	if i >= len(params) {
		return "", fmt.Errorf("missing required param %d", i)
	}
	return paramString(params, i, "")
}

// paramObject decodes params[i] into v, leaving v untouched if the param is
// omitted.
func paramObject(params []json.RawMessage, i int, v any) error {
	if i >= len(params) {
		return nil
	}
	return json.Unmarshal(params[i], v)
}
