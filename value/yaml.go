package value

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a YAML document into a Value. yaml.v3 produces
// map[string]any for mappings with string keys; other key types are
// rejected since the validation model addresses fields by name.
func DecodeYAML(data []byte) (Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("value: decode yaml: %w", err)
	}
	norm, err := normalizeYAML(raw)
	if err != nil {
		return Value{}, err
	}
	return FromGo(norm)
}

// normalizeYAML rewrites map[any]any nodes (produced for non-scalar keys or
// by older decoders) into map[string]any, failing on non-string keys.
func normalizeYAML(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ne, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			out[k] = ne
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("value: non-string mapping key %v", k)
			}
			ne, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			out[ks] = ne
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			ne, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	default:
		return v, nil
	}
}
