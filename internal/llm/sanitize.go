package llm

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// SanitizeStageOutput loosens a model response that almost matches a stage
// schema so the document can still validate. We only touch recoverable noise:
//   - drop null or empty-string optionals
//   - trim string values
//   - coerce lone strings into one-element arrays for array fields
//   - remove unknown keys (additionalProperties is false in both schemas)
//
// Required-field violations are left alone; those must fail validation.
func SanitizeStageOutput(schemaMap map[string]any, raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	props, _ := schemaMap["properties"].(map[string]any)
	required := map[string]struct{}{}
	if req, ok := schemaMap["required"].([]string); ok {
		for _, k := range req {
			required[k] = struct{}{}
		}
	}

	var dropped []string

	for k, v := range maps.Clone(m) {
		spec, known := props[k].(map[string]any)
		if !known {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}

		switch t := v.(type) {
		case nil:
			if _, req := required[k]; !req {
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			}
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				if _, req := required[k]; !req {
					delete(m, k)
					dropped = append(dropped, k+"(empty)")
					continue
				}
			}
			if spec["type"] == "array" {
				// model returned a bare string where an array was asked for
				m[k] = []any{s}
				dropped = append(dropped, k+"(wrapped)")
			} else {
				m[k] = s
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	return out, dropped, nil
}
