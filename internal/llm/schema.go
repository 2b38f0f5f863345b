package llm

// BuildSummaryJSONSchema returns the JSON Schema (draft 2020-12 subset) for the
// summary stage as a generic map. We pass this to the completion provider as a
// structured output constraint and also use it locally to validate.
func BuildSummaryJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"project_name":    map[string]any{"type": "string", "minLength": 1},
			"project_type":    map[string]any{"type": "string", "minLength": 1},
			"budget":          map[string]any{"type": "string"},
			"overall_summary": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"project_name", "project_type", "overall_summary"},
	}
}

// BuildDeepAnalysisJSONSchema returns the JSON Schema for the deep analysis
// stage: scope, requirements, risks, deadlines, and material spec line items.
func BuildDeepAnalysisJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"scope_of_work":           stringArrayProp(),
			"key_requirements":        stringArrayProp(),
			"risks_and_opportunities": stringArrayProp(),
			"deadlines":               stringArrayProp(),
			"extracted_material_specifications": map[string]any{
				"type":  "array",
				"items": materialSpecProp(),
			},
		},
		"required": []string{
			"scope_of_work",
			"key_requirements",
			"risks_and_opportunities",
			"deadlines",
			"extracted_material_specifications",
		},
	}
}

func stringArrayProp() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func materialSpecProp() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"item_name":    map[string]any{"type": "string", "minLength": 1},
			"brand_model":  map[string]any{"type": "string"},
			"quantity":     map[string]any{"type": "string"},
			"unit":         map[string]any{"type": "string"},
			"tor_page":     map[string]any{"type": "string"},
			"spec_details": map[string]any{"type": "string"},
		},
		"required": []string{"item_name"},
	}
}
