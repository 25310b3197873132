package analysis

// explanationSchema constrains the analyzer's response. Entry count is
// deliberately NOT constrained here: a wrong count is a CountMismatch,
// reported separately from a malformed shape.
func explanationSchema() map[string]any {
	jargon := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"term":       map[string]any{"type": "string", "minLength": 1},
			"definition": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"term", "definition"},
	}
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"original_text":             map[string]any{"type": "string", "minLength": 1},
			"plain_english_explanation": map[string]any{"type": "string", "minLength": 1},
			"jargon_terms":              map[string]any{"type": "array", "items": jargon},
		},
		"required": []string{"original_text", "plain_english_explanation", "jargon_terms"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"explanations": map[string]any{"type": "array", "items": item},
		},
		"required": []string{"explanations"},
	}
}

// verificationSchema constrains the verifier's response.
func verificationSchema() map[string]any {
	failure := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"clause_quote": map[string]any{"type": "string", "minLength": 1},
			"reason":       map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"clause_quote", "reason"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"all_verified": map[string]any{"type": "boolean"},
			"failures":     map[string]any{"type": "array", "items": failure},
		},
		"required": []string{"all_verified", "failures"},
	}
}
