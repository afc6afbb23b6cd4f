package postgen

// SchemaName tags the structured-output format sent to the provider.
const SchemaName = "motivational_post"

// ResultJSONSchema is the json_schema the provider is asked to stream
// against. It mirrors GenerationResult exactly.
func ResultJSONSchema() map[string]any {
	slideSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":              map[string]any{"type": "integer", "description": "Slide number: 1 (impact statement) or 2 (manifesto expansion)"},
			"backgroundColor": map[string]any{"type": "string", "description": "Background color in hex format; colors must be completely swapped between the two slides"},
			"textColor":       map[string]any{"type": "string", "description": "Text color in hex format; the other slide's background color"},
			"fontFamily":      map[string]any{"type": "string", "enum": []string{FontSerif, FontMonospace, FontSans}},
			"fontSize":        map[string]any{"type": "string", "description": "Size token, e.g. text-6xl for slide 1, text-2xl/text-lg for slide 2"},
			"fontWeight":      map[string]any{"type": "string", "description": "Weight token, e.g. font-bold or font-black"},
			"textAlign":       map[string]any{"type": "string", "description": "Alignment token: text-center for slide 1, text-left for slide 2"},
			"content": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":    map[string]any{"type": "string", "description": "Slide 1: 5-16 word impact statement. Slide 2: 3-6 word manifesto title"},
					"subtitle": map[string]any{"type": "string", "description": "Optional secondary text, rarely used"},
					"body":     map[string]any{"type": "string", "description": "Slide 2 manifesto (80-120 words) with \\n\\n paragraph breaks; empty on slide 1"},
				},
				"required":             []string{"title"},
				"additionalProperties": false,
			},
			"textPosition": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"x": map[string]any{"type": "string", "enum": []string{"left", "center", "right"}},
					"y": map[string]any{"type": "string", "enum": []string{"top", "center", "bottom"}},
				},
				"required":             []string{"x", "y"},
				"additionalProperties": false,
			},
		},
		"required": []string{
			"id", "backgroundColor", "textColor", "fontFamily",
			"fontSize", "fontWeight", "textAlign", "content", "textPosition",
		},
		"additionalProperties": false,
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Concise summary (10-20 words) of the themes covered, used to avoid repeating content in future posts",
			},
			"post": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"theme": map[string]any{"type": "string"},
					"style": map[string]any{"type": "string"},
					"slides": map[string]any{
						"type":     "array",
						"items":    slideSchema,
						"minItems": 2,
						"maxItems": 2,
					},
					"caption":     map[string]any{"type": "string", "description": "Short caption in the same voice as the post, 1-2 sentences"},
					"hashtags":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"description": map[string]any{"type": "string"},
				},
				"required":             []string{"theme", "style", "slides", "caption", "hashtags", "description"},
				"additionalProperties": false,
			},
		},
		"required":             []string{"summary", "post"},
		"additionalProperties": false,
	}
}
