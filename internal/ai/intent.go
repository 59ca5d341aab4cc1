// internal/ai/intent.go
package ai

import "google.golang.org/genai"

// SearchIntent is the schema-validated decomposition of a free-text
// search query. Zero fields mean the model extracted nothing for that
// facet.
type SearchIntent struct {
	Category         string   `json:"category,omitempty"`
	MaxPrice         float64  `json:"maxPrice,omitempty"`
	Material         string   `json:"material,omitempty"`
	Color            string   `json:"color,omitempty"`
	Style            string   `json:"style,omitempty"`
	SemanticKeywords []string `json:"semanticKeywords,omitempty"`
}

var searchIntentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"category": {Type: genai.TypeString},
		"maxPrice": {Type: genai.TypeNumber},
		"material": {Type: genai.TypeString},
		"color":    {Type: genai.TypeString},
		"style":    {Type: genai.TypeString},
		"semanticKeywords": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
}

var recommendationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendedIds": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeInteger},
		},
	},
	Required: []string{"recommendedIds"},
}

var vendorAuditSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"status": {Type: genai.TypeString},
		"reason": {Type: genai.TypeString},
	},
	Required: []string{"status", "reason"},
}
