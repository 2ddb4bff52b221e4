package rankcareers

import "roadmap-workers/internal/catalog"

type Input struct {
	Normalized catalog.ValueVector `json:"normalized"`
	Profile    *ProfileInput       `json:"profile,omitempty"`
	Limit      *int                `json:"limit,omitempty"`
	Scoring    string              `json:"scoring,omitempty"`
}

// ProfileInput accepts the build-interest-profile output. Scores win over
// the letters when both are present.
type ProfileInput struct {
	Scores    map[string]int `json:"scores,omitempty"`
	Dominant  string         `json:"dominant,omitempty"`
	Secondary string         `json:"secondary,omitempty"`
}

type Recommendation struct {
	Rank         int     `json:"rank"`
	Career       string  `json:"career"`
	InterestCode string  `json:"interestCode"`
	Description  string  `json:"description,omitempty"`
	Distance     float64 `json:"distance"`
	Bonus        int     `json:"bonus"`
	Score        float64 `json:"score"`
}

type Output struct {
	Results           []Recommendation `json:"results"`
	RecommendedByType []string         `json:"recommendedByType"`
	Scoring           string           `json:"scoring"`
	CatalogSource     string           `json:"catalogSource"`
	CatalogWarnings   int              `json:"catalogWarnings"`
}

const inputSchema = `{
  "type": "object",
  "required": ["normalized"],
  "properties": {
    "normalized": {
      "type": "array",
      "minItems": 5,
      "maxItems": 5,
      "items": {"type": "number", "minimum": 0, "maximum": 100}
    },
    "profile": {
      "type": "object",
      "properties": {
        "scores": {
          "type": "object",
          "additionalProperties": {"type": "integer", "minimum": 0}
        },
        "dominant": {"type": "string", "maxLength": 1},
        "secondary": {"type": "string", "maxLength": 1}
      }
    },
    "limit": {"type": "integer", "minimum": 0},
    "scoring": {"type": "string", "enum": ["distance", "bonus"]}
  }
}`
