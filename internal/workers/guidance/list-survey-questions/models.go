package listsurveyquestions

import "roadmap-workers/internal/catalog"

// Input.Categories limits the questions to those RIASEC letters. Empty means all.
type Input struct {
	Categories []string `json:"categories,omitempty"`
}

type Output struct {
	Questions     []catalog.Question `json:"questions"`
	Count         int                `json:"count"`
	CatalogSource string             `json:"catalogSource"`
}

const inputSchema = `{
  "type": "object",
  "properties": {
    "categories": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    }
  }
}`
