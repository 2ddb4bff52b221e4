package normalizevalueweights

import "roadmap-workers/internal/catalog"

// Input weights follow catalog.AxisNames order.
type Input struct {
	Weights [catalog.AxisCount]int `json:"weights"`
	Mode    string                 `json:"mode,omitempty"`
}

type Output struct {
	Valid      bool                `json:"valid"`
	Normalized catalog.ValueVector `json:"normalized"`
	Sum        int                 `json:"sum"`
	Delta      int                 `json:"delta"`
	Mode       string              `json:"mode"`
	Message    string              `json:"message,omitempty"`
	ErrorCode  string              `json:"errorCode,omitempty"`
}

const inputSchema = `{
  "type": "object",
  "required": ["weights"],
  "properties": {
    "weights": {
      "type": "array",
      "minItems": 5,
      "maxItems": 5,
      "items": {"type": "integer", "minimum": 0, "maximum": 100}
    },
    "mode": {"type": "string", "enum": ["EXACT", "AUTO", "exact", "auto"]}
  }
}`
