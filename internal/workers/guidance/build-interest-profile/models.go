package buildinterestprofile

import "roadmap-workers/internal/guidance"

type Input struct {
	Mode    string            `json:"mode,omitempty"`
	Answers []guidance.Answer `json:"answers,omitempty"`
	Ratings map[string]int    `json:"ratings,omitempty"`
}

type Output struct {
	Scores       map[string]int `json:"scores"`
	Dominant     string         `json:"dominant"`
	Secondary    string         `json:"secondary"`
	Leaders      []string       `json:"leaders"`
	InterestCode string         `json:"interestCode"`
	Tie          bool           `json:"tie"`
	Mode         string         `json:"mode"`
}

const inputSchema = `{
  "type": "object",
  "properties": {
    "mode": {"type": "string", "enum": ["checks", "ratings"]},
    "answers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["category"],
        "properties": {
          "question": {"type": "string"},
          "category": {"type": "string", "minLength": 1},
          "checked": {"type": "boolean"}
        }
      }
    },
    "ratings": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 1, "maximum": 5}
    }
  },
  "anyOf": [
    {"required": ["answers"]},
    {"required": ["ratings"]}
  ]
}`
