package resolvemajors

type Input struct {
	CareerName string `json:"careerName"`
}

// Output.Career is the catalog row that matched, which may be longer than
// the requested name.
type Output struct {
	Found     bool     `json:"found"`
	Career    string   `json:"career,omitempty"`
	Majors    []string `json:"majors"`
	ErrorCode string   `json:"errorCode,omitempty"`
}

const inputSchema = `{
  "type": "object",
  "required": ["careerName"],
  "properties": {
    "careerName": {"type": "string"}
  }
}`
