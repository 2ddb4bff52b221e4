package resolvesubjects

type Input struct {
	MajorName string `json:"majorName"`
}

type Output struct {
	Found     bool   `json:"found"`
	Major     string `json:"major,omitempty"`
	General   string `json:"general"`
	Advanced  string `json:"advanced"`
	ErrorCode string `json:"errorCode,omitempty"`
}

const inputSchema = `{
  "type": "object",
  "required": ["majorName"],
  "properties": {
    "majorName": {"type": "string"}
  }
}`
