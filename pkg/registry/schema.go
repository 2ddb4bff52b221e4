package registry

import "slices"

// ActivityRegistry is the on-disk catalog of BPMN service tasks and the
// workers that implement them.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one service task. InputSchema is the JSON Schema the
// worker validates job variables against.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"` // BPMN process ids
	Tags                 []string               `json:"tags"`
}

// Matches reports whether the activity belongs to workflow and carries tag.
// An empty argument matches everything.
func (a *Activity) Matches(workflow, tag string) bool {
	if workflow != "" && !slices.Contains(a.Workflows, workflow) {
		return false
	}
	return tag == "" || slices.Contains(a.Tags, tag)
}
