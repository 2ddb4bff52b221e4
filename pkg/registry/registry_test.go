package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_ShippedFile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"list-survey-questions",
		"build-interest-profile",
		"normalize-value-weights",
		"rank-careers",
		"resolve-majors",
		"resolve-subjects",
	}, reg.TaskTypes())

	a, ok := reg.FindByTaskType("rank-careers")
	require.True(t, ok)
	assert.Equal(t, "guidance.careers.rank", a.ID)
	assert.Contains(t, a.ErrorCodes, "CATALOG_UNAVAILABLE")
	assert.Equal(t, "object", a.InputSchema["type"])

	_, ok = reg.FindByID("guidance.majors.resolve")
	assert.True(t, ok)
	_, ok = reg.FindByTaskType("crm.user.create")
	assert.False(t, ok)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadRegistry(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse registry")
}

func TestActivity_Matches(t *testing.T) {
	a := Activity{Workflows: []string{"career-roadmap"}, Tags: []string{"survey", "catalog"}}

	tests := []struct {
		name     string
		workflow string
		tag      string
		want     bool
	}{
		{name: "no filter", want: true},
		{name: "workflow", workflow: "career-roadmap", want: true},
		{name: "other workflow", workflow: "roadmap-lite"},
		{name: "tag", tag: "catalog", want: true},
		{name: "workflow and missing tag", workflow: "career-roadmap", tag: "ranking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Matches(tt.workflow, tt.tag))
		})
	}
}
