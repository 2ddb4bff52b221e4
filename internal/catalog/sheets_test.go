package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-workers/internal/common/config"
	commonhttp "roadmap-workers/internal/common/http"
)

func newSheetServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sheet-1/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		body, ok := bodies[r.URL.Query().Get("gid")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sheetsConfig(baseURL string) config.CatalogConfig {
	return config.CatalogConfig{
		Source:       config.SourceSheets,
		SheetID:      "sheet-1",
		SheetBaseURL: baseURL,
		SheetGIDs: map[string]string{
			TableQuestions: "1",
			TableJobs:      "2",
			TableMajors:    "3",
			TableSubjects:  "4",
			TableBalance:   "",
		},
	}
}

func TestSheetsSource_Fetch(t *testing.T) {
	srv := newSheetServer(t, map[string]string{
		"1": questionsCSV,
		"2": jobsCSV,
		"3": majorsCSV,
		"4": subjectsCSV,
	})

	src := NewSheetsSource(sheetsConfig(srv.URL+"/"), commonhttp.NewRateLimitedClient(time.Second, 100))
	assert.Equal(t, srv.URL+"/sheet-1/export?format=csv&gid=3", src.ExportURL("3"))

	tables, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables, 4)
	assert.NotContains(t, tables, TableBalance, "empty gid is skipped")

	snap, err := Resolve(tables, testColumns())
	require.NoError(t, err)
	assert.Len(t, snap.Careers, 3)
}

func TestSheetsSource_HTTPFailure(t *testing.T) {
	srv := newSheetServer(t, map[string]string{"1": questionsCSV})

	src := NewSheetsSource(sheetsConfig(srv.URL), commonhttp.NewClient(time.Second))
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch Jobs")
	assert.Contains(t, err.Error(), "404")
}
