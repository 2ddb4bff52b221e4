package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCatalogCounters(t *testing.T) {
	before := testutil.ToFloat64(CatalogFallbacks.WithLabelValues("sheets"))
	CatalogFallbacks.WithLabelValues("sheets").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CatalogFallbacks.WithLabelValues("sheets")))

	LookupOutcomes.WithLabelValues("majors", "not_found").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(LookupOutcomes.WithLabelValues("majors", "not_found")), 1.0)
}
