package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "catering")

	m.TagsCreated.Inc()
	m.RowsSkipped.WithLabelValues("facility").Add(2)
	m.EventsPublished.WithLabelValues("tag.created", "ok").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TagsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsSkipped.WithLabelValues("facility")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "catering_tags_auto_created_total")
	assert.Contains(t, names, "catering_assembler_rows_skipped_total")
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop()
		NewNop()
	})
}
