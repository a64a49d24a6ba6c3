package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.KeywordStreams.WithLabelValues(StreamCompleted).Inc()
	m.ParseErrors.Add(2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.KeywordStreams.WithLabelValues(StreamCompleted)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ParseErrors))

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNew_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
