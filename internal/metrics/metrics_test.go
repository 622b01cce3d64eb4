package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountTransactionsByType(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncTransaction("in")
	m.IncTransaction("in")
	m.IncTransaction("out")
	m.IncInsufficientStock()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transactions.WithLabelValues("in")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues("out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.insufficientStock))
}

func TestMetricsObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest(http.MethodGet, "/api/products", http.StatusOK, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unknown", "404")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncTransaction("in")
		m.IncInsufficientStock()
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Second)
	})

	unregistered := New(nil)
	assert.NotPanics(t, func() { unregistered.IncTransaction("out") })
}
