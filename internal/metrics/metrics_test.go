package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserverCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveFetch(true)
	m.ObserveFetch(true)
	m.ObserveFetch(false)
	m.ObserveAdd(false)
	m.ObserveNotify()
	m.SetSessions(3)

	require.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.adds.WithLabelValues("failure")))

	expected := `
# HELP forecast_list_updated_total Change notifications raised after a successful add.
# TYPE forecast_list_updated_total counter
forecast_list_updated_total 1
# HELP forecast_sessions Live view sessions.
# TYPE forecast_sessions gauge
forecast_sessions 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"forecast_list_updated_total", "forecast_sessions"))
}

func TestNewWithoutRegistry(t *testing.T) {
	m := New(nil)
	m.ObserveAdd(true)
	require.Equal(t, 1.0, testutil.ToFloat64(m.adds.WithLabelValues("success")))
}
