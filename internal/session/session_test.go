package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-forecast-state/internal/metrics"
	"github.com/i474232898/weather-forecast-state/internal/store"
	"github.com/i474232898/weather-forecast-state/internal/weather"
)

func newManager(t *testing.T) (*Manager, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(store.Options{Logger: zerolog.Nop()})
	return NewManager(st, zerolog.Nop(), nil), st
}

func TestCreateFetchesAndRegisters(t *testing.T) {
	m, st := newManager(t)

	s, ok := m.Create(context.Background())
	require.True(t, ok)
	require.True(t, st.Initialized())
	require.Len(t, s.View.Forecasts(), store.DefaultBatchSize)
	require.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	require.Same(t, s, got)

	_, err = m.Get(uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionsShareStoreButNotCache(t *testing.T) {
	m, _ := newManager(t)
	a, _ := m.Create(context.Background())
	b, _ := m.Create(context.Background())

	require.True(t, a.View.AddRecord(context.Background()))
	require.Len(t, a.View.Forecasts(), store.DefaultBatchSize+1)

	// b's cache is stale until it fetches again
	require.Len(t, b.View.Forecasts(), store.DefaultBatchSize)
	require.True(t, b.View.Fetch(context.Background()))
	require.Len(t, b.View.Forecasts(), store.DefaultBatchSize+1)
}

func TestRenderRequestedByEditorAndNotification(t *testing.T) {
	m, _ := newManager(t)
	s, _ := m.Create(context.Background())
	require.Zero(t, s.Revision())

	_, err := s.Editor.Show()
	require.NoError(t, err)
	require.Equal(t, uint64(1), s.Revision())

	summary := "Hot"
	added, err := s.Editor.Commit(context.Background(), weather.Draft{TemperatureC: 35, Summary: &summary})
	require.NoError(t, err)
	require.True(t, added)

	// one for the change notification, one for hiding the editor
	require.Equal(t, uint64(3), s.Revision())
	require.Len(t, s.View.Forecasts(), store.DefaultBatchSize+1)
}

func TestCloseDetachesSubscribers(t *testing.T) {
	m, _ := newManager(t)
	s, _ := m.Create(context.Background())
	require.Equal(t, 1, s.View.Subscribers())

	require.NoError(t, m.Close(s.ID))
	require.Zero(t, s.View.Subscribers())
	require.Zero(t, m.Len())
	require.ErrorIs(t, m.Close(s.ID), ErrNotFound)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	m, _ := newManager(t)
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	idle, _ := m.Create(context.Background())
	editing, _ := m.Create(context.Background())
	_, err := editing.Editor.Show()
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	active, _ := m.Create(context.Background())

	require.Equal(t, 1, m.Sweep(5*time.Minute))
	require.Equal(t, 2, m.Len())

	_, err = m.Get(idle.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(active.ID)
	require.NoError(t, err)
	_, err = m.Get(editing.ID)
	require.NoError(t, err)
}

func TestSessionGaugeTracksLiveSessions(t *testing.T) {
	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	st := store.NewMemoryStore(store.Options{Logger: zerolog.Nop()})
	m := NewManager(st, zerolog.Nop(), met)

	a, _ := m.Create(context.Background())
	m.Create(context.Background())
	require.NoError(t, m.Close(a.ID))

	count, err := testutil.GatherAndCount(reg, "forecast_sessions")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "forecast_sessions" {
			require.Equal(t, 1.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}
