package weather

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTemperatureFIsDerived(t *testing.T) {
	cases := []struct {
		c, f int
	}{
		{0, 32},
		{20, 67},
		{-20, -3},
		{100, 211},
	}
	for _, tc := range cases {
		f := NewForecast(uuid.New(), Draft{TemperatureC: tc.c})
		require.Equal(t, tc.f, f.TemperatureF(), "celsius %d", tc.c)
	}

	f := NewForecast(uuid.New(), Draft{TemperatureC: 0})
	f.TemperatureC = 20
	require.Equal(t, 67, f.TemperatureF())
}

func TestCloneSharesNoMemory(t *testing.T) {
	summary := "Mild"
	f := NewForecast(uuid.New(), Draft{Date: time.Now(), TemperatureC: 12, Summary: &summary})

	c := f.Clone()
	require.Equal(t, f.ID(), c.ID())
	*c.Summary = "Hot"
	require.Equal(t, "Mild", *f.Summary)

	summary = "Chilly"
	require.Equal(t, "Mild", *f.Summary)
}

func TestCloneAllNeverNil(t *testing.T) {
	require.NotNil(t, CloneAll(nil))
	require.Empty(t, CloneAll(nil))
}

func TestForecastJSON(t *testing.T) {
	id := uuid.MustParse("0b6c9f2e-3f6a-4d4b-9d1c-2f5c8f1a7e10")
	date := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	f := NewForecast(id, Draft{Date: date, TemperatureC: 20})

	raw, err := json.Marshal(f)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": "0b6c9f2e-3f6a-4d4b-9d1c-2f5c8f1a7e10",
		"date": "2026-10-19T00:00:00Z",
		"temperatureC": 20,
		"temperatureF": 67
	}`, string(raw))
}

func TestResultEnvelopesCopyPayload(t *testing.T) {
	summary := "Warm"
	items := []Forecast{NewForecast(uuid.New(), Draft{TemperatureC: 25, Summary: &summary})}

	res := QuerySucceeded(items, "")
	*items[0].Summary = "Cold"
	require.Equal(t, "Warm", *res.Items()[0].Summary)

	got := res.Items()
	got[0].TemperatureC = -1
	require.Equal(t, 25, res.Items()[0].TemperatureC)

	failed := QueryFailed("nope")
	require.False(t, failed.Success())
	require.Equal(t, "nope", failed.Message())
	require.Empty(t, failed.Items())

	require.True(t, CommandSucceeded("").Success())
	cmd := CommandFailed("Can't add record.")
	require.False(t, cmd.Success())
	require.Equal(t, "Can't add record.", cmd.Message())
}
