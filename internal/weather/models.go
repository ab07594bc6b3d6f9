package weather

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Summaries are the labels used when synthesizing forecasts.
var Summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild",
	"Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

// Forecast is a single daily forecast entry.
// The identifier is fixed at construction; TemperatureF is always derived.
type Forecast struct {
	id uuid.UUID

	Date         time.Time `json:"date"`
	TemperatureC int       `json:"temperatureC"`
	Summary      *string   `json:"summary,omitempty"`
}

// NewForecast creates a forecast with the given identifier and field values.
func NewForecast(id uuid.UUID, d Draft) Forecast {
	f := Forecast{
		id:           id,
		Date:         d.Date,
		TemperatureC: d.TemperatureC,
	}
	if d.Summary != nil {
		s := *d.Summary
		f.Summary = &s
	}
	return f
}

// ID returns the forecast identifier.
func (f Forecast) ID() uuid.UUID {
	return f.id
}

// TemperatureF converts TemperatureC to Fahrenheit.
func (f Forecast) TemperatureF() int {
	return 32 + int(float64(f.TemperatureC)/0.5556)
}

// Draft returns the caller-editable fields of the forecast.
func (f Forecast) Draft() Draft {
	d := Draft{Date: f.Date, TemperatureC: f.TemperatureC}
	if f.Summary != nil {
		s := *f.Summary
		d.Summary = &s
	}
	return d
}

// Clone returns a deep copy that shares no memory with f.
func (f Forecast) Clone() Forecast {
	return NewForecast(f.id, f.Draft())
}

// CloneAll deep-copies a slice of forecasts. The result is never nil.
func CloneAll(in []Forecast) []Forecast {
	out := make([]Forecast, 0, len(in))
	for _, f := range in {
		out = append(out, f.Clone())
	}
	return out
}

// Draft holds the fields a caller supplies when creating a forecast.
type Draft struct {
	Date         time.Time `json:"date"`
	TemperatureC int       `json:"temperatureC"`
	Summary      *string   `json:"summary,omitempty"`
}

// DefaultDraft is the candidate used by Service.AddRecord.
func DefaultDraft(now time.Time) Draft {
	summary := "Testing"
	return Draft{
		Date:         now,
		TemperatureC: 20,
		Summary:      &summary,
	}
}

// MarshalJSON includes the identifier and the derived Fahrenheit value.
func (f Forecast) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           uuid.UUID `json:"id"`
		Date         time.Time `json:"date"`
		TemperatureC int       `json:"temperatureC"`
		TemperatureF int       `json:"temperatureF"`
		Summary      *string   `json:"summary,omitempty"`
	}{
		ID:           f.id,
		Date:         f.Date,
		TemperatureC: f.TemperatureC,
		TemperatureF: f.TemperatureF(),
		Summary:      f.Summary,
	})
}
