package store

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-forecast-state/internal/weather"
)

const (
	// DefaultBatchSize is the number of forecasts synthesized on first query.
	DefaultBatchSize = 5

	// MsgCantAdd is reported when Add is called before the store is initialized.
	MsgCantAdd = "Can't add record."
)

// Options configures a MemoryStore.
type Options struct {
	BatchSize int           // forecasts generated on first query (<= 0 uses DefaultBatchSize)
	RoundTrip time.Duration // artificial delay applied to every call
	Now       func() time.Time
	Rand      *rand.Rand
	Logger    zerolog.Logger
}

// MemoryStore is a concurrency-safe in-memory forecast store.
// Forecasts never leave or enter the store without being copied.
type MemoryStore struct {
	mu sync.RWMutex

	// nil until the first query
	forecasts []weather.Forecast

	batchSize int
	roundTrip time.Duration
	now       func() time.Time
	rnd       *rand.Rand
	log       zerolog.Logger
}

// NewMemoryStore creates an uninitialized MemoryStore.
func NewMemoryStore(opts Options) *MemoryStore {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MemoryStore{
		batchSize: opts.BatchSize,
		roundTrip: opts.RoundTrip,
		now:       opts.Now,
		rnd:       opts.Rand,
		log:       opts.Logger.With().Str("component", "store").Logger(),
	}
}

// Query returns copies of all forecasts, generating the initial batch on first use.
func (s *MemoryStore) Query(ctx context.Context) weather.QueryResult {
	if err := s.wait(ctx); err != nil {
		return weather.QueryFailed(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forecasts == nil {
		s.forecasts = s.generate()
		s.log.Debug().Int("count", len(s.forecasts)).Msg("generated initial forecasts")
	}
	return weather.QuerySucceeded(s.forecasts, "")
}

// Add appends a copy of f. It fails if the store has never been queried.
// Identifiers are not checked for uniqueness.
func (s *MemoryStore) Add(ctx context.Context, f weather.Forecast) weather.CommandResult {
	if err := s.wait(ctx); err != nil {
		return weather.CommandFailed(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forecasts == nil {
		s.log.Warn().Str("id", f.ID().String()).Msg("add before initial query")
		return weather.CommandFailed(MsgCantAdd)
	}
	s.forecasts = append(s.forecasts, f.Clone())
	return weather.CommandSucceeded("")
}

// Initialized reports whether the initial batch has been generated.
func (s *MemoryStore) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forecasts != nil
}

// Len returns the number of stored forecasts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forecasts)
}

func (s *MemoryStore) generate() []weather.Forecast {
	now := s.now()
	out := make([]weather.Forecast, 0, s.batchSize)
	for i := 1; i <= s.batchSize; i++ {
		summary := weather.Summaries[s.rnd.Intn(len(weather.Summaries))]
		out = append(out, weather.NewForecast(uuid.New(), weather.Draft{
			Date:         now.AddDate(0, 0, i),
			TemperatureC: s.rnd.Intn(75) - 20,
			Summary:      &summary,
		}))
	}
	return out
}

// wait emulates the round trip to a real data source.
func (s *MemoryStore) wait(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.roundTrip <= 0 {
		return nil
	}

	timer := time.NewTimer(s.roundTrip)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
