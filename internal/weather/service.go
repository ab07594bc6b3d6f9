package weather

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Observer receives counts of service activity. It is optional.
type Observer interface {
	ObserveFetch(success bool)
	ObserveAdd(success bool)
	ObserveNotify()
}

// Option customizes a Service.
type Option func(*Service)

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithClock overrides the time source used for new forecasts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service holds the per-session view of the forecast store: the last
// successful read, the last message, and a change notification.
// Fetch and AddForecast run one at a time, so the cache always reflects the
// most recently started store round trip.
type Service struct {
	store    Store
	log      zerolog.Logger
	observer Observer
	now      func() time.Time

	// serializes store round trips
	op sync.Mutex

	mu        sync.RWMutex
	forecasts []Forecast
	message   string

	updated notifier
}

// NewService creates a new Service reading from and writing to store.
func NewService(store Store, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		log:       log.With().Str("component", "view").Logger(),
		now:       time.Now,
		forecasts: []Forecast{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch queries the store and, on success, replaces the cached forecasts.
// The message is recorded either way; a failure leaves the cache as it was.
func (s *Service) Fetch(ctx context.Context) bool {
	s.op.Lock()
	defer s.op.Unlock()
	return s.fetch(ctx)
}

func (s *Service) fetch(ctx context.Context) bool {
	res := s.store.Query(ctx)

	s.mu.Lock()
	s.message = res.Message()
	if res.Success() {
		s.forecasts = res.Items()
	}
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.ObserveFetch(res.Success())
	}
	if !res.Success() {
		s.log.Warn().Str("message", res.Message()).Msg("fetch failed")
	}
	return res.Success()
}

// AddRecord submits a forecast with a fresh identifier and default values.
func (s *Service) AddRecord(ctx context.Context) bool {
	return s.AddForecast(ctx, DefaultDraft(s.now()))
}

// AddForecast submits a forecast built from d. Subscribers are notified only
// when both the add and the following fetch succeed.
func (s *Service) AddForecast(ctx context.Context, d Draft) bool {
	s.op.Lock()
	ok := s.add(ctx, d)
	s.op.Unlock()

	// delivered outside op so listeners may call back into the service
	if ok {
		if s.observer != nil {
			s.observer.ObserveNotify()
		}
		s.updated.notify()
	}
	return ok
}

func (s *Service) add(ctx context.Context, d Draft) bool {
	f := NewForecast(uuid.New(), d)
	res := s.store.Add(ctx, f)

	s.mu.Lock()
	s.message = res.Message()
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.ObserveAdd(res.Success())
	}
	if !res.Success() {
		s.log.Warn().Str("id", f.ID().String()).Str("message", res.Message()).Msg("add failed")
		return false
	}

	if !s.fetch(ctx) {
		return false
	}

	s.log.Debug().Str("id", f.ID().String()).Msg("forecast added")
	return true
}

// Forecasts returns a copy of the cached forecasts.
func (s *Service) Forecasts() []Forecast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CloneAll(s.forecasts)
}

// Message returns the message from the most recent store call.
func (s *Service) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// Subscribe registers fn to be called after the cached list changes.
func (s *Service) Subscribe(fn func()) Subscription {
	return s.updated.subscribe(fn)
}

// Subscribers returns the number of attached listeners.
func (s *Service) Subscribers() int {
	return s.updated.len()
}

// Close detaches all listeners.
func (s *Service) Close() {
	s.updated.clear()
}
