package store

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-forecast-state/internal/weather"
)

// MsgUnavailable is reported while the circuit breaker rejects calls.
const MsgUnavailable = "store unavailable: circuit breaker is open"

// BreakerStore guards a weather.Store with a circuit breaker.
// Only infrastructure failures (the call's context ending during the round trip)
// count against the breaker; domain failures such as MsgCantAdd pass through.
// It never retries; each call is attempted at most once.
type BreakerStore struct {
	inner   weather.Store
	circuit *gobreaker.CircuitBreaker
}

// NewBreakerStore wraps inner with a breaker named name.
func NewBreakerStore(inner weather.Store, name string) *BreakerStore {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &BreakerStore{inner: inner, circuit: cb}
}

// Query forwards to the wrapped store unless the breaker is open.
func (b *BreakerStore) Query(ctx context.Context) weather.QueryResult {
	var res weather.QueryResult
	_, err := b.circuit.Execute(func() (interface{}, error) {
		res = b.inner.Query(ctx)
		return nil, infraErr(ctx, res.Success())
	})
	if isOpen(err) {
		return weather.QueryFailed(MsgUnavailable)
	}
	return res
}

// Add forwards to the wrapped store unless the breaker is open.
func (b *BreakerStore) Add(ctx context.Context, f weather.Forecast) weather.CommandResult {
	var res weather.CommandResult
	_, err := b.circuit.Execute(func() (interface{}, error) {
		res = b.inner.Add(ctx, f)
		return nil, infraErr(ctx, res.Success())
	})
	if isOpen(err) {
		return weather.CommandFailed(MsgUnavailable)
	}
	return res
}

// State exposes the breaker state for diagnostics.
func (b *BreakerStore) State() gobreaker.State {
	return b.circuit.State()
}

// infraErr reports a failure caused by the call's context rather than the store's data.
func infraErr(ctx context.Context, success bool) error {
	if success {
		return nil
	}
	return ctx.Err()
}

func isOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
