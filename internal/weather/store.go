package weather

import "context"

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
// Failures are reported through the result envelopes, never as Go errors.
type Store interface {
	Query(ctx context.Context) QueryResult
	Add(ctx context.Context, f Forecast) CommandResult
}
