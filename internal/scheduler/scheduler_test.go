package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls   atomic.Int32
	maxIdle atomic.Int64
}

func (f *fakeSweeper) Sweep(maxIdle time.Duration) int {
	f.calls.Add(1)
	f.maxIdle.Store(int64(maxIdle))
	return 0
}

func TestStartRunsSweep(t *testing.T) {
	sw := &fakeSweeper{}
	s := New(sw, 50*time.Millisecond, 3*time.Minute, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return sw.calls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, int64(3*time.Minute), sw.maxIdle.Load())
}

func TestStartWithoutExpiryDoesNothing(t *testing.T) {
	sw := &fakeSweeper{}
	s := New(sw, 10*time.Millisecond, 0, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	require.Zero(t, sw.calls.Load())
}
