package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Sweeper removes sessions that have been idle for too long.
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
}

// Scheduler periodically sweeps idle sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	maxIdle   time.Duration
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a new Scheduler.
func New(sweeper Sweeper, interval, maxIdle time.Duration, log zerolog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sweeper:   sweeper,
		maxIdle:   maxIdle,
		interval:  interval,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.maxIdle <= 0 {
		s.log.Info().Msg("session expiry disabled; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce() {
	removed := s.sweeper.Sweep(s.maxIdle)
	s.log.Debug().Int("removed", removed).Msg("session sweep completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
