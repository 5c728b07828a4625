// Package scheduler owns the polling loop: one goroutine per scheduled
// job, each running its job immediately and then on its interval. Runs for
// the same job never overlap, which is what lets the pipeline write each
// token's file without locking.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"MarketFeed/internal/ports"
)

type job struct {
	name     string
	interval time.Duration
	run      func(context.Context)
}

// IntervalScheduler drives registered jobs with time.Ticker loops.
type IntervalScheduler struct {
	jobs   []job
	logger *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds an empty scheduler.
func NewIntervalScheduler(log *slog.Logger) *IntervalScheduler {
	return &IntervalScheduler{logger: log}
}

// Schedule registers a job. Must be called before Start.
func (s *IntervalScheduler) Schedule(name string, interval time.Duration, run func(context.Context)) {
	if run == nil || interval <= 0 {
		return
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Start launches one ticker loop per job; each job runs once immediately.
func (s *IntervalScheduler) Start(ctx context.Context) error {
	if s.stop != nil {
		return nil
	}
	s.stop = make(chan struct{})

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
		if s.logger != nil {
			s.logger.Info("scheduled job", "job", j.name, "interval", j.interval)
		}
	}
	return nil
}

func (s *IntervalScheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.run(ctx)
	for {
		select {
		case <-ticker.C:
			j.run(ctx)
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		}
	}
}

// Stop halts every job loop and waits for in-flight runs to finish. The
// stop channel stays closed so a loop returning from a long run still
// observes the signal.
func (s *IntervalScheduler) Stop(_ context.Context) error {
	if s.stop == nil {
		return nil
	}
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
	return nil
}
