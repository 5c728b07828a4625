package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestJobRunsImmediately(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(nil)
	ran := make(chan struct{}, 1)
	s.Schedule("job", time.Hour, func(context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestStopReturnsWhileJobMidRun(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(nil)
	running := make(chan struct{}, 1)
	s.Schedule("slow", 5*time.Millisecond, func(context.Context) {
		select {
		case running <- struct{}{}:
		default:
		}
		time.Sleep(20 * time.Millisecond)
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	<-running

	done := make(chan error, 1)
	go func() { done <- s.Stop(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Stop returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return while a job was mid-run")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(nil)
	s.Schedule("job", time.Hour, func(context.Context) {})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("first Stop returned error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop returned error: %v", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	if err := NewIntervalScheduler(nil).Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}

func TestScheduleIgnoresInvalidJobs(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(nil)
	s.Schedule("no-run", time.Hour, nil)
	s.Schedule("no-interval", 0, func(context.Context) {})

	if len(s.jobs) != 0 {
		t.Fatalf("expected no jobs registered, got %d", len(s.jobs))
	}
}
