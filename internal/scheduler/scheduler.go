package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/weatherops/cwa-forecast-export/internal/pipeline"
)

// Scheduler periodically executes the export pipeline. Each tick is an
// independent run; a failed run is logged and the process stays up.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pipeline  *pipeline.Pipeline
	interval  time.Duration

	mu   sync.RWMutex
	last *pipeline.Report
}

// New creates a Scheduler that runs the pipeline every interval.
func New(p *pipeline.Pipeline, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pipeline:  p,
		interval:  interval,
	}
}

// Start schedules the periodic export, running the first one immediately,
// and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}

	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(func() {
		log.Println("scheduler: running export job")

		report, err := s.pipeline.Run(context.Background())
		if err != nil {
			log.Printf("scheduler: export run failed: %v", err)
		}

		s.mu.Lock()
		s.last = &report
		s.mu.Unlock()

		log.Println("scheduler: completed export job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// LastReport returns the most recent run outcome, or nil before the first
// run completes.
func (s *Scheduler) LastReport() *pipeline.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
