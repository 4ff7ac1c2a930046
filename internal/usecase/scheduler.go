package usecase

import (
	"context"
	"time"

	"NewsDigest/internal/ports"
)

// Scheduler wires the interval driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	location *time.Location
}

// NewScheduler returns a helper to start/stop recurring runs. Runs are
// anchored in the given location; nil means the trigger time is used as is.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, location *time.Location) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, location: location}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if s.location != nil {
			trigger = trigger.In(s.location)
		}
		_ = s.pipeline.Run(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
