// Package scheduler optionally pre-generates the day's content shortly
// after IST midnight so the client's first poll lands on a cache hit.
// Generation stays lazy: the job is just an internal first caller of the
// same orchestrator path.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"daily-digest/internal/clock"
)

// Scheduler runs the pre-warm job on a cron spec in IST.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	prewarm func(ctx context.Context)
}

func New(prewarm func(ctx context.Context)) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(clock.IST())),
		ctx:     ctx,
		cancel:  cancel,
		prewarm: prewarm,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		log.Printf("pre-warming daily content (cron %q)", spec)
		s.prewarm(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid prewarm cron spec %q: %w", spec, err)
	}
	s.cron.Start()
	log.Printf("prewarm scheduler started with spec %q (IST)", spec)
	return nil
}

// Stop halts the cron loop and cancels any in-flight run.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.cancel()
}
