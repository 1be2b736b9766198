package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"IndexHarvest/internal/pipeline"
)

// Runner executes one collection run.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Scheduler runs the pipeline on a cron schedule. Runs never overlap.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Ctx    context.Context
	// OnComplete, if set, is called after every run.
	OnComplete func(*pipeline.Result, error)

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner Runner) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Runner: runner,
		Ctx:    ctx,
	}
}

// Register adds the collection run under spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.runTask); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the scheduler and waits for a running collection to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunNow executes a collection immediately.
func (s *Scheduler) RunNow() (*pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Info("running collection")
	res, err := s.Runner.Run(s.Ctx)
	if err != nil {
		log.Errorf("collection run: %v", err)
	}
	if s.OnComplete != nil {
		s.OnComplete(res, err)
	}
	return res, err
}

func (s *Scheduler) runTask() {
	_, _ = s.RunNow()
}
