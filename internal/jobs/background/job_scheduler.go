package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// ReportWarmer recomputes cached finance reports.
type ReportWarmer interface {
	Warm(ctx context.Context) error
}

// JobScheduler runs periodic maintenance jobs in-process.
type JobScheduler struct {
	scheduler gocron.Scheduler
	logger    *zap.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers the report warm-up job.
// A non-positive interval leaves the warm-up job disabled.
func NewJobScheduler(warmer ReportWarmer, interval time.Duration, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}

	if interval > 0 {
		if err := js.AddJob("finance-report-warmup", interval, js.warmReports, warmer); err != nil {
			return nil, err
		}
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", zap.Int("jobs", js.count()))
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) warmReports(warmer ReportWarmer) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	started := time.Now()
	if err := warmer.Warm(ctx); err != nil {
		js.logger.Warn("report warm-up failed", zap.Error(err))
		return
	}
	js.logger.Debug("report cache warmed", zap.Duration("took", time.Since(started)))
}

// AddJob schedules taskFn every interval, starting immediately. Overlapping
// runs of the same job are skipped.
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", name, err)
	}

	js.jobs[name] = job
	return nil
}

func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobs, name)
		return err
	}
	return nil
}

// JobNames lists registered job names.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) count() int {
	js.mu.RLock()
	defer js.mu.RUnlock()
	return len(js.jobs)
}
