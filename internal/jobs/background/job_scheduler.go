package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

const (
	PopularWarmupJob     = "popular-products-warmup"
	DocumentRetentionJob = "document-retention"

	popularWarmupInterval = 10 * time.Minute
	jobTimeout            = 5 * time.Minute
)

// Maintainer is the part of the report service the jobs drive
type Maintainer interface {
	WarmPopularProducts(ctx context.Context) error
	PurgeDocuments(ctx context.Context, olderThan time.Duration) (int, error)
}

// JobStatus describes one registered job
type JobStatus struct {
	Name    string    `json:"name"`
	LastRun time.Time `json:"last_run,omitempty"`
	NextRun time.Time `json:"next_run,omitempty"`
}

// JobScheduler runs the periodic maintenance jobs
type JobScheduler struct {
	scheduler  gocron.Scheduler
	maintainer Maintainer
	retention  time.Duration
	logger     zerolog.Logger
	jobs       map[string]gocron.Job
	mu         sync.RWMutex
}

// NewJobScheduler registers the cache warm-up and, when retention is
// positive, the daily purge of stored documents.
func NewJobScheduler(maintainer Maintainer, retention time.Duration, logger zerolog.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		maintainer: maintainer,
		retention:  retention,
		logger:     logger.With().Str("component", "scheduler").Logger(),
		jobs:       make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info().Int("jobs", len(js.jobs)).Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	if err := js.add(PopularWarmupJob,
		gocron.DurationJob(popularWarmupInterval),
		js.warmPopularProducts,
	); err != nil {
		return err
	}

	if js.retention > 0 {
		if err := js.add(DocumentRetentionJob,
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
			js.purgeDocuments,
		); err != nil {
			return err
		}
	}
	return nil
}

func (js *JobScheduler) add(name string, def gocron.JobDefinition, task func()) error {
	job, err := js.scheduler.NewJob(
		def,
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}
	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) jobContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	return js.logger.WithContext(ctx), cancel
}

func (js *JobScheduler) warmPopularProducts() {
	ctx, cancel := js.jobContext()
	defer cancel()

	if err := js.maintainer.WarmPopularProducts(ctx); err != nil {
		js.logger.Warn().Err(err).Str("job", PopularWarmupJob).Msg("failed to warm popular products cache")
		return
	}
	js.logger.Debug().Str("job", PopularWarmupJob).Msg("popular products cache warmed")
}

func (js *JobScheduler) purgeDocuments() {
	ctx, cancel := js.jobContext()
	defer cancel()

	removed, err := js.maintainer.PurgeDocuments(ctx, js.retention)
	if err != nil {
		js.logger.Error().Err(err).Str("job", DocumentRetentionJob).Msg("document purge failed")
		return
	}
	js.logger.Info().Str("job", DocumentRetentionJob).Int("removed", removed).Msg("old documents purged")
}

// RunNow triggers a registered job outside its schedule
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

// Status lists the registered jobs by name
func (js *JobScheduler) Status() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		s := JobStatus{Name: name}
		if t, err := job.LastRun(); err == nil {
			s.LastRun = t
		}
		if t, err := job.NextRun(); err == nil {
			s.NextRun = t
		}
		status = append(status, s)
	}
	sort.Slice(status, func(i, j int) bool { return status[i].Name < status[j].Name })
	return status
}
