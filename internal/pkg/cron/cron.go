// Package cron runs named background jobs on fixed intervals.
package cron

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobStatus represents the last known state of a job.
type JobStatus string

const (
	StatusIdle    JobStatus = "idle"
	StatusRunning JobStatus = "running"
	StatusSuccess JobStatus = "success"
	StatusFailed  JobStatus = "failed"
)

var ErrJobNotFound = errors.New("job not found")

// Job defines a scheduled background task.
type Job struct {
	Name        string
	Description string
	Interval    time.Duration
	Fn          func(ctx context.Context) error
}

type jobState struct {
	Job
	mu        sync.Mutex
	status    JobStatus
	message   string
	lastRunAt *time.Time
	nextRunAt time.Time
}

// JobInfo is a point-in-time view of a registered job.
type JobInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Interval    string     `json:"interval"`
	Status      JobStatus  `json:"status"`
	Message     string     `json:"message,omitempty"`
	NextRunAt   time.Time  `json:"next_run_at"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
}

// Scheduler manages a collection of named jobs.
type Scheduler struct {
	mu   sync.RWMutex
	jobs map[string]*jobState
	log  *zap.Logger
	wg   sync.WaitGroup
}

func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		jobs: make(map[string]*jobState),
		log:  log.Named("cron"),
	}
}

// Register adds a job. Must be called before Start; the first run happens
// one interval after registration.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = &jobState{
		Job:       job,
		status:    StatusIdle,
		nextRunAt: time.Now().Add(job.Interval),
	}
}

// Start launches every registered job loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, js := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(ctx, js)
	}
}

// Wait blocks until all job loops have returned after cancellation.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) runLoop(ctx context.Context, js *jobState) {
	defer s.wg.Done()
	for {
		js.mu.Lock()
		wait := time.Until(js.nextRunAt)
		js.mu.Unlock()
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.execute(ctx, js)
			js.mu.Lock()
			js.nextRunAt = time.Now().Add(js.Interval)
			js.mu.Unlock()
		}
	}
}

// execute runs the job unless it is already running.
func (s *Scheduler) execute(ctx context.Context, js *jobState) error {
	js.mu.Lock()
	if js.status == StatusRunning {
		js.mu.Unlock()
		return nil
	}
	js.status = StatusRunning
	js.mu.Unlock()

	start := time.Now()
	err := js.Fn(ctx)

	js.mu.Lock()
	js.lastRunAt = &start
	if err != nil {
		js.status = StatusFailed
		js.message = err.Error()
	} else {
		js.status = StatusSuccess
		js.message = ""
	}
	js.mu.Unlock()

	if err != nil {
		s.log.Warn("job failed", zap.String("job", js.Name), zap.Duration("took", time.Since(start)), zap.Error(err))
	} else {
		s.log.Info("job finished", zap.String("job", js.Name), zap.Duration("took", time.Since(start)))
	}
	return err
}

// Trigger starts a job in the background.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	js, err := s.lookup(name)
	if err != nil {
		return err
	}
	go func() { _ = s.execute(ctx, js) }()
	return nil
}

// RunNow runs a job synchronously and returns its error.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	js, err := s.lookup(name)
	if err != nil {
		return err
	}
	return s.execute(ctx, js)
}

// Info returns the state of one job.
func (s *Scheduler) Info(name string) (JobInfo, error) {
	js, err := s.lookup(name)
	if err != nil {
		return JobInfo{}, err
	}
	return js.info(), nil
}

// List returns every job ordered by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	items := make([]JobInfo, 0, len(s.jobs))
	for _, js := range s.jobs {
		items = append(items, js.info())
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func (s *Scheduler) lookup(name string) (*jobState, error) {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrJobNotFound
	}
	return js, nil
}

func (js *jobState) info() JobInfo {
	js.mu.Lock()
	defer js.mu.Unlock()
	return JobInfo{
		Name:        js.Name,
		Description: js.Description,
		Interval:    js.Interval.String(),
		Status:      js.status,
		Message:     js.message,
		NextRunAt:   js.nextRunAt,
		LastRunAt:   js.lastRunAt,
	}
}
