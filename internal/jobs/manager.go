package jobs

import (
	"context"
	"sync"
	"time"

	"floortrack/pkg/logger"
)

// Job represents a periodic background task.
type Job interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

// AlignedJob is a job whose runs snap to interval boundaries (on the hour,
// on the minute) instead of starting immediately.
type AlignedJob interface {
	Job
	AlignToInterval() bool
}

// minInterval guards against a zero or negative job interval.
const minInterval = time.Minute

// Manager owns the goroutines of all registered periodic jobs. Register
// everything first, then Start once; Stop cancels every job and Wait blocks
// until they have all returned.
type Manager struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	jobs    []Job
	started bool

	wg sync.WaitGroup
}

// NewManager creates a job manager bound to the provided context.
func NewManager(parent context.Context) *Manager {
	ctx, cancel := context.WithCancel(parent)
	return &Manager{ctx: ctx, cancel: cancel}
}

// Register adds a job. Registration after Start is ignored.
func (m *Manager) Register(job Job) {
	if job == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		logger.Warnf("job %s registered after start, ignoring", job.Name())
		return
	}
	m.jobs = append(m.jobs, job)
}

// Start launches one goroutine per registered job. Idempotent.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	jobs := m.jobs
	m.mu.Unlock()

	for _, job := range jobs {
		m.wg.Add(1)
		go func(job Job) {
			defer m.wg.Done()
			m.loop(job)
		}(job)
	}
	logger.Infof("job manager started with %d jobs", len(jobs))
}

// Stop signals all jobs to stop.
func (m *Manager) Stop() {
	m.cancel()
}

// Wait blocks until all jobs exit.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// loop drives one job: an optional aligned delay, one immediate run for
// unaligned jobs, then a steady tick.
func (m *Manager) loop(job Job) {
	interval := job.Interval()
	if interval <= 0 {
		interval = minInterval
	}

	if delay := alignDelay(job, interval); delay > 0 {
		logger.InfoCtx(m.ctx, "job %s waiting %v for its aligned boundary", job.Name(), delay)
		if !m.sleep(delay) {
			return
		}
	}

	m.runOnce(job)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.runOnce(job)
		}
	}
}

// sleep waits for d, returning false when the manager is stopped first.
func (m *Manager) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-m.ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (m *Manager) runOnce(job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCtx(m.ctx, "background job %s panicked: %v", job.Name(), r)
		}
	}()

	if err := job.Run(m.ctx); err != nil {
		logger.WarnCtx(m.ctx, "background job %s failed: %v", job.Name(), err)
	}
}

// alignDelay returns how long an aligned job has to wait for its first run,
// or zero for jobs that start immediately.
func alignDelay(job Job, interval time.Duration) time.Duration {
	aligned, ok := job.(AlignedJob)
	if !ok || !aligned.AlignToInterval() {
		return 0
	}
	now := time.Now()
	return now.Truncate(interval).Add(interval).Sub(now)
}
