package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	apperrors "github.com/pratik-mahalle/d9sync/internal/pkg/errors"
	"github.com/pratik-mahalle/d9sync/internal/pkg/logger"
	"github.com/pratik-mahalle/d9sync/internal/services"
)

// SyncRunner runs one reconciliation pass
type SyncRunner interface {
	Sync(ctx context.Context, offboard bool) ([]*services.Summary, error)
}

// SyncScheduler runs reconciliation passes on a cron schedule until its
// context is cancelled. A pass that is still running when the next one is
// due causes that one to be skipped.
type SyncScheduler struct {
	runner   SyncRunner
	schedule string
	offboard bool
	logger   *logger.Logger

	mu        sync.Mutex
	scheduler *cron.Cron
	entryID   cron.EntryID
	lastRun   *RunStatus
}

// RunStatus describes the last finished pass
type RunStatus struct {
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Code       string            `json:"code,omitempty"`
	Operations map[string]string `json:"operations"`
}

// NewSyncScheduler creates a scheduler. The schedule uses the standard five
// field cron syntax or a descriptor such as @hourly or @every 15m.
func NewSyncScheduler(runner SyncRunner, schedule string, offboard bool, log *logger.Logger) (*SyncScheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule: %w", err)
	}
	return &SyncScheduler{
		runner:   runner,
		schedule: schedule,
		offboard: offboard,
		logger:   log,
	}, nil
}

// Start runs one pass immediately, then one per schedule tick. It blocks
// until ctx is done and any running pass has returned.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.scheduler != nil {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is already running")
	}

	cronLog := cronLogger{log: s.logger}
	s.scheduler = cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)))
	entryID, err := s.scheduler.AddFunc(s.schedule, func() { s.runOnce(ctx) })
	if err != nil {
		s.scheduler = nil
		s.mu.Unlock()
		return fmt.Errorf("failed to schedule sync: %w", err)
	}
	s.entryID = entryID
	sched := s.scheduler
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"schedule": s.schedule,
		"offboard": s.offboard,
	}).Info("Starting sync scheduler")

	// Initial pass, wrapped so a panic is recovered and logged
	sched.Entry(entryID).WrappedJob.Run()
	sched.Start()

	<-ctx.Done()
	<-sched.Stop().Done()

	s.mu.Lock()
	s.scheduler = nil
	s.mu.Unlock()

	s.logger.Info("Sync scheduler stopped")
	return nil
}

// LastRun returns the status of the last finished pass, if any
func (s *SyncScheduler) LastRun() (RunStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun == nil {
		return RunStatus{}, false
	}
	return *s.lastRun, true
}

// NextRun returns when the next pass is due, or the zero time when the
// scheduler is not running
func (s *SyncScheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler == nil {
		return time.Time{}
	}
	return s.scheduler.Entry(s.entryID).Next
}

func (s *SyncScheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	summaries, err := s.runner.Sync(ctx, s.offboard)

	status := RunStatus{
		StartedAt:  start.UTC(),
		FinishedAt: time.Now().UTC(),
		Status:     "ok",
		Operations: make(map[string]string, len(summaries)),
	}
	for _, summary := range summaries {
		status.Operations[string(summary.Operation)] = summary.Status()
	}
	if err != nil {
		status.Status = "failed"
		status.Error = err.Error()
		status.Code = apperrors.CodeOf(err)
	}

	s.mu.Lock()
	s.lastRun = &status
	s.mu.Unlock()

	log := s.logger.WithFields(map[string]interface{}{
		"duration":   status.FinishedAt.Sub(status.StartedAt).String(),
		"operations": status.Operations,
	})
	if err != nil {
		log.With("code", status.Code).ErrorWithErr(err, "Scheduled sync failed")
		return
	}
	log.Info("Scheduled sync complete")
}

// cronLogger adapts the application logger to cron.Logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(pairs(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(pairs(keysAndValues)).ErrorWithErr(err, msg)
}

func pairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
