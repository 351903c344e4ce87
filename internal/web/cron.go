package web

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

// SyncJob runs a Syncer on a standard five-field cron schedule, descriptors
// such as "@hourly" and "@every 15m" included. A run that is still going when
// the next one is due is skipped.
type SyncJob struct {
	c       *cron.Cron
	syncer  Syncer
	ctx     context.Context
	running atomic.Bool
}

// StartSyncJob schedules syncer and starts the cron loop. Runs use ctx and
// stop being scheduled once Stop is called.
func StartSyncJob(ctx context.Context, spec string, syncer Syncer) (*SyncJob, error) {
	j := &SyncJob{
		c:      cron.New(),
		syncer: syncer,
		ctx:    ctx,
	}
	if _, err := j.c.AddFunc(spec, j.run); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", spec, err)
	}
	j.c.Start()
	slog.Info("Scheduled source sync", "schedule", spec)
	return j, nil
}

func (j *SyncJob) run() {
	if !j.running.CompareAndSwap(false, true) {
		slog.Warn("Skipping scheduled sync, previous run still in progress")
		return
	}
	defer j.running.Store(false)

	if err := j.syncer.RunSync(j.ctx); err != nil {
		slog.Warn("Scheduled sync finished with errors", "error", err)
	}
}

// Stop halts scheduling and waits for a running sync to return.
func (j *SyncJob) Stop() {
	<-j.c.Stop().Done()
}
