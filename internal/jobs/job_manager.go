package jobs

import (
	"fmt"
	"log/slog"
)

// Job is a scheduled task that can be started once and stopped once.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs    []namedJob
	started []namedJob
	logger  *slog.Logger
}

type namedJob struct {
	name string
	job  Job
}

// NewJobManager wires the overdue sweep and the claimable rebroadcast.
func NewJobManager(
	overdue OverdueOrdersFinder,
	rebroadcaster ClaimableRebroadcaster,
	rebroadcastLimit int,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{logger: logger.With("component", "job_manager")}
	jm.Register("overdue orders", NewOverdueOrdersJob(overdue, logger))
	jm.Register("claimable broadcast", NewClaimableBroadcastJob(rebroadcaster, rebroadcastLimit, logger))
	return jm
}

// Register adds a job to be started by StartAll.
func (jm *JobManager) Register(name string, job Job) {
	jm.jobs = append(jm.jobs, namedJob{name: name, job: job})
}

// StartAll starts jobs in registration order. If one fails, the jobs already
// started are stopped before the error is returned.
func (jm *JobManager) StartAll() error {
	for _, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
		jm.started = append(jm.started, nj)
	}
	return nil
}

// StopAll stops started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].job.Stop()
	}
	jm.started = nil
}
