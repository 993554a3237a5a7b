package jobs

import (
	"context"
	"time"

	"floortrack/internal/model"
)

type reconcileEnqueuer interface {
	EnqueueReconcile(ctx context.Context, department string) error
}

type departmentLister interface {
	ListDepartments(ctx context.Context) ([]*model.Department, error)
}

// ReconcileJob periodically queues a reconciliation run for every department
// with a linked project. The queue worker does the heavy lifting; this job
// only fans out. Runs aligned so departments reconcile on predictable
// boundaries.
type ReconcileJob struct {
	queue    reconcileEnqueuer
	catalog  departmentLister
	interval time.Duration
}

// NewReconcileJob creates the periodic reconcile fan-out job
func NewReconcileJob(queue reconcileEnqueuer, catalog departmentLister, interval time.Duration) *ReconcileJob {
	return &ReconcileJob{queue: queue, catalog: catalog, interval: interval}
}

func (j *ReconcileJob) Name() string { return "reconcile-fanout" }

func (j *ReconcileJob) Interval() time.Duration { return j.interval }

func (j *ReconcileJob) AlignToInterval() bool { return true }

func (j *ReconcileJob) Run(ctx context.Context) error {
	departments, err := j.catalog.ListDepartments(ctx)
	if err != nil {
		return err
	}
	for _, dept := range departments {
		if dept.AsanaProjectGID == nil || *dept.AsanaProjectGID == "" {
			continue
		}
		if err := j.queue.EnqueueReconcile(ctx, dept.Name); err != nil {
			return err
		}
	}
	return nil
}
