package service

import (
	"context"
	"fmt"
	"time"

	"floortrack/internal/matcher"
	"floortrack/internal/model"
	"floortrack/pkg/logger"
	"floortrack/pkg/store/mysql"
)

// completedLookback bounds how far back completed tasks are fetched when
// backfilling references during reconciliation.
const completedLookback = 30 * 24 * time.Hour

// ReconcileService links historical ledger rows to currently open tasks and
// retroactively opens work sessions for operators whose production only
// exists as imported ledger data. Matching is heuristic and best effort; a
// run never touches rows that already carry a task reference.
type ReconcileService struct {
	client      TaskClient
	ledger      ledgerStore
	sessions    sessionStore
	departments departmentStore
	matcher     *matcher.Matcher
	now         func() time.Time
}

// NewReconcileService creates a reconcile service
func NewReconcileService(
	client TaskClient,
	ledger ledgerStore,
	sessions sessionStore,
	departments departmentStore,
	m *matcher.Matcher,
) *ReconcileService {
	return &ReconcileService{
		client:      client,
		ledger:      ledger,
		sessions:    sessions,
		departments: departments,
		matcher:     m,
		now:         time.Now,
	}
}

// ReconcileDepartment runs one department: match its open tasks against its
// ledger rows, backfill missing task references, and synthesize one work
// session per (task, operator) from the operator's most recent matched entry.
func (s *ReconcileService) ReconcileDepartment(ctx context.Context, departmentName string) (*model.ReconcileSummary, error) {
	dept, err := s.departments.GetByName(ctx, departmentName)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("%w: department %s", model.ErrNotFound, departmentName)
	}
	if dept.AsanaProjectGID == nil || *dept.AsanaProjectGID == "" {
		return nil, fmt.Errorf("%w: department %s has no linked project", model.ErrValidation, departmentName)
	}

	rows, err := s.ledger.ListByDepartment(ctx, departmentName)
	if err != nil {
		return nil, err
	}
	entries := mysql.ToQCEntryDomainList(rows)

	summary := &model.ReconcileSummary{Department: departmentName}
	if len(entries) == 0 {
		return summary, nil
	}

	tasks, err := s.client.ListOpenTasks(ctx, *dept.AsanaProjectGID)
	if err != nil {
		return nil, fmt.Errorf("%w: list open tasks for project %s: %v",
			model.ErrUpstreamUnavailable, *dept.AsanaProjectGID, err)
	}

	for _, task := range tasks {
		matched := s.matcher.MatchTask(task.GID, task.Name, entries)
		if len(matched) == 0 {
			continue
		}
		summary.TasksMatched++

		if err := s.backfillRefs(ctx, task.GID, matched, summary); err != nil {
			return nil, err
		}

		s.synthesizeSessions(ctx, task, departmentName, matched, summary)
	}

	// Recently closed tasks still get their references backfilled; no
	// sessions are opened against them.
	completed, err := s.client.ListRecentlyCompleted(ctx, *dept.AsanaProjectGID, s.now().Add(-completedLookback))
	if err != nil {
		return nil, fmt.Errorf("%w: list completed tasks for project %s: %v",
			model.ErrUpstreamUnavailable, *dept.AsanaProjectGID, err)
	}

	for _, task := range completed {
		matched := s.matcher.MatchTask(task.GID, task.Name, entries)
		if len(matched) == 0 {
			continue
		}
		summary.TasksMatched++

		if err := s.backfillRefs(ctx, task.GID, matched, summary); err != nil {
			return nil, err
		}
	}

	logger.Infof("reconciled department %s: tasks_matched=%d refs_backfilled=%d sessions_created=%d sessions_skipped=%d",
		departmentName, summary.TasksMatched, summary.RefsBackfilled, summary.SessionsCreated, summary.SessionsSkipped)
	return summary, nil
}

// backfillRefs writes the task reference onto matched entries that lack one
func (s *ReconcileService) backfillRefs(ctx context.Context, taskGID string, matched []*model.QCEntry, summary *model.ReconcileSummary) error {
	for _, entry := range matched {
		if entry.TaskRef() != "" {
			continue
		}
		affected, err := s.ledger.BackfillTaskRef(ctx, entry.ID, taskGID)
		if err != nil {
			return err
		}
		if affected > 0 {
			summary.RefsBackfilled++
		}
	}
	return nil
}

// ReconcileAll runs every department with a linked project. A failing
// department is logged and skipped.
func (s *ReconcileService) ReconcileAll(ctx context.Context) ([]*model.ReconcileSummary, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	var summaries []*model.ReconcileSummary
	for _, dept := range departments {
		if dept.AsanaProjectGID == nil || *dept.AsanaProjectGID == "" {
			continue
		}
		summary, err := s.ReconcileDepartment(ctx, dept.Name)
		if err != nil {
			logger.Errorf("reconciliation failed for department %s: %v", dept.Name, err)
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// MatchDepartment previews matching without writing anything
func (s *ReconcileService) MatchDepartment(ctx context.Context, departmentName string) ([]*model.TaskMatch, error) {
	dept, err := s.departments.GetByName(ctx, departmentName)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("%w: department %s", model.ErrNotFound, departmentName)
	}
	if dept.AsanaProjectGID == nil || *dept.AsanaProjectGID == "" {
		return nil, fmt.Errorf("%w: department %s has no linked project", model.ErrValidation, departmentName)
	}

	rows, err := s.ledger.ListByDepartment(ctx, departmentName)
	if err != nil {
		return nil, err
	}
	entries := mysql.ToQCEntryDomainList(rows)

	tasks, err := s.client.ListOpenTasks(ctx, *dept.AsanaProjectGID)
	if err != nil {
		return nil, fmt.Errorf("%w: list open tasks for project %s: %v",
			model.ErrUpstreamUnavailable, *dept.AsanaProjectGID, err)
	}

	completed, err := s.client.ListRecentlyCompleted(ctx, *dept.AsanaProjectGID, s.now().Add(-completedLookback))
	if err != nil {
		return nil, fmt.Errorf("%w: list completed tasks for project %s: %v",
			model.ErrUpstreamUnavailable, *dept.AsanaProjectGID, err)
	}
	tasks = append(tasks, completed...)

	var matches []*model.TaskMatch
	for _, task := range tasks {
		matched := s.matcher.MatchTask(task.GID, task.Name, entries)
		if len(matched) == 0 {
			continue
		}
		matches = append(matches, &model.TaskMatch{
			TaskGID:  task.GID,
			TaskName: task.Name,
			Entries:  matched,
		})
	}
	return matches, nil
}

// synthesizeSessions opens one session per operator found in a task's matched
// entries, seeded from that operator's most recent entry. Operators with an
// active session on the task keep it untouched.
func (s *ReconcileService) synthesizeSessions(
	ctx context.Context,
	task *model.TaskSnapshot,
	departmentName string,
	matched []*model.QCEntry,
	summary *model.ReconcileSummary,
) {
	byOperator := make(map[string]*model.QCEntry)
	for _, entry := range matched {
		if entry.Operator == nil || *entry.Operator == "" {
			continue
		}
		current, ok := byOperator[*entry.Operator]
		if !ok || entry.EntryDate > current.EntryDate {
			byOperator[*entry.Operator] = entry
		}
	}

	for operator, entry := range byOperator {
		created, err := s.createSessionFromEntry(ctx, task, departmentName, operator, entry)
		if err != nil {
			logger.Warnf("session synthesis failed: operator=%s task=%s: %v", operator, task.GID, err)
			summary.SessionsSkipped++
			continue
		}
		if created {
			summary.SessionsCreated++
		} else {
			summary.SessionsSkipped++
		}
	}
}

func (s *ReconcileService) createSessionFromEntry(
	ctx context.Context,
	task *model.TaskSnapshot,
	departmentName string,
	operator string,
	entry *model.QCEntry,
) (bool, error) {
	partName := task.Name
	if entry.PartName != nil && *entry.PartName != "" {
		partName = *entry.PartName
	}

	parts := 0
	if entry.PartsProduced != nil {
		parts = *entry.PartsProduced
	}

	row := &mysql.WorkSession{
		OperatorName:       operator,
		PartGID:            task.GID,
		PartName:           &partName,
		Department:         &departmentName,
		StartTimestamp:     resolveStartTimestamp(entry, s.now().UTC()),
		TotalPartsProduced: parts,
	}

	created := false
	err := s.sessions.ExecTx(ctx, func(ctx context.Context) error {
		existing, err := s.sessions.GetActiveForUpdate(ctx, operator, task.GID)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		if err := s.sessions.Create(ctx, row); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// resolveStartTimestamp picks the best available start for a synthesized
// session: the entry's recorded start, the entry date plus clock time, the
// entry date at midnight, or as a last resort the current time.
func resolveStartTimestamp(entry *model.QCEntry, fallback time.Time) time.Time {
	if entry.StartTimestamp != nil {
		return *entry.StartTimestamp
	}
	if entry.EntryDate == "" {
		return fallback
	}
	if entry.StartTime != nil && *entry.StartTime != "" {
		for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
			if ts, err := time.Parse(layout, entry.EntryDate+"T"+*entry.StartTime); err == nil {
				return ts
			}
		}
	}
	if ts, err := time.Parse("2006-01-02", entry.EntryDate); err == nil {
		return ts
	}
	return fallback
}
