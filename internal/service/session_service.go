package service

import (
	"context"
	"fmt"
	"time"

	"floortrack/internal/model"
	"floortrack/pkg/constants"
	"floortrack/pkg/logger"
	"floortrack/pkg/store/mysql"
)

type sessionStore interface {
	Create(ctx context.Context, session *mysql.WorkSession) error
	GetByID(ctx context.Context, id int64) (*mysql.WorkSession, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*mysql.WorkSession, error)
	GetActive(ctx context.Context, operatorName, partGID string) (*mysql.WorkSession, error)
	GetActiveForUpdate(ctx context.Context, operatorName, partGID string) (*mysql.WorkSession, error)
	ListByPart(ctx context.Context, partGID string) ([]*mysql.WorkSession, error)
	AddParts(ctx context.Context, id int64, parts int) (int64, error)
	Close(ctx context.Context, id int64, endedAt time.Time) (int64, error)
	SumActiveParts(ctx context.Context, partGID string) (int, error)
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type sessionLedgerStore interface {
	Insert(ctx context.Context, entry *mysql.QCEntry) error
	SumPartsProduced(ctx context.Context, taskGID string) (int, error)
}

// runningTotalCache is the short-TTL cache in front of the running-total
// aggregation. A nil cache disables caching entirely.
type runningTotalCache interface {
	Get(ctx context.Context, partGID string) (int, bool, error)
	Set(ctx context.Context, partGID string, total int) error
	Invalidate(ctx context.Context, partGID string) error
}

var _ sessionStore = (*mysql.WorkSessionRepository)(nil)
var _ sessionLedgerStore = (*mysql.QCEntryRepository)(nil)

// SessionService drives the work session lifecycle: at most one active
// session per (operator, part), accumulative parts counting, and the atomic
// close-and-commit into the QC ledger.
type SessionService struct {
	sessions sessionStore
	ledger   sessionLedgerStore
	totals   runningTotalCache
	now      func() time.Time
}

// NewSessionService creates a session service. totals may be nil.
func NewSessionService(sessions sessionStore, ledger sessionLedgerStore, totals runningTotalCache) *SessionService {
	return &SessionService{
		sessions: sessions,
		ledger:   ledger,
		totals:   totals,
		now:      time.Now,
	}
}

// GetStatus returns the operator's view of one part: their own active session,
// every session on the part, and the part's running total.
func (s *SessionService) GetStatus(ctx context.Context, operatorName, partGID string) (*model.SessionStatusResponse, error) {
	if operatorName == "" || partGID == "" {
		return nil, fmt.Errorf("%w: operator_name and part_gid are required", model.ErrValidation)
	}

	active, err := s.sessions.GetActive(ctx, operatorName, partGID)
	if err != nil {
		return nil, err
	}

	all, err := s.sessions.ListByPart(ctx, partGID)
	if err != nil {
		return nil, err
	}

	runningTotal, err := s.RunningTotal(ctx, partGID)
	if err != nil {
		return nil, err
	}

	resp := &model.SessionStatusResponse{
		Active:       active != nil,
		Session:      mysql.ToSessionDomain(active),
		AllSessions:  mysql.ToSessionDomainList(all),
		RunningTotal: runningTotal,
	}
	if active != nil {
		resp.TotalPartsProduced = active.TotalPartsProduced
		resp.ElapsedMinutes = resp.Session.ElapsedMinutes(s.now())
	}
	return resp, nil
}

// Start opens a work session. At most one active session may exist per
// (operator, part); a second Start returns ErrSessionConflict and leaves the
// existing session untouched. The check and insert share one transaction.
func (s *SessionService) Start(ctx context.Context, req *model.StartSessionRequest) (*model.WorkSession, error) {
	if req.OperatorName == "" || req.PartGID == "" {
		return nil, fmt.Errorf("%w: operator_name and part_gid are required", model.ErrValidation)
	}

	row := &mysql.WorkSession{
		OperatorName:   req.OperatorName,
		PartGID:        req.PartGID,
		PartName:       req.PartName,
		Department:     req.Department,
		StartTimestamp: s.now().UTC(),
	}

	err := s.sessions.ExecTx(ctx, func(ctx context.Context) error {
		existing, err := s.sessions.GetActiveForUpdate(ctx, req.OperatorName, req.PartGID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: operator %s on part %s (session %d)",
				model.ErrSessionConflict, req.OperatorName, req.PartGID, existing.ID)
		}
		return s.sessions.Create(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTotal(ctx, req.PartGID)
	logger.Infof("work session %d started: operator=%s part=%s", row.ID, req.OperatorName, req.PartGID)
	return mysql.ToSessionDomain(row), nil
}

// AccumulateParts adds a count onto an active session's total. Counts are
// accumulative and never overwrite. A closed session rejects the update.
func (s *SessionService) AccumulateParts(ctx context.Context, req *model.AccumulatePartsRequest) (*model.WorkSession, error) {
	if req.PartsCount == nil {
		return nil, fmt.Errorf("%w: parts_count is required", model.ErrValidation)
	}
	if *req.PartsCount < 0 {
		return nil, fmt.Errorf("%w: parts_count must not be negative", model.ErrValidation)
	}

	affected, err := s.sessions.AddParts(ctx, req.SessionID, *req.PartsCount)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Distinguish a missing session from a closed one.
		existing, err := s.sessions.GetByID(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: work session %d", model.ErrNotFound, req.SessionID)
		}
		return nil, fmt.Errorf("%w: session %d", model.ErrSessionClosed, req.SessionID)
	}

	updated, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: work session %d", model.ErrNotFound, req.SessionID)
	}

	s.invalidateTotal(ctx, updated.PartGID)
	return mysql.ToSessionDomain(updated), nil
}

// End closes a session and commits it to the QC ledger as one transaction:
// the session row gets its end timestamp and exactly one submitted ledger row
// is appended with the session's parts total and elapsed minutes. Ending an
// already ended session returns ErrSessionClosed.
func (s *SessionService) End(ctx context.Context, req *model.EndSessionRequest) (*model.EndSessionResponse, error) {
	endedAt := s.now().UTC()

	var (
		closed *mysql.WorkSession
		entry  *mysql.QCEntry
	)

	err := s.sessions.ExecTx(ctx, func(ctx context.Context) error {
		session, err := s.sessions.GetByIDForUpdate(ctx, req.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return fmt.Errorf("%w: work session %d", model.ErrNotFound, req.SessionID)
		}
		if session.EndTimestamp != nil {
			return fmt.Errorf("%w: session %d ended at %s",
				model.ErrSessionClosed, session.ID, session.EndTimestamp.Format(time.RFC3339))
		}

		affected, err := s.sessions.Close(ctx, session.ID, endedAt)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: session %d", model.ErrSessionClosed, session.ID)
		}

		entry = buildLedgerRow(session, endedAt)
		if err := s.ledger.Insert(ctx, entry); err != nil {
			return err
		}

		session.EndTimestamp = &endedAt
		closed = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTotal(ctx, closed.PartGID)
	logger.Infof("work session %d ended: parts=%d entry=%d", closed.ID, closed.TotalPartsProduced, entry.ID)

	return &model.EndSessionResponse{
		Session:   mysql.ToSessionDomain(closed),
		QCEntryID: entry.ID,
	}, nil
}

// RunningTotal returns committed ledger parts plus parts counted on still
// active sessions for one part. Served from cache when fresh.
func (s *SessionService) RunningTotal(ctx context.Context, partGID string) (int, error) {
	if s.totals != nil {
		if total, hit, err := s.totals.Get(ctx, partGID); err == nil && hit {
			return total, nil
		} else if err != nil {
			logger.Warnf("running total cache read failed for part %s: %v", partGID, err)
		}
	}

	committed, err := s.ledger.SumPartsProduced(ctx, partGID)
	if err != nil {
		return 0, err
	}
	active, err := s.sessions.SumActiveParts(ctx, partGID)
	if err != nil {
		return 0, err
	}
	total := committed + active

	if s.totals != nil {
		if err := s.totals.Set(ctx, partGID, total); err != nil {
			logger.Warnf("running total cache write failed for part %s: %v", partGID, err)
		}
	}
	return total, nil
}

func (s *SessionService) invalidateTotal(ctx context.Context, partGID string) {
	if s.totals == nil {
		return
	}
	if err := s.totals.Invalidate(ctx, partGID); err != nil {
		logger.Warnf("running total cache invalidation failed for part %s: %v", partGID, err)
	}
}

// buildLedgerRow converts a just-closed session into its immutable ledger
// row. The entry date is the UTC calendar date the session started, not the
// date it ended, so overnight shifts report under the day they began.
func buildLedgerRow(session *mysql.WorkSession, endedAt time.Time) *mysql.QCEntry {
	start := session.StartTimestamp
	elapsed := endedAt.Sub(start).Minutes()
	parts := session.TotalPartsProduced
	operator := session.OperatorName
	taskGID := session.PartGID

	department := ""
	if session.Department != nil {
		department = *session.Department
	}

	return &mysql.QCEntry{
		DataSource:       constants.SourceWorkSession,
		EntryDate:        start.UTC().Format("2006-01-02"),
		Department:       department,
		Operator:         &operator,
		PartName:         session.PartName,
		StartTimestamp:   &start,
		StopTimestamp:    &endedAt,
		TotalTimeMinutes: &elapsed,
		PartsProduced:    &parts,
		QCStatus:         constants.QCStatusSubmitted,
		AsanaTaskGID:     &taskGID,
	}
}
