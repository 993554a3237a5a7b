package model

import "time"

// WorkSession is one operator's bounded interval of work on one part.
// EndTimestamp nil means the session is active; at most one active session
// may exist per (operator, part) pair at any time.
type WorkSession struct {
	ID                 int64      `json:"id"`
	OperatorName       string     `json:"operator_name"`
	PartGID            string     `json:"part_gid"`
	PartName           *string    `json:"part_name,omitempty"`
	Department         *string    `json:"department,omitempty"`
	StartTimestamp     time.Time  `json:"start_timestamp"`
	EndTimestamp       *time.Time `json:"end_timestamp,omitempty"`
	TotalPartsProduced int        `json:"total_parts_produced"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Active reports whether the session is still open.
func (s *WorkSession) Active() bool {
	return s.EndTimestamp == nil
}

// ElapsedMinutes returns the session length in fractional minutes. For an
// active session it measures against the provided now.
func (s *WorkSession) ElapsedMinutes(now time.Time) float64 {
	end := now
	if s.EndTimestamp != nil {
		end = *s.EndTimestamp
	}
	return end.Sub(s.StartTimestamp).Minutes()
}

// StartSessionRequest starts a work session.
type StartSessionRequest struct {
	OperatorName string  `json:"operator_name" binding:"required"`
	PartGID      string  `json:"part_gid" binding:"required"`
	PartName     *string `json:"part_name,omitempty"`
	Department   *string `json:"department,omitempty"`
}

// AccumulatePartsRequest adds parts to an active session's running count.
type AccumulatePartsRequest struct {
	SessionID  int64 `json:"session_id" binding:"required"`
	PartsCount *int  `json:"parts_count" binding:"required"`
}

// EndSessionRequest ends a session and commits it to the QC ledger.
type EndSessionRequest struct {
	SessionID int64 `json:"session_id" binding:"required"`
}

// SessionStatusResponse is the combined view the shop-floor terminal polls:
// the operator's own active session plus everyone working the same part.
type SessionStatusResponse struct {
	Active             bool           `json:"active"`
	Session            *WorkSession   `json:"session,omitempty"`
	AllSessions        []*WorkSession `json:"all_sessions"`
	TotalPartsProduced int            `json:"total_parts_produced"`
	ElapsedMinutes     float64        `json:"elapsed_minutes"`
	RunningTotal       int            `json:"running_total"`
}

// EndSessionResponse returns the closed session and the ledger row it produced.
type EndSessionResponse struct {
	Session   *WorkSession `json:"session"`
	QCEntryID int64        `json:"qc_entry_id"`
}
