package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkSessionRepository handles work session persistence in MySQL
type WorkSessionRepository struct {
	ds *Datastore
}

// NewWorkSessionRepository creates a new work session repository
func NewWorkSessionRepository(ds *Datastore) *WorkSessionRepository {
	return &WorkSessionRepository{ds: ds}
}

// Create inserts a new session row
func (r *WorkSessionRepository) Create(ctx context.Context, session *WorkSession) error {
	return r.ds.DB(ctx).Create(session).Error
}

// GetByID retrieves a session by id, nil when absent
func (r *WorkSessionRepository) GetByID(ctx context.Context, id int64) (*WorkSession, error) {
	var session WorkSession
	err := r.ds.DB(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get work session: %w", err)
	}
	return &session, nil
}

// GetByIDForUpdate retrieves a session by id with a row lock. Call inside
// ExecTx; the lock holds until the transaction commits.
func (r *WorkSessionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*WorkSession, error) {
	var session WorkSession
	err := r.ds.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get work session: %w", err)
	}
	return &session, nil
}

// GetActive retrieves the single active session for an (operator, part)
// pair, nil when there is none. Uses idx_sessions_active.
func (r *WorkSessionRepository) GetActive(ctx context.Context, operatorName, partGID string) (*WorkSession, error) {
	var session WorkSession
	err := r.ds.DB(ctx).
		Where("operator_name = ? AND part_gid = ? AND end_timestamp IS NULL", operatorName, partGID).
		Order("start_timestamp DESC").
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return &session, nil
}

// GetActiveForUpdate is GetActive with a row lock, for the Start
// check-then-insert transaction.
func (r *WorkSessionRepository) GetActiveForUpdate(ctx context.Context, operatorName, partGID string) (*WorkSession, error) {
	var session WorkSession
	err := r.ds.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("operator_name = ? AND part_gid = ? AND end_timestamp IS NULL", operatorName, partGID).
		Order("start_timestamp DESC").
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return &session, nil
}

// ListByPart retrieves all sessions for a part, newest start first
func (r *WorkSessionRepository) ListByPart(ctx context.Context, partGID string) ([]*WorkSession, error) {
	var sessions []*WorkSession
	err := r.ds.DB(ctx).
		Where("part_gid = ?", partGID).
		Order("start_timestamp DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by part: %w", err)
	}
	return sessions, nil
}

// AddParts accumulates parts onto an active session. The end_timestamp guard
// keeps closed sessions immutable; returns the number of rows updated so the
// caller can distinguish closed from missing.
func (r *WorkSessionRepository) AddParts(ctx context.Context, id int64, parts int) (int64, error) {
	result := r.ds.DB(ctx).Model(&WorkSession{}).
		Where("id = ? AND end_timestamp IS NULL", id).
		UpdateColumns(map[string]interface{}{
			"total_parts_produced": gorm.Expr("total_parts_produced + ?", parts),
			"updated_at":           time.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to add parts to session: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Close sets the end timestamp on an active session. The end_timestamp guard
// makes closing CAS-like: 0 rows affected means the session was already
// closed (or never existed).
func (r *WorkSessionRepository) Close(ctx context.Context, id int64, endedAt time.Time) (int64, error) {
	result := r.ds.DB(ctx).Model(&WorkSession{}).
		Where("id = ? AND end_timestamp IS NULL", id).
		UpdateColumns(map[string]interface{}{
			"end_timestamp": endedAt,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to close session: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SumActiveParts sums parts counted on currently active sessions for a part
// (counted but not yet committed to the ledger).
func (r *WorkSessionRepository) SumActiveParts(ctx context.Context, partGID string) (int, error) {
	var total int64
	err := r.ds.DB(ctx).Model(&WorkSession{}).
		Select("COALESCE(SUM(total_parts_produced), 0)").
		Where("part_gid = ? AND end_timestamp IS NULL", partGID).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum active session parts: %w", err)
	}
	return int(total), nil
}

// ExecTx executes a function within a transaction
func (r *WorkSessionRepository) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.ds.ExecTx(ctx, fn)
}
