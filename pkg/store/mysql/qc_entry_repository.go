package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// QCEntryRepository handles QC ledger persistence in MySQL. The ledger is
// append-mostly: inserts, the one-time task reference backfill, and reads.
type QCEntryRepository struct {
	ds *Datastore
}

// NewQCEntryRepository creates a new QC entry repository
func NewQCEntryRepository(ds *Datastore) *QCEntryRepository {
	return &QCEntryRepository{ds: ds}
}

// Insert appends one ledger row; the generated id lands on the struct
func (r *QCEntryRepository) Insert(ctx context.Context, entry *QCEntry) error {
	if err := r.ds.DB(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to insert qc entry: %w", err)
	}
	return nil
}

// GetByID retrieves an entry by id, nil when absent
func (r *QCEntryRepository) GetByID(ctx context.Context, id int64) (*QCEntry, error) {
	var entry QCEntry
	err := r.ds.DB(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get qc entry: %w", err)
	}
	return &entry, nil
}

// SumPartsProduced sums committed parts for an external task reference,
// treating NULL parts_produced as 0.
func (r *QCEntryRepository) SumPartsProduced(ctx context.Context, taskGID string) (int, error) {
	var total int64
	err := r.ds.DB(ctx).Model(&QCEntry{}).
		Select("COALESCE(SUM(parts_produced), 0)").
		Where("asana_task_gid = ?", taskGID).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum parts produced: %w", err)
	}
	return int(total), nil
}

// BackfillTaskRef writes the task reference only when it is still unset.
// Returns rows affected: 0 means the entry was missing or already
// referenced, which callers treat as a no-op.
func (r *QCEntryRepository) BackfillTaskRef(ctx context.Context, id int64, taskGID string) (int64, error) {
	result := r.ds.DB(ctx).Model(&QCEntry{}).
		Where("id = ? AND (asana_task_gid IS NULL OR asana_task_gid = '')", id).
		Update("asana_task_gid", taskGID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to backfill task reference: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListByDepartment retrieves all entries for a department, newest first
func (r *QCEntryRepository) ListByDepartment(ctx context.Context, department string) ([]*QCEntry, error) {
	var entries []*QCEntry
	err := r.ds.DB(ctx).
		Where("department = ?", department).
		Order("entry_date DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list qc entries: %w", err)
	}
	return entries, nil
}

// ListUnmatched retrieves a department's entries lacking a task reference
func (r *QCEntryRepository) ListUnmatched(ctx context.Context, department string) ([]*QCEntry, error) {
	var entries []*QCEntry
	err := r.ds.DB(ctx).
		Where("department = ? AND (asana_task_gid IS NULL OR asana_task_gid = '')", department).
		Order("entry_date DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unmatched qc entries: %w", err)
	}
	return entries, nil
}

// ExecTx executes a function within a transaction
func (r *QCEntryRepository) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.ds.ExecTx(ctx, fn)
}
