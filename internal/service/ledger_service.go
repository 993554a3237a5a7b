package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"floortrack/internal/model"
	"floortrack/pkg/constants"
	"floortrack/pkg/logger"
	"floortrack/pkg/store/mysql"
)

type ledgerStore interface {
	Insert(ctx context.Context, entry *mysql.QCEntry) error
	GetByID(ctx context.Context, id int64) (*mysql.QCEntry, error)
	SumPartsProduced(ctx context.Context, taskGID string) (int, error)
	BackfillTaskRef(ctx context.Context, id int64, taskGID string) (int64, error)
	ListByDepartment(ctx context.Context, department string) ([]*mysql.QCEntry, error)
	ListUnmatched(ctx context.Context, department string) ([]*mysql.QCEntry, error)
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ ledgerStore = (*mysql.QCEntryRepository)(nil)

var entryDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// LedgerService owns the append-mostly QC ledger. Rows are immutable after
// insert apart from the one-time task reference backfill.
type LedgerService struct {
	ledger ledgerStore
	totals runningTotalCache
}

// NewLedgerService creates a ledger service. totals may be nil.
func NewLedgerService(ledger ledgerStore, totals runningTotalCache) *LedgerService {
	return &LedgerService{ledger: ledger, totals: totals}
}

// Append inserts one manually reported ledger row. Missing source and status
// fields default to direct input and draft.
func (s *LedgerService) Append(ctx context.Context, entry *model.QCEntry) (*model.QCEntry, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}
	if entry.DataSource == "" {
		entry.DataSource = constants.SourceDirectInput
	}
	if entry.QCStatus == "" {
		entry.QCStatus = constants.QCStatusDraft
	}

	row := mysql.FromQCEntryDomain(entry)
	if err := s.ledger.Insert(ctx, row); err != nil {
		return nil, err
	}

	if entry.AsanaTaskGID != nil && s.totals != nil {
		if err := s.totals.Invalidate(ctx, *entry.AsanaTaskGID); err != nil {
			logger.Warnf("running total cache invalidation failed for part %s: %v", *entry.AsanaTaskGID, err)
		}
	}
	return mysql.ToQCEntryDomain(row), nil
}

// Get retrieves one ledger row
func (s *LedgerService) Get(ctx context.Context, id int64) (*model.QCEntry, error) {
	row, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: qc entry %d", model.ErrNotFound, id)
	}
	return mysql.ToQCEntryDomain(row), nil
}

// ImportEntries bulk-loads rows from an external importer in one transaction.
// Every row of a batch lands or none do. Returns the batch tag and the ids
// of the inserted rows in input order.
func (s *LedgerService) ImportEntries(ctx context.Context, req *model.ImportEntriesRequest) (*model.ImportEntriesResponse, error) {
	if len(req.Entries) == 0 {
		return nil, fmt.Errorf("%w: entries must not be empty", model.ErrValidation)
	}

	source := req.Source
	if source == "" {
		source = constants.SourceSheetImport
	}

	batchID := uuid.NewString()
	rows := make([]*mysql.QCEntry, 0, len(req.Entries))
	taskGIDs := make(map[string]struct{})
	for i, entry := range req.Entries {
		if err := validateEntry(entry); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if entry.DataSource == "" {
			entry.DataSource = source
		}
		if entry.QCStatus == "" {
			entry.QCStatus = constants.QCStatusDraft
		}
		// Tag every row with the batch; an importer-supplied row id is kept
		// behind the tag.
		if entry.SourceEntryID == "" {
			entry.SourceEntryID = batchID
		} else {
			entry.SourceEntryID = batchID + ":" + entry.SourceEntryID
		}
		if ref := entry.TaskRef(); ref != "" {
			taskGIDs[ref] = struct{}{}
		}
		rows = append(rows, mysql.FromQCEntryDomain(entry))
	}

	err := s.ledger.ExecTx(ctx, func(ctx context.Context) error {
		for _, row := range rows {
			if err := s.ledger.Insert(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.totals != nil {
		for gid := range taskGIDs {
			if err := s.totals.Invalidate(ctx, gid); err != nil {
				logger.Warnf("running total cache invalidation failed for part %s: %v", gid, err)
			}
		}
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	logger.Infof("imported %d qc entries: batch=%s source=%s", len(ids), batchID, source)
	return &model.ImportEntriesResponse{BatchID: batchID, EntryIDs: ids}, nil
}

// BackfillTaskReference attaches a task reference to a historical entry. The
// write only lands while the reference is unset; repeating the call or racing
// another writer degrades to a no-op and returns the current row either way.
func (s *LedgerService) BackfillTaskReference(ctx context.Context, id int64, taskGID string) (*model.QCEntry, error) {
	if taskGID == "" {
		return nil, fmt.Errorf("%w: task_gid is required", model.ErrValidation)
	}

	affected, err := s.ledger.BackfillTaskRef(ctx, id, taskGID)
	if err != nil {
		return nil, err
	}

	row, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: qc entry %d", model.ErrNotFound, id)
	}

	if affected > 0 && s.totals != nil {
		if err := s.totals.Invalidate(ctx, taskGID); err != nil {
			logger.Warnf("running total cache invalidation failed for part %s: %v", taskGID, err)
		}
	}
	return mysql.ToQCEntryDomain(row), nil
}

// SumPartsProduced totals committed parts for one external task reference
func (s *LedgerService) SumPartsProduced(ctx context.Context, taskGID string) (int, error) {
	if taskGID == "" {
		return 0, fmt.Errorf("%w: task_gid is required", model.ErrValidation)
	}
	return s.ledger.SumPartsProduced(ctx, taskGID)
}

// ListByDepartment returns a department's ledger rows, newest first
func (s *LedgerService) ListByDepartment(ctx context.Context, department string) ([]*model.QCEntry, error) {
	rows, err := s.ledger.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	return mysql.ToQCEntryDomainList(rows), nil
}

// ListUnmatched returns a department's rows still lacking a task reference
func (s *LedgerService) ListUnmatched(ctx context.Context, department string) ([]*model.QCEntry, error) {
	rows, err := s.ledger.ListUnmatched(ctx, department)
	if err != nil {
		return nil, err
	}
	return mysql.ToQCEntryDomainList(rows), nil
}

func validateEntry(entry *model.QCEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is required", model.ErrValidation)
	}
	if entry.Department == "" {
		return fmt.Errorf("%w: department is required", model.ErrValidation)
	}
	if !entryDatePattern.MatchString(entry.EntryDate) {
		return fmt.Errorf("%w: entry_date must be YYYY-MM-DD", model.ErrValidation)
	}
	for name, count := range map[string]*int{
		"parts_produced": entry.PartsProduced,
		"total_parts":    entry.TotalParts,
		"defects_count":  entry.DefectsCount,
		"scrap_count":    entry.ScrapCount,
	} {
		if count != nil && *count < 0 {
			return fmt.Errorf("%w: %s must not be negative", model.ErrValidation, name)
		}
	}
	return nil
}
