package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floortrack/internal/model"
	"floortrack/pkg/constants"
	"floortrack/pkg/store/mysql"
)

func validDomainEntry() *model.QCEntry {
	return &model.QCEntry{
		EntryDate:     "2026-03-09",
		Department:    "Laser",
		Operator:      strPtr("maria"),
		PartsProduced: intPtr(10),
	}
}

func TestLedgerService_Append(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults source and status", func(t *testing.T) {
		var inserted *mysql.QCEntry
		ledger := &mockLedgerStore{
			insertFn: func(ctx context.Context, entry *mysql.QCEntry) error {
				entry.ID = 1
				inserted = entry
				return nil
			},
		}
		svc := NewLedgerService(ledger, nil)

		entry, err := svc.Append(ctx, validDomainEntry())

		require.NoError(t, err)
		assert.Equal(t, int64(1), entry.ID)
		assert.Equal(t, constants.SourceDirectInput, inserted.DataSource)
		assert.Equal(t, constants.QCStatusDraft, inserted.QCStatus)
	})

	t.Run("explicit source and status are kept", func(t *testing.T) {
		var inserted *mysql.QCEntry
		ledger := &mockLedgerStore{
			insertFn: func(ctx context.Context, entry *mysql.QCEntry) error {
				inserted = entry
				return nil
			},
		}
		svc := NewLedgerService(ledger, nil)

		in := validDomainEntry()
		in.DataSource = constants.SourceSheetImport
		in.QCStatus = constants.QCStatusReviewed

		_, err := svc.Append(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, constants.SourceSheetImport, inserted.DataSource)
		assert.Equal(t, constants.QCStatusReviewed, inserted.QCStatus)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(e *model.QCEntry)
		}{
			{"missing department", func(e *model.QCEntry) { e.Department = "" }},
			{"malformed entry date", func(e *model.QCEntry) { e.EntryDate = "03/09/2026" }},
			{"negative parts", func(e *model.QCEntry) { e.PartsProduced = intPtr(-1) }},
			{"negative scrap", func(e *model.QCEntry) { e.ScrapCount = intPtr(-2) }},
		}

		svc := NewLedgerService(&mockLedgerStore{}, nil)
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				entry := validDomainEntry()
				tt.mutate(entry)
				_, err := svc.Append(ctx, entry)
				assert.ErrorIs(t, err, model.ErrValidation)
			})
		}
	})

	t.Run("appending a referenced entry invalidates the part total", func(t *testing.T) {
		cache := newMockTotalsCache()
		cache.values["part-1"] = 40
		svc := NewLedgerService(&mockLedgerStore{}, cache)

		in := validDomainEntry()
		in.AsanaTaskGID = strPtr("part-1")

		_, err := svc.Append(ctx, in)

		require.NoError(t, err)
		assert.Contains(t, cache.invalidated, "part-1")
	})
}

func TestLedgerService_ImportEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts every row and reports ids with a batch tag", func(t *testing.T) {
		nextID := int64(0)
		ledger := &mockLedgerStore{
			insertFn: func(ctx context.Context, entry *mysql.QCEntry) error {
				nextID++
				entry.ID = nextID
				return nil
			},
		}
		svc := NewLedgerService(ledger, nil)

		resp, err := svc.ImportEntries(ctx, &model.ImportEntriesRequest{
			Entries: []*model.QCEntry{validDomainEntry(), validDomainEntry(), validDomainEntry()},
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.BatchID)
		assert.Equal(t, []int64{1, 2, 3}, resp.EntryIDs)
	})

	t.Run("tags every row with the batch id", func(t *testing.T) {
		var tagged []string
		ledger := &mockLedgerStore{
			insertFn: func(ctx context.Context, entry *mysql.QCEntry) error {
				require.NotNil(t, entry.SourceEntryID)
				tagged = append(tagged, *entry.SourceEntryID)
				return nil
			},
		}
		svc := NewLedgerService(ledger, nil)

		withRowID := validDomainEntry()
		withRowID.SourceEntryID = "sheet-row-7"

		resp, err := svc.ImportEntries(ctx, &model.ImportEntriesRequest{
			Entries: []*model.QCEntry{validDomainEntry(), withRowID},
		})

		require.NoError(t, err)
		require.Len(t, tagged, 2)
		assert.Equal(t, resp.BatchID, tagged[0])
		assert.Equal(t, resp.BatchID+":sheet-row-7", tagged[1])
	})

	t.Run("referenced rows invalidate their part totals", func(t *testing.T) {
		cache := newMockTotalsCache()
		cache.values["part-1"] = 40
		cache.values["part-2"] = 8
		svc := NewLedgerService(&mockLedgerStore{}, cache)

		first := validDomainEntry()
		first.AsanaTaskGID = strPtr("part-1")
		second := validDomainEntry()
		second.AsanaTaskGID = strPtr("part-1")
		third := validDomainEntry()
		third.AsanaTaskGID = strPtr("part-2")

		_, err := svc.ImportEntries(ctx, &model.ImportEntriesRequest{
			Entries: []*model.QCEntry{first, second, third, validDomainEntry()},
		})

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"part-1", "part-2"}, cache.invalidated)
		_, stale := cache.values["part-1"]
		assert.False(t, stale)
	})

	t.Run("defaults the batch source to sheet import", func(t *testing.T) {
		var sources []string
		ledger := &mockLedgerStore{
			insertFn: func(ctx context.Context, entry *mysql.QCEntry) error {
				sources = append(sources, entry.DataSource)
				return nil
			},
		}
		svc := NewLedgerService(ledger, nil)

		_, err := svc.ImportEntries(ctx, &model.ImportEntriesRequest{
			Entries: []*model.QCEntry{validDomainEntry()},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{constants.SourceSheetImport}, sources)
	})

	t.Run("one malformed row rejects the whole batch before any insert", func(t *testing.T) {
		inserts := 0
		ledger := &mockLedgerStore{
			insertFn: func(ctx context.Context, entry *mysql.QCEntry) error {
				inserts++
				return nil
			},
		}
		svc := NewLedgerService(ledger, nil)

		bad := validDomainEntry()
		bad.EntryDate = "not-a-date"

		_, err := svc.ImportEntries(ctx, &model.ImportEntriesRequest{
			Entries: []*model.QCEntry{validDomainEntry(), bad},
		})

		assert.ErrorIs(t, err, model.ErrValidation)
		assert.Zero(t, inserts)
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		svc := NewLedgerService(&mockLedgerStore{}, nil)

		_, err := svc.ImportEntries(ctx, &model.ImportEntriesRequest{})

		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestLedgerService_BackfillTaskReference(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the reference once", func(t *testing.T) {
		var gotID int64
		var gotGID string
		ledger := &mockLedgerStore{
			backfillTaskRefFn: func(ctx context.Context, id int64, taskGID string) (int64, error) {
				gotID, gotGID = id, taskGID
				return 1, nil
			},
			getByIDFn: func(ctx context.Context, id int64) (*mysql.QCEntry, error) {
				return &mysql.QCEntry{ID: id, AsanaTaskGID: strPtr("task-9")}, nil
			},
		}
		svc := NewLedgerService(ledger, nil)

		entry, err := svc.BackfillTaskReference(ctx, 5, "task-9")

		require.NoError(t, err)
		assert.Equal(t, int64(5), gotID)
		assert.Equal(t, "task-9", gotGID)
		assert.Equal(t, "task-9", entry.TaskRef())
	})

	t.Run("an already referenced entry is a no-op, not an error", func(t *testing.T) {
		cache := newMockTotalsCache()
		ledger := &mockLedgerStore{
			backfillTaskRefFn: func(ctx context.Context, id int64, taskGID string) (int64, error) {
				return 0, nil
			},
			getByIDFn: func(ctx context.Context, id int64) (*mysql.QCEntry, error) {
				return &mysql.QCEntry{ID: id, AsanaTaskGID: strPtr("task-original")}, nil
			},
		}
		svc := NewLedgerService(ledger, cache)

		entry, err := svc.BackfillTaskReference(ctx, 5, "task-other")

		require.NoError(t, err)
		assert.Equal(t, "task-original", entry.TaskRef())
		assert.Empty(t, cache.invalidated)
	})

	t.Run("missing entry", func(t *testing.T) {
		ledger := &mockLedgerStore{
			backfillTaskRefFn: func(ctx context.Context, id int64, taskGID string) (int64, error) {
				return 0, nil
			},
		}
		svc := NewLedgerService(ledger, nil)

		_, err := svc.BackfillTaskReference(ctx, 404, "task-9")

		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("empty task gid is rejected", func(t *testing.T) {
		svc := NewLedgerService(&mockLedgerStore{}, nil)

		_, err := svc.BackfillTaskReference(ctx, 5, "")

		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestLedgerService_SumPartsProduced(t *testing.T) {
	ctx := context.Background()

	ledger := &mockLedgerStore{
		sumPartsProducedFn: func(ctx context.Context, taskGID string) (int, error) {
			return 57, nil
		},
	}
	svc := NewLedgerService(ledger, nil)

	total, err := svc.SumPartsProduced(ctx, "part-1")
	require.NoError(t, err)
	assert.Equal(t, 57, total)

	_, err = svc.SumPartsProduced(ctx, "")
	assert.ErrorIs(t, err, model.ErrValidation)
}
