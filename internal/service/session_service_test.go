package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floortrack/internal/model"
	"floortrack/pkg/constants"
	"floortrack/pkg/store/mysql"
)

func TestSessionService_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a session when none is active", func(t *testing.T) {
		var created *mysql.WorkSession
		sessions := &mockSessionStore{
			createFn: func(ctx context.Context, session *mysql.WorkSession) error {
				session.ID = 11
				created = session
				return nil
			},
		}
		svc := NewSessionService(sessions, &mockLedgerStore{}, nil)

		session, err := svc.Start(ctx, &model.StartSessionRequest{
			OperatorName: "maria",
			PartGID:      "part-1",
			PartName:     strPtr("Bracket"),
		})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, int64(11), session.ID)
		assert.Equal(t, "maria", session.OperatorName)
		assert.True(t, session.Active())
		assert.Equal(t, 0, session.TotalPartsProduced)
	})

	t.Run("rejects a second active session for the same operator and part", func(t *testing.T) {
		sessions := &mockSessionStore{
			getActiveForUpdateFn: func(ctx context.Context, operatorName, partGID string) (*mysql.WorkSession, error) {
				return &mysql.WorkSession{ID: 7, OperatorName: operatorName, PartGID: partGID}, nil
			},
			createFn: func(ctx context.Context, session *mysql.WorkSession) error {
				t.Fatal("create must not be called when a session is active")
				return nil
			},
		}
		svc := NewSessionService(sessions, &mockLedgerStore{}, nil)

		_, err := svc.Start(ctx, &model.StartSessionRequest{OperatorName: "maria", PartGID: "part-1"})

		assert.ErrorIs(t, err, model.ErrSessionConflict)
	})

	t.Run("a different operator on the same part is allowed", func(t *testing.T) {
		sessions := &mockSessionStore{
			getActiveForUpdateFn: func(ctx context.Context, operatorName, partGID string) (*mysql.WorkSession, error) {
				// Only maria holds an active session.
				if operatorName == "maria" {
					return &mysql.WorkSession{ID: 7}, nil
				}
				return nil, nil
			},
		}
		svc := NewSessionService(sessions, &mockLedgerStore{}, nil)

		_, err := svc.Start(ctx, &model.StartSessionRequest{OperatorName: "jon", PartGID: "part-1"})

		assert.NoError(t, err)
	})

	t.Run("rejects missing identifiers", func(t *testing.T) {
		svc := NewSessionService(&mockSessionStore{}, &mockLedgerStore{}, nil)

		_, err := svc.Start(ctx, &model.StartSessionRequest{OperatorName: "maria"})

		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestSessionService_AccumulateParts(t *testing.T) {
	ctx := context.Background()

	t.Run("counts accumulate instead of overwriting", func(t *testing.T) {
		total := 0
		sessions := &mockSessionStore{
			addPartsFn: func(ctx context.Context, id int64, parts int) (int64, error) {
				total += parts
				return 1, nil
			},
			getByIDFn: func(ctx context.Context, id int64) (*mysql.WorkSession, error) {
				return &mysql.WorkSession{ID: id, PartGID: "part-1", TotalPartsProduced: total}, nil
			},
		}
		svc := NewSessionService(sessions, &mockLedgerStore{}, nil)

		first, err := svc.AccumulateParts(ctx, &model.AccumulatePartsRequest{SessionID: 1, PartsCount: intPtr(5)})
		require.NoError(t, err)
		assert.Equal(t, 5, first.TotalPartsProduced)

		second, err := svc.AccumulateParts(ctx, &model.AccumulatePartsRequest{SessionID: 1, PartsCount: intPtr(7)})
		require.NoError(t, err)
		assert.Equal(t, 12, second.TotalPartsProduced)
	})

	t.Run("rejects a negative count", func(t *testing.T) {
		svc := NewSessionService(&mockSessionStore{}, &mockLedgerStore{}, nil)

		_, err := svc.AccumulateParts(ctx, &model.AccumulatePartsRequest{SessionID: 1, PartsCount: intPtr(-3)})

		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("rejects a missing count", func(t *testing.T) {
		svc := NewSessionService(&mockSessionStore{}, &mockLedgerStore{}, nil)

		_, err := svc.AccumulateParts(ctx, &model.AccumulatePartsRequest{SessionID: 1})

		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("closed session rejects the update", func(t *testing.T) {
		endedAt := time.Now()
		sessions := &mockSessionStore{
			addPartsFn: func(ctx context.Context, id int64, parts int) (int64, error) {
				return 0, nil
			},
			getByIDFn: func(ctx context.Context, id int64) (*mysql.WorkSession, error) {
				return &mysql.WorkSession{ID: id, EndTimestamp: &endedAt}, nil
			},
		}
		svc := NewSessionService(sessions, &mockLedgerStore{}, nil)

		_, err := svc.AccumulateParts(ctx, &model.AccumulatePartsRequest{SessionID: 1, PartsCount: intPtr(2)})

		assert.ErrorIs(t, err, model.ErrSessionClosed)
	})

	t.Run("unknown session id", func(t *testing.T) {
		sessions := &mockSessionStore{
			addPartsFn: func(ctx context.Context, id int64, parts int) (int64, error) {
				return 0, nil
			},
		}
		svc := NewSessionService(sessions, &mockLedgerStore{}, nil)

		_, err := svc.AccumulateParts(ctx, &model.AccumulatePartsRequest{SessionID: 99, PartsCount: intPtr(2)})

		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestSessionService_End(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 9, 22, 30, 0, 0, time.UTC)
	now := start.Add(90 * time.Minute)

	activeSession := func() *mysql.WorkSession {
		return &mysql.WorkSession{
			ID:                 3,
			OperatorName:       "maria",
			PartGID:            "part-1",
			PartName:           strPtr("Bracket"),
			Department:         strPtr("Laser"),
			StartTimestamp:     start,
			TotalPartsProduced: 12,
		}
	}

	t.Run("closes the session and appends exactly one ledger row", func(t *testing.T) {
		var inserted []*mysql.QCEntry
		sessions := &mockSessionStore{
			getByIDForUpdateFn: func(ctx context.Context, id int64) (*mysql.WorkSession, error) {
				return activeSession(), nil
			},
		}
		ledger := &mockLedgerStore{
			insertFn: func(ctx context.Context, entry *mysql.QCEntry) error {
				entry.ID = int64(100 + len(inserted))
				inserted = append(inserted, entry)
				return nil
			},
		}
		svc := NewSessionService(sessions, ledger, nil)
		svc.now = func() time.Time { return now }

		resp, err := svc.End(ctx, &model.EndSessionRequest{SessionID: 3})

		require.NoError(t, err)
		require.Len(t, inserted, 1)
		entry := inserted[0]

		assert.Equal(t, int64(100), resp.QCEntryID)
		assert.False(t, resp.Session.Active())

		assert.Equal(t, constants.SourceWorkSession, entry.DataSource)
		assert.Equal(t, constants.QCStatusSubmitted, entry.QCStatus)
		assert.Equal(t, "2026-03-09", entry.EntryDate)
		assert.Equal(t, "Laser", entry.Department)
		assert.Equal(t, "maria", *entry.Operator)
		assert.Equal(t, "Bracket", *entry.PartName)
		assert.Equal(t, "part-1", *entry.AsanaTaskGID)
		assert.Equal(t, 12, *entry.PartsProduced)
		assert.InDelta(t, 90.0, *entry.TotalTimeMinutes, 0.001)
		assert.True(t, entry.StartTimestamp.Equal(start))
		assert.True(t, entry.StopTimestamp.Equal(now))
	})

	t.Run("entry date is the day the session started", func(t *testing.T) {
		// Overnight shift: starts 23:30 UTC, ends next day.
		overnight := activeSession()
		overnight.StartTimestamp = time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)

		var entry *mysql.QCEntry
		sessions := &mockSessionStore{
			getByIDForUpdateFn: func(ctx context.Context, id int64) (*mysql.WorkSession, error) {
				return overnight, nil
			},
		}
		ledger := &mockLedgerStore{
			insertFn: func(ctx context.Context, e *mysql.QCEntry) error {
				entry = e
				return nil
			},
		}
		svc := NewSessionService(sessions, ledger, nil)
		svc.now = func() time.Time {
			return time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
		}

		_, err := svc.End(ctx, &model.EndSessionRequest{SessionID: 3})

		require.NoError(t, err)
		assert.Equal(t, "2026-03-09", entry.EntryDate)
	})

	t.Run("ending twice returns a closed-session error", func(t *testing.T) {
		closed := activeSession()
		closed.EndTimestamp = timePtr(start.Add(time.Hour))

		sessions := &mockSessionStore{
			getByIDForUpdateFn: func(ctx context.Context, id int64) (*mysql.WorkSession, error) {
				return closed, nil
			},
		}
		ledger := &mockLedgerStore{
			insertFn: func(ctx context.Context, entry *mysql.QCEntry) error {
				t.Fatal("no ledger row may be appended for an already ended session")
				return nil
			},
		}
		svc := NewSessionService(sessions, ledger, nil)

		_, err := svc.End(ctx, &model.EndSessionRequest{SessionID: 3})

		assert.ErrorIs(t, err, model.ErrSessionClosed)
	})

	t.Run("unknown session id", func(t *testing.T) {
		svc := NewSessionService(&mockSessionStore{}, &mockLedgerStore{}, nil)

		_, err := svc.End(ctx, &model.EndSessionRequest{SessionID: 42})

		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestSessionService_RunningTotal(t *testing.T) {
	ctx := context.Background()

	t.Run("combines committed ledger parts with active session parts", func(t *testing.T) {
		sessions := &mockSessionStore{
			sumActivePartsFn: func(ctx context.Context, partGID string) (int, error) {
				return 7, nil
			},
		}
		ledger := &mockLedgerStore{
			sumPartsProducedFn: func(ctx context.Context, taskGID string) (int, error) {
				return 5, nil
			},
		}
		svc := NewSessionService(sessions, ledger, nil)

		total, err := svc.RunningTotal(ctx, "part-1")

		require.NoError(t, err)
		assert.Equal(t, 12, total)
	})

	t.Run("serves a fresh cache hit without touching the store", func(t *testing.T) {
		cache := newMockTotalsCache()
		cache.values["part-1"] = 31

		sessions := &mockSessionStore{
			sumActivePartsFn: func(ctx context.Context, partGID string) (int, error) {
				t.Fatal("store must not be queried on a cache hit")
				return 0, nil
			},
		}
		svc := NewSessionService(sessions, &mockLedgerStore{}, cache)

		total, err := svc.RunningTotal(ctx, "part-1")

		require.NoError(t, err)
		assert.Equal(t, 31, total)
	})

	t.Run("populates the cache on a miss", func(t *testing.T) {
		cache := newMockTotalsCache()
		ledger := &mockLedgerStore{
			sumPartsProducedFn: func(ctx context.Context, taskGID string) (int, error) {
				return 9, nil
			},
		}
		svc := NewSessionService(&mockSessionStore{}, ledger, cache)

		total, err := svc.RunningTotal(ctx, "part-1")

		require.NoError(t, err)
		assert.Equal(t, 9, total)
		assert.Equal(t, 9, cache.values["part-1"])
	})

	t.Run("cache read failures fall through to the store", func(t *testing.T) {
		cache := newMockTotalsCache()
		cache.getErr = assert.AnError
		ledger := &mockLedgerStore{
			sumPartsProducedFn: func(ctx context.Context, taskGID string) (int, error) {
				return 4, nil
			},
		}
		svc := NewSessionService(&mockSessionStore{}, ledger, cache)

		total, err := svc.RunningTotal(ctx, "part-1")

		require.NoError(t, err)
		assert.Equal(t, 4, total)
	})
}

// Two operators work the same part; ending one session must not change the
// running total, only shift that operator's parts from the active sum into
// the committed ledger sum.
func TestSessionService_RunningTotalUnchangedByEnd(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	open := map[int64]*mysql.WorkSession{
		1: {ID: 1, OperatorName: "maria", PartGID: "part-1", StartTimestamp: start, TotalPartsProduced: 5},
		2: {ID: 2, OperatorName: "jon", PartGID: "part-1", StartTimestamp: start, TotalPartsProduced: 7},
	}
	var committed []*mysql.QCEntry

	sessions := &mockSessionStore{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*mysql.WorkSession, error) {
			return open[id], nil
		},
		closeFn: func(ctx context.Context, id int64, endedAt time.Time) (int64, error) {
			if _, ok := open[id]; !ok {
				return 0, nil
			}
			delete(open, id)
			return 1, nil
		},
		sumActivePartsFn: func(ctx context.Context, partGID string) (int, error) {
			total := 0
			for _, session := range open {
				if session.PartGID == partGID {
					total += session.TotalPartsProduced
				}
			}
			return total, nil
		},
	}
	ledger := &mockLedgerStore{
		insertFn: func(ctx context.Context, entry *mysql.QCEntry) error {
			entry.ID = int64(len(committed) + 1)
			committed = append(committed, entry)
			return nil
		},
		sumPartsProducedFn: func(ctx context.Context, taskGID string) (int, error) {
			total := 0
			for _, entry := range committed {
				if entry.AsanaTaskGID != nil && *entry.AsanaTaskGID == taskGID && entry.PartsProduced != nil {
					total += *entry.PartsProduced
				}
			}
			return total, nil
		},
	}
	svc := NewSessionService(sessions, ledger, nil)
	svc.now = func() time.Time { return start.Add(3 * time.Hour) }

	total, err := svc.RunningTotal(ctx, "part-1")
	require.NoError(t, err)
	assert.Equal(t, 12, total)

	_, err = svc.End(ctx, &model.EndSessionRequest{SessionID: 1})
	require.NoError(t, err)

	total, err = svc.RunningTotal(ctx, "part-1")
	require.NoError(t, err)
	assert.Equal(t, 12, total)

	committedSum, err := ledger.SumPartsProduced(ctx, "part-1")
	require.NoError(t, err)
	assert.Equal(t, 5, committedSum)

	activeSum, err := sessions.SumActiveParts(ctx, "part-1")
	require.NoError(t, err)
	assert.Equal(t, 7, activeSum)
}

func TestSessionService_GetStatus(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	t.Run("active session reports its parts and elapsed minutes", func(t *testing.T) {
		sessions := &mockSessionStore{
			getActiveFn: func(ctx context.Context, operatorName, partGID string) (*mysql.WorkSession, error) {
				return &mysql.WorkSession{
					ID: 4, OperatorName: operatorName, PartGID: partGID,
					StartTimestamp: start, TotalPartsProduced: 9,
				}, nil
			},
			sumActivePartsFn: func(ctx context.Context, partGID string) (int, error) {
				return 9, nil
			},
		}
		ledger := &mockLedgerStore{
			sumPartsProducedFn: func(ctx context.Context, taskGID string) (int, error) {
				return 20, nil
			},
		}
		svc := NewSessionService(sessions, ledger, nil)
		svc.now = func() time.Time { return start.Add(45 * time.Minute) }

		resp, err := svc.GetStatus(ctx, "maria", "part-1")

		require.NoError(t, err)
		assert.True(t, resp.Active)
		assert.Equal(t, 9, resp.TotalPartsProduced)
		assert.InDelta(t, 45.0, resp.ElapsedMinutes, 0.001)
		assert.Equal(t, 29, resp.RunningTotal)
	})

	t.Run("no active session", func(t *testing.T) {
		svc := NewSessionService(&mockSessionStore{}, &mockLedgerStore{}, nil)

		resp, err := svc.GetStatus(ctx, "maria", "part-1")

		require.NoError(t, err)
		assert.False(t, resp.Active)
		assert.Nil(t, resp.Session)
		assert.Zero(t, resp.ElapsedMinutes)
	})

	t.Run("rejects missing identifiers", func(t *testing.T) {
		svc := NewSessionService(&mockSessionStore{}, &mockLedgerStore{}, nil)

		_, err := svc.GetStatus(ctx, "", "part-1")

		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestSessionService_WritesInvalidateCachedTotal(t *testing.T) {
	ctx := context.Background()

	cache := newMockTotalsCache()
	cache.values["part-1"] = 99

	sessions := &mockSessionStore{
		getByIDFn: func(ctx context.Context, id int64) (*mysql.WorkSession, error) {
			return &mysql.WorkSession{ID: id, PartGID: "part-1"}, nil
		},
	}
	svc := NewSessionService(sessions, &mockLedgerStore{}, cache)

	_, err := svc.AccumulateParts(ctx, &model.AccumulatePartsRequest{SessionID: 1, PartsCount: intPtr(3)})

	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, "part-1")
	_, stale := cache.values["part-1"]
	assert.False(t, stale)
}
