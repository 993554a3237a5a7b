package service

import (
	"context"
	"time"

	"floortrack/internal/model"
	"floortrack/pkg/store/mysql"
)

func intPtr(v int) *int          { return &v }
func int64Ptr(v int64) *int64    { return &v }
func strPtr(s string) *string    { return &s }
func timePtr(t time.Time) *time.Time { return &t }

// Hand-written mocks with overridable func fields. Transactions run the
// callback directly; storage behavior is whatever the test plugs in.

type mockSessionStore struct {
	createFn             func(ctx context.Context, session *mysql.WorkSession) error
	getByIDFn            func(ctx context.Context, id int64) (*mysql.WorkSession, error)
	getByIDForUpdateFn   func(ctx context.Context, id int64) (*mysql.WorkSession, error)
	getActiveFn          func(ctx context.Context, operatorName, partGID string) (*mysql.WorkSession, error)
	getActiveForUpdateFn func(ctx context.Context, operatorName, partGID string) (*mysql.WorkSession, error)
	listByPartFn         func(ctx context.Context, partGID string) ([]*mysql.WorkSession, error)
	addPartsFn           func(ctx context.Context, id int64, parts int) (int64, error)
	closeFn              func(ctx context.Context, id int64, endedAt time.Time) (int64, error)
	sumActivePartsFn     func(ctx context.Context, partGID string) (int, error)
}

func (m *mockSessionStore) Create(ctx context.Context, session *mysql.WorkSession) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, session)
}

func (m *mockSessionStore) GetByID(ctx context.Context, id int64) (*mysql.WorkSession, error) {
	if m.getByIDFn == nil {
		return nil, nil
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockSessionStore) GetByIDForUpdate(ctx context.Context, id int64) (*mysql.WorkSession, error) {
	if m.getByIDForUpdateFn == nil {
		return nil, nil
	}
	return m.getByIDForUpdateFn(ctx, id)
}

func (m *mockSessionStore) GetActive(ctx context.Context, operatorName, partGID string) (*mysql.WorkSession, error) {
	if m.getActiveFn == nil {
		return nil, nil
	}
	return m.getActiveFn(ctx, operatorName, partGID)
}

func (m *mockSessionStore) GetActiveForUpdate(ctx context.Context, operatorName, partGID string) (*mysql.WorkSession, error) {
	if m.getActiveForUpdateFn == nil {
		return nil, nil
	}
	return m.getActiveForUpdateFn(ctx, operatorName, partGID)
}

func (m *mockSessionStore) ListByPart(ctx context.Context, partGID string) ([]*mysql.WorkSession, error) {
	if m.listByPartFn == nil {
		return nil, nil
	}
	return m.listByPartFn(ctx, partGID)
}

func (m *mockSessionStore) AddParts(ctx context.Context, id int64, parts int) (int64, error) {
	if m.addPartsFn == nil {
		return 1, nil
	}
	return m.addPartsFn(ctx, id, parts)
}

func (m *mockSessionStore) Close(ctx context.Context, id int64, endedAt time.Time) (int64, error) {
	if m.closeFn == nil {
		return 1, nil
	}
	return m.closeFn(ctx, id, endedAt)
}

func (m *mockSessionStore) SumActiveParts(ctx context.Context, partGID string) (int, error) {
	if m.sumActivePartsFn == nil {
		return 0, nil
	}
	return m.sumActivePartsFn(ctx, partGID)
}

func (m *mockSessionStore) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLedgerStore struct {
	insertFn           func(ctx context.Context, entry *mysql.QCEntry) error
	getByIDFn          func(ctx context.Context, id int64) (*mysql.QCEntry, error)
	sumPartsProducedFn func(ctx context.Context, taskGID string) (int, error)
	backfillTaskRefFn  func(ctx context.Context, id int64, taskGID string) (int64, error)
	listByDepartmentFn func(ctx context.Context, department string) ([]*mysql.QCEntry, error)
	listUnmatchedFn    func(ctx context.Context, department string) ([]*mysql.QCEntry, error)
}

func (m *mockLedgerStore) Insert(ctx context.Context, entry *mysql.QCEntry) error {
	if m.insertFn == nil {
		return nil
	}
	return m.insertFn(ctx, entry)
}

func (m *mockLedgerStore) GetByID(ctx context.Context, id int64) (*mysql.QCEntry, error) {
	if m.getByIDFn == nil {
		return nil, nil
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockLedgerStore) SumPartsProduced(ctx context.Context, taskGID string) (int, error) {
	if m.sumPartsProducedFn == nil {
		return 0, nil
	}
	return m.sumPartsProducedFn(ctx, taskGID)
}

func (m *mockLedgerStore) BackfillTaskRef(ctx context.Context, id int64, taskGID string) (int64, error) {
	if m.backfillTaskRefFn == nil {
		return 1, nil
	}
	return m.backfillTaskRefFn(ctx, id, taskGID)
}

func (m *mockLedgerStore) ListByDepartment(ctx context.Context, department string) ([]*mysql.QCEntry, error) {
	if m.listByDepartmentFn == nil {
		return nil, nil
	}
	return m.listByDepartmentFn(ctx, department)
}

func (m *mockLedgerStore) ListUnmatched(ctx context.Context, department string) ([]*mysql.QCEntry, error) {
	if m.listUnmatchedFn == nil {
		return nil, nil
	}
	return m.listUnmatchedFn(ctx, department)
}

func (m *mockLedgerStore) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockTotalsCache records operations in memory
type mockTotalsCache struct {
	values      map[string]int
	invalidated []string
	getErr      error
}

func newMockTotalsCache() *mockTotalsCache {
	return &mockTotalsCache{values: map[string]int{}}
}

func (m *mockTotalsCache) Get(ctx context.Context, partGID string) (int, bool, error) {
	if m.getErr != nil {
		return 0, false, m.getErr
	}
	total, ok := m.values[partGID]
	return total, ok, nil
}

func (m *mockTotalsCache) Set(ctx context.Context, partGID string, total int) error {
	m.values[partGID] = total
	return nil
}

func (m *mockTotalsCache) Invalidate(ctx context.Context, partGID string) error {
	delete(m.values, partGID)
	m.invalidated = append(m.invalidated, partGID)
	return nil
}

type mockTaskClient struct {
	listOpenTasksFn         func(ctx context.Context, projectGID string) ([]*model.TaskSnapshot, error)
	listRecentlyCompletedFn func(ctx context.Context, projectGID string, since time.Time) ([]*model.TaskSnapshot, error)
}

func (m *mockTaskClient) ListOpenTasks(ctx context.Context, projectGID string) ([]*model.TaskSnapshot, error) {
	if m.listOpenTasksFn == nil {
		return nil, nil
	}
	return m.listOpenTasksFn(ctx, projectGID)
}

func (m *mockTaskClient) ListRecentlyCompleted(ctx context.Context, projectGID string, since time.Time) ([]*model.TaskSnapshot, error) {
	if m.listRecentlyCompletedFn == nil {
		return nil, nil
	}
	return m.listRecentlyCompletedFn(ctx, projectGID, since)
}

type mockTaskCacheStore struct {
	replaceForProjectFn func(ctx context.Context, projectGID string, rows []*mysql.TaskCache) error
	getFn               func(ctx context.Context, taskGID string) (*mysql.TaskCache, error)
	listByProjectFn     func(ctx context.Context, projectGID string) ([]*mysql.TaskCache, error)
}

func (m *mockTaskCacheStore) ReplaceForProject(ctx context.Context, projectGID string, rows []*mysql.TaskCache) error {
	if m.replaceForProjectFn == nil {
		return nil
	}
	return m.replaceForProjectFn(ctx, projectGID, rows)
}

func (m *mockTaskCacheStore) Get(ctx context.Context, taskGID string) (*mysql.TaskCache, error) {
	if m.getFn == nil {
		return nil, nil
	}
	return m.getFn(ctx, taskGID)
}

func (m *mockTaskCacheStore) ListByProject(ctx context.Context, projectGID string) ([]*mysql.TaskCache, error) {
	if m.listByProjectFn == nil {
		return nil, nil
	}
	return m.listByProjectFn(ctx, projectGID)
}

type mockDepartmentStore struct {
	createFn    func(ctx context.Context, department *mysql.Department) error
	getByNameFn func(ctx context.Context, name string) (*mysql.Department, error)
	listFn      func(ctx context.Context) ([]*mysql.Department, error)
}

func (m *mockDepartmentStore) Create(ctx context.Context, department *mysql.Department) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, department)
}

func (m *mockDepartmentStore) GetByName(ctx context.Context, name string) (*mysql.Department, error) {
	if m.getByNameFn == nil {
		return nil, nil
	}
	return m.getByNameFn(ctx, name)
}

func (m *mockDepartmentStore) List(ctx context.Context) ([]*mysql.Department, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}

type mockOperatorStore struct {
	upsertFn    func(ctx context.Context, operator *mysql.Operator) error
	getByNameFn func(ctx context.Context, name string) (*mysql.Operator, error)
	listFn      func(ctx context.Context) ([]*mysql.Operator, error)
}

func (m *mockOperatorStore) Upsert(ctx context.Context, operator *mysql.Operator) error {
	if m.upsertFn == nil {
		return nil
	}
	return m.upsertFn(ctx, operator)
}

func (m *mockOperatorStore) GetByName(ctx context.Context, name string) (*mysql.Operator, error) {
	if m.getByNameFn == nil {
		return nil, nil
	}
	return m.getByNameFn(ctx, name)
}

func (m *mockOperatorStore) List(ctx context.Context) ([]*mysql.Operator, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}

func (m *mockOperatorStore) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockMachineStore struct {
	listFn             func(ctx context.Context) ([]*mysql.Machine, error)
	listByDepartmentFn func(ctx context.Context, departmentID int64) ([]*mysql.Machine, error)
}

func (m *mockMachineStore) List(ctx context.Context) ([]*mysql.Machine, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}

func (m *mockMachineStore) ListByDepartment(ctx context.Context, departmentID int64) ([]*mysql.Machine, error) {
	if m.listByDepartmentFn == nil {
		return nil, nil
	}
	return m.listByDepartmentFn(ctx, departmentID)
}
