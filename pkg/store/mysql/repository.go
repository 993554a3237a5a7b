package mysql

import "fmt"

// Repository aggregates all MySQL repositories
type Repository struct {
	ds *Datastore

	WorkSession *WorkSessionRepository
	QCEntry     *QCEntryRepository
	TaskCache   *TaskCacheRepository
	Operator    *OperatorRepository
	Department  *DepartmentRepository
	Machine     *MachineRepository
}

// NewRepository creates a new MySQL repository with all sub-repositories
func NewRepository(dsn string) (*Repository, error) {
	ds, err := NewDatastore(dsn)
	if err != nil {
		return nil, err
	}

	return &Repository{
		ds:          ds,
		WorkSession: NewWorkSessionRepository(ds),
		QCEntry:     NewQCEntryRepository(ds),
		TaskCache:   NewTaskCacheRepository(ds),
		Operator:    NewOperatorRepository(ds),
		Department:  NewDepartmentRepository(ds),
		Machine:     NewMachineRepository(ds),
	}, nil
}

// BuildDSN renders a MySQL DSN from connection parameters
func BuildDSN(user, password, host string, port int, database string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, password, host, port, database)
}

// GetDatastore returns the underlying datastore for transaction support
func (r *Repository) GetDatastore() *Datastore {
	return r.ds
}

// Migrate creates or updates the schema for all tables
func (r *Repository) Migrate() error {
	return r.ds.GetDB().AutoMigrate(
		&Operator{},
		&Department{},
		&Machine{},
		&TaskCache{},
		&WorkSession{},
		&QCEntry{},
	)
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.ds.Close()
}
