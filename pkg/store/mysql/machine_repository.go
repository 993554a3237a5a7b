package mysql

import (
	"context"
	"fmt"
)

// MachineRepository handles machine reference data in MySQL
type MachineRepository struct {
	ds *Datastore
}

// NewMachineRepository creates a new machine repository
func NewMachineRepository(ds *Datastore) *MachineRepository {
	return &MachineRepository{ds: ds}
}

// Create inserts a machine
func (r *MachineRepository) Create(ctx context.Context, machine *Machine) error {
	if err := r.ds.DB(ctx).Create(machine).Error; err != nil {
		return fmt.Errorf("failed to create machine: %w", err)
	}
	return nil
}

// List retrieves all machines ordered by name
func (r *MachineRepository) List(ctx context.Context) ([]*Machine, error) {
	var machines []*Machine
	err := r.ds.DB(ctx).Order("name ASC").Find(&machines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return machines, nil
}

// ListByDepartment retrieves machines belonging to one department
func (r *MachineRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]*Machine, error) {
	var machines []*Machine
	err := r.ds.DB(ctx).
		Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&machines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list machines by department: %w", err)
	}
	return machines, nil
}
