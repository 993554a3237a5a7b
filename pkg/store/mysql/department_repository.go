package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// DepartmentRepository handles department reference data in MySQL
type DepartmentRepository struct {
	ds *Datastore
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(ds *Datastore) *DepartmentRepository {
	return &DepartmentRepository{ds: ds}
}

// Create inserts a department
func (r *DepartmentRepository) Create(ctx context.Context, department *Department) error {
	if err := r.ds.DB(ctx).Create(department).Error; err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

// GetByName retrieves a department by unique name, nil when absent
func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*Department, error) {
	var department Department
	err := r.ds.DB(ctx).Where("name = ?", name).First(&department).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &department, nil
}

// List retrieves all departments ordered by name
func (r *DepartmentRepository) List(ctx context.Context) ([]*Department, error) {
	var departments []*Department
	err := r.ds.DB(ctx).Order("name ASC").Find(&departments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}
