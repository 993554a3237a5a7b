package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OperatorRepository handles operator reference data in MySQL
type OperatorRepository struct {
	ds *Datastore
}

// NewOperatorRepository creates a new operator repository
func NewOperatorRepository(ds *Datastore) *OperatorRepository {
	return &OperatorRepository{ds: ds}
}

// Upsert inserts or updates an operator by name. Operators are never
// deleted, only updated by administrative import.
func (r *OperatorRepository) Upsert(ctx context.Context, operator *Operator) error {
	err := r.ds.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"date_of_hire", "pay_rate", "role", "primary_dept",
				"certified_departments", "updated_at",
			}),
		}).
		Create(operator).Error
	if err != nil {
		return fmt.Errorf("failed to upsert operator: %w", err)
	}
	return nil
}

// GetByName retrieves an operator by unique name, nil when absent
func (r *OperatorRepository) GetByName(ctx context.Context, name string) (*Operator, error) {
	var operator Operator
	err := r.ds.DB(ctx).Where("name = ?", name).First(&operator).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	return &operator, nil
}

// List retrieves all operators ordered by name
func (r *OperatorRepository) List(ctx context.Context) ([]*Operator, error) {
	var operators []*Operator
	err := r.ds.DB(ctx).Order("name ASC").Find(&operators).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	return operators, nil
}

// ExecTx executes a function within a transaction
func (r *OperatorRepository) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.ds.ExecTx(ctx, fn)
}
