package service

import (
	"context"
	"fmt"

	"floortrack/internal/model"
	"floortrack/pkg/logger"
	"floortrack/pkg/store/mysql"
)

type operatorStore interface {
	Upsert(ctx context.Context, operator *mysql.Operator) error
	GetByName(ctx context.Context, name string) (*mysql.Operator, error)
	List(ctx context.Context) ([]*mysql.Operator, error)
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type machineStore interface {
	List(ctx context.Context) ([]*mysql.Machine, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]*mysql.Machine, error)
}

var _ operatorStore = (*mysql.OperatorRepository)(nil)
var _ machineStore = (*mysql.MachineRepository)(nil)

// CatalogService serves the static reference data: operators, departments
// and machines. Operators are upserted by name; the rest is read-only here
// and maintained by migration.
type CatalogService struct {
	operators   operatorStore
	departments departmentStore
	machines    machineStore
}

// NewCatalogService creates a catalog service
func NewCatalogService(operators operatorStore, departments departmentStore, machines machineStore) *CatalogService {
	return &CatalogService{
		operators:   operators,
		departments: departments,
		machines:    machines,
	}
}

// ImportOperators upserts the roster by operator name in one transaction
func (s *CatalogService) ImportOperators(ctx context.Context, req *model.ImportOperatorsRequest) (int, error) {
	if len(req.Operators) == 0 {
		return 0, fmt.Errorf("%w: operators must not be empty", model.ErrValidation)
	}
	for i, op := range req.Operators {
		if op == nil || op.Name == "" {
			return 0, fmt.Errorf("%w: operator %d has no name", model.ErrValidation, i)
		}
	}

	err := s.operators.ExecTx(ctx, func(ctx context.Context) error {
		for _, op := range req.Operators {
			if err := s.operators.Upsert(ctx, mysql.FromOperatorDomain(op)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Infof("operator roster imported: %d operators", len(req.Operators))
	return len(req.Operators), nil
}

// GetOperator retrieves one operator by name
func (s *CatalogService) GetOperator(ctx context.Context, name string) (*model.Operator, error) {
	row, err := s.operators.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: operator %s", model.ErrNotFound, name)
	}
	return mysql.ToOperatorDomain(row), nil
}

// ListOperators returns the full roster
func (s *CatalogService) ListOperators(ctx context.Context) ([]*model.Operator, error) {
	rows, err := s.operators.List(ctx)
	if err != nil {
		return nil, err
	}
	operators := make([]*model.Operator, 0, len(rows))
	for _, row := range rows {
		operators = append(operators, mysql.ToOperatorDomain(row))
	}
	return operators, nil
}

// CreateDepartment registers a new production area
func (s *CatalogService) CreateDepartment(ctx context.Context, department *model.Department) (*model.Department, error) {
	if department == nil || department.Name == "" {
		return nil, fmt.Errorf("%w: department name is required", model.ErrValidation)
	}

	existing, err := s.departments.GetByName(ctx, department.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: department %s already exists", model.ErrValidation, department.Name)
	}

	row := &mysql.Department{
		Name:            department.Name,
		AsanaProjectGID: department.AsanaProjectGID,
	}
	if err := s.departments.Create(ctx, row); err != nil {
		return nil, err
	}

	logger.Infof("department created: %s", department.Name)
	return mysql.ToDepartmentDomain(row), nil
}

// ListDepartments returns all departments
func (s *CatalogService) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	rows, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}
	departments := make([]*model.Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, mysql.ToDepartmentDomain(row))
	}
	return departments, nil
}

// ListMachines returns machines, optionally narrowed to one department
func (s *CatalogService) ListMachines(ctx context.Context, departmentID *int64) ([]*model.Machine, error) {
	var (
		rows []*mysql.Machine
		err  error
	)
	if departmentID != nil {
		rows, err = s.machines.ListByDepartment(ctx, *departmentID)
	} else {
		rows, err = s.machines.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	machines := make([]*model.Machine, 0, len(rows))
	for _, row := range rows {
		machines = append(machines, mysql.ToMachineDomain(row))
	}
	return machines, nil
}
