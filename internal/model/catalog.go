package model

import "time"

// Operator is a person performing production work, tracked locally for pay
// and utilization reporting. Operators are imported administratively and
// updated in place, never deleted.
type Operator struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	DateOfHire           *string   `json:"date_of_hire,omitempty"` // YYYY-MM-DD
	PayRate              *float64  `json:"pay_rate,omitempty"`
	Role                 *string   `json:"role,omitempty"`
	PrimaryDept          *string   `json:"primary_dept,omitempty"`
	CertifiedDepartments []string  `json:"certified_departments,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Department is a production area, optionally bound to an external project.
type Department struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	AsanaProjectGID *string   `json:"asana_project_gid,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Machine is a named resource within a department.
type Machine struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	AsanaEnumGID *string   `json:"asana_enum_gid,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ImportOperatorsRequest upserts the operator roster.
type ImportOperatorsRequest struct {
	Operators []*Operator `json:"operators" binding:"required"`
}
