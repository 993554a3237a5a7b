package model

import "time"

// Operator MySQL model for the operators table. Administrative import only;
// rows are updated in place and never deleted.
type Operator struct {
	ID                   int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                 string     `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_operators_name" json:"name"`
	DateOfHire           *string    `gorm:"column:date_of_hire;type:date" json:"date_of_hire"`
	PayRate              *float64   `gorm:"column:pay_rate" json:"pay_rate"`
	Role                 *string    `gorm:"column:role;type:varchar(255);index:idx_operators_role" json:"role"`
	PrimaryDept          *string    `gorm:"column:primary_dept;type:varchar(255);index:idx_operators_primary_dept" json:"primary_dept"`
	CertifiedDepartments StringList `gorm:"column:certified_departments;type:json" json:"certified_departments"`
	CreatedAt            time.Time  `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for Operator
func (Operator) TableName() string {
	return "operators"
}

// Department MySQL model for the departments table. Static reference data.
type Department struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_departments_name" json:"name"`
	AsanaProjectGID *string   `gorm:"column:asana_project_gid;type:varchar(255);uniqueIndex:idx_departments_project" json:"asana_project_gid"`
	CreatedAt       time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
}

// TableName specifies the table name for Department
func (Department) TableName() string {
	return "departments"
}

// Machine MySQL model for the machines table. Static reference data.
type Machine struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	DepartmentID *int64    `gorm:"column:department_id;index:idx_machines_department" json:"department_id"`
	AsanaEnumGID *string   `gorm:"column:asana_enum_gid;type:varchar(255)" json:"asana_enum_gid"`
	CreatedAt    time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
}

// TableName specifies the table name for Machine
func (Machine) TableName() string {
	return "machines"
}
