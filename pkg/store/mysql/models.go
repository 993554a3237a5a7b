package mysql

import "floortrack/pkg/store/mysql/model"

// Re-export types from the model package so repository callers don't need a
// second import.
type (
	WorkSession = model.WorkSession
	QCEntry     = model.QCEntry
	TaskCache   = model.TaskCache
	Operator    = model.Operator
	Department  = model.Department
	Machine     = model.Machine

	CustomFieldMap = model.CustomFieldMap
	StringList     = model.StringList
)
