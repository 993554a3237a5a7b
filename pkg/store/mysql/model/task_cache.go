package model

import "time"

// TaskCache MySQL model for the asana_tasks_cache table. A read-through
// cache of external task metadata; rows are replaced wholesale on each sync
// and are never the source of truth for task state.
type TaskCache struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskGID         string         `gorm:"column:task_gid;type:varchar(255);not null;uniqueIndex:idx_cache_task_gid" json:"task_gid"`
	TaskName        string         `gorm:"column:task_name;type:varchar(500);not null" json:"task_name"`
	ProjectGID      string         `gorm:"column:project_gid;type:varchar(255);index:idx_cache_project" json:"project_gid"`
	SectionName     *string        `gorm:"column:section_name;type:varchar(255);index:idx_cache_section" json:"section_name"`
	StartDate       *string        `gorm:"column:start_date;type:varchar(10)" json:"start_date"`
	DueDate         *string        `gorm:"column:due_date;type:varchar(10)" json:"due_date"`
	MachineName     *string        `gorm:"column:machine_name;type:varchar(255);index:idx_cache_machine" json:"machine_name"`
	CustomFields    CustomFieldMap `gorm:"column:custom_fields;type:json" json:"custom_fields"`
	LastSynced      time.Time      `gorm:"column:last_synced;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"last_synced"`
}

// TableName specifies the table name for TaskCache
func (TaskCache) TableName() string {
	return "asana_tasks_cache"
}
