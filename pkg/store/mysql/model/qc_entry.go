package model

import "time"

// QCEntry MySQL model for the qc_entries table. Append-mostly: after insert
// only the one-time task reference backfill and the review fields change.
// Column names match the unified schema shared with the import tooling.
type QCEntry struct {
	ID            int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	DataSource    string  `gorm:"column:data_source;type:varchar(50);not null;default:'direct_input'" json:"data_source"`
	SourceEntryID *string `gorm:"column:source_entry_id;type:varchar(255)" json:"source_entry_id"`

	EntryDate  string `gorm:"column:entry_date;type:date;not null;index:idx_qc_entry_date" json:"entry_date"`
	Department string `gorm:"column:department;type:varchar(255);not null;index:idx_qc_department" json:"department"`

	WorkOrder    *string `gorm:"column:work_order;type:varchar(255)" json:"work_order"`
	CustomerName *string `gorm:"column:customer_name;type:varchar(255)" json:"customer_name"`
	Operator     *string `gorm:"column:operator;type:varchar(255)" json:"operator"`
	OperatorID   *int64  `gorm:"column:operator_id" json:"operator_id"`
	PartName     *string `gorm:"column:part_name;type:varchar(500)" json:"part_name"`

	StartTimestamp *time.Time `gorm:"column:start_timestamp;type:datetime(3)" json:"start_timestamp"`
	MidTimestamp   *time.Time `gorm:"column:mid_timestamp;type:datetime(3)" json:"mid_timestamp"`
	StopTimestamp  *time.Time `gorm:"column:stop_timestamp;type:datetime(3)" json:"stop_timestamp"`
	StartTime      *string    `gorm:"column:start_time;type:varchar(8)" json:"start_time"`
	FinishTime     *string    `gorm:"column:finish_time;type:varchar(8)" json:"finish_time"`

	ProcessTimeMinutes *float64 `gorm:"column:process_time_minutes" json:"process_time_minutes"`
	TotalTimeMinutes   *float64 `gorm:"column:total_time_minutes" json:"total_time_minutes"`
	SetupMinutes       *float64 `gorm:"column:setup_minutes" json:"setup_minutes"`
	DowntimeMinutes    *float64 `gorm:"column:downtime_minutes" json:"downtime_minutes"`

	PartsProduced *int    `gorm:"column:parts_produced" json:"parts_produced"`
	TotalParts    *int    `gorm:"column:total_parts" json:"total_parts"`
	DefectsCount  *int    `gorm:"column:defects_count" json:"defects_count"`
	ScrapCount    *int    `gorm:"column:scrap_count" json:"scrap_count"`
	YieldStatus   *string `gorm:"column:yield_status;type:varchar(50)" json:"yield_status"`

	Material         *string `gorm:"column:material;type:varchar(255)" json:"material"`
	MaterialSize     *string `gorm:"column:material_size;type:varchar(255)" json:"material_size"`
	DowntimeCategory *string `gorm:"column:downtime_category;type:varchar(255)" json:"downtime_category"`
	Notes            *string `gorm:"column:notes;type:text" json:"notes"`

	QCStatus   string     `gorm:"column:qc_status;type:varchar(20);not null;default:'draft'" json:"qc_status"`
	ReviewedBy *int64     `gorm:"column:reviewed_by" json:"reviewed_by"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at;type:datetime(3)" json:"reviewed_at"`

	AsanaTaskGID   *string  `gorm:"column:asana_task_gid;type:varchar(255);index:idx_qc_task_gid" json:"asana_task_gid"`
	UtilizationPct *float64 `gorm:"column:utilization_pct" json:"utilization_pct"`
	ActualPPM      *float64 `gorm:"column:actual_ppm" json:"actual_ppm"`

	CreatedAt time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
}

// TableName specifies the table name for QCEntry
func (QCEntry) TableName() string {
	return "qc_entries"
}
