package model

import "time"

// QCEntry is one immutable ledger row of completed production reporting.
// Rows are never modified after insert except the one-time task reference
// backfill and the review workflow fields.
type QCEntry struct {
	ID            int64  `json:"id"`
	DataSource    string `json:"data_source"`
	SourceEntryID string `json:"source_entry_id,omitempty"`

	EntryDate  string `json:"entry_date"` // YYYY-MM-DD
	Department string `json:"department"`

	WorkOrder    *string `json:"work_order,omitempty"`
	CustomerName *string `json:"customer_name,omitempty"`
	Operator     *string `json:"operator,omitempty"`
	OperatorID   *int64  `json:"operator_id,omitempty"`
	PartName     *string `json:"part_name,omitempty"`

	StartTimestamp *time.Time `json:"start_timestamp,omitempty"`
	MidTimestamp   *time.Time `json:"mid_timestamp,omitempty"`
	StopTimestamp  *time.Time `json:"stop_timestamp,omitempty"`
	StartTime      *string    `json:"start_time,omitempty"`  // HH:MM:SS, spreadsheet compatibility
	FinishTime     *string    `json:"finish_time,omitempty"` // HH:MM:SS, spreadsheet compatibility

	ProcessTimeMinutes *float64 `json:"process_time_minutes,omitempty"`
	TotalTimeMinutes   *float64 `json:"total_time_minutes,omitempty"`
	SetupMinutes       *float64 `json:"setup_minutes,omitempty"`
	DowntimeMinutes    *float64 `json:"downtime_minutes,omitempty"`

	PartsProduced *int    `json:"parts_produced,omitempty"`
	TotalParts    *int    `json:"total_parts,omitempty"`
	DefectsCount  *int    `json:"defects_count,omitempty"`
	ScrapCount    *int    `json:"scrap_count,omitempty"`
	YieldStatus   *string `json:"yield_status,omitempty"`

	Material         *string `json:"material,omitempty"`
	MaterialSize     *string `json:"material_size,omitempty"`
	DowntimeCategory *string `json:"downtime_category,omitempty"`
	Notes            *string `json:"notes,omitempty"`

	QCStatus   string     `json:"qc_status"`
	ReviewedBy *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	AsanaTaskGID   *string  `json:"asana_task_gid,omitempty"`
	UtilizationPct *float64 `json:"utilization_pct,omitempty"`
	ActualPPM      *float64 `json:"actual_ppm,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TaskRef returns the external task reference, empty when unset.
func (e *QCEntry) TaskRef() string {
	if e.AsanaTaskGID == nil {
		return ""
	}
	return *e.AsanaTaskGID
}

// BackfillRequest attaches an external task reference to a historical entry.
type BackfillRequest struct {
	TaskGID string `json:"task_gid" binding:"required"`
}

// ImportEntriesRequest bulk-loads ledger rows from an external importer.
type ImportEntriesRequest struct {
	Source  string     `json:"source,omitempty"`
	Entries []*QCEntry `json:"entries" binding:"required"`
}

// ImportEntriesResponse reports the ids of the inserted rows and the batch tag.
type ImportEntriesResponse struct {
	BatchID  string  `json:"batch_id"`
	EntryIDs []int64 `json:"entry_ids"`
}
