package model

import "time"

// TaskSnapshot is the shape the task service client returns for one external
// task. The cache stores it verbatim; the external service stays authoritative.
type TaskSnapshot struct {
	GID          string                      `json:"gid"`
	Name         string                      `json:"name"`
	ProjectGID   string                      `json:"project_gid"`
	SectionName  string                      `json:"section_name,omitempty"`
	StartDate    string                      `json:"start_date,omitempty"` // YYYY-MM-DD
	DueDate      string                      `json:"due_date,omitempty"`   // YYYY-MM-DD
	MachineName  string                      `json:"machine_name,omitempty"`
	CustomFields map[string]CustomFieldValue `json:"custom_fields,omitempty"`
}

// CachedTask is a task snapshot plus cache bookkeeping.
type CachedTask struct {
	TaskSnapshot
	LastSynced time.Time `json:"last_synced"`
}

// SyncResult summarizes one project cache refresh.
type SyncResult struct {
	ProjectGID string    `json:"project_gid"`
	Department string    `json:"department,omitempty"`
	TaskCount  int       `json:"task_count"`
	SyncedAt   time.Time `json:"synced_at"`
}
