package model

// TaskMatch is one task's best-effort set of matched ledger entries. Matches
// are suggestions for confirmation, not authoritative relationships.
type TaskMatch struct {
	TaskGID  string     `json:"task_gid"`
	TaskName string     `json:"task_name"`
	Entries  []*QCEntry `json:"entries"`
}

// ReconcileSummary reports one department reconciliation run.
type ReconcileSummary struct {
	Department      string `json:"department"`
	TasksMatched    int    `json:"tasks_matched"`
	RefsBackfilled  int    `json:"refs_backfilled"`
	SessionsCreated int    `json:"sessions_created"`
	SessionsSkipped int    `json:"sessions_skipped"`
}
