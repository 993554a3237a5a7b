package constants

// Data source tags for QC ledger rows. Rows created by ending a live work
// session carry SourceWorkSession; rows bulk-loaded from spreadsheets carry
// SourceSheetImport.
const (
	SourceWorkSession = "work_session"
	SourceDirectInput = "direct_input"
	SourceSheetImport = "sheet_import"
)

// QC review states. Entries created by ending a session are submitted;
// manual entries start as drafts.
const (
	QCStatusDraft     = "draft"
	QCStatusSubmitted = "submitted"
	QCStatusReviewed  = "reviewed"
	QCStatusApproved  = "approved"
)
