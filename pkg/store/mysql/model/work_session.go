package model

import "time"

// WorkSession MySQL model for the work_sessions table.
// The idx_sessions_active index backs the active-pair lookup; a NULL
// end_timestamp marks an active session.
type WorkSession struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	OperatorName       string     `gorm:"column:operator_name;type:varchar(255);not null;index:idx_sessions_operator;index:idx_sessions_active,priority:1" json:"operator_name"`
	PartGID            string     `gorm:"column:part_gid;type:varchar(255);not null;index:idx_sessions_part;index:idx_sessions_active,priority:2" json:"part_gid"`
	PartName           *string    `gorm:"column:part_name;type:varchar(500)" json:"part_name"`
	Department         *string    `gorm:"column:department;type:varchar(255)" json:"department"`
	StartTimestamp     time.Time  `gorm:"column:start_timestamp;type:datetime(3);not null" json:"start_timestamp"`
	EndTimestamp       *time.Time `gorm:"column:end_timestamp;type:datetime(3);index:idx_sessions_active,priority:3" json:"end_timestamp"`
	TotalPartsProduced int        `gorm:"column:total_parts_produced;not null;default:0" json:"total_parts_produced"`
	CreatedAt          time.Time  `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for WorkSession
func (WorkSession) TableName() string {
	return "work_sessions"
}
