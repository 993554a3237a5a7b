package mysql

import (
	"time"

	"floortrack/internal/model"
)

// ToSessionDomain converts a MySQL WorkSession to the domain model
func ToSessionDomain(row *WorkSession) *model.WorkSession {
	if row == nil {
		return nil
	}

	return &model.WorkSession{
		ID:                 row.ID,
		OperatorName:       row.OperatorName,
		PartGID:            row.PartGID,
		PartName:           row.PartName,
		Department:         row.Department,
		StartTimestamp:     row.StartTimestamp,
		EndTimestamp:       row.EndTimestamp,
		TotalPartsProduced: row.TotalPartsProduced,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

// ToSessionDomainList converts a slice of MySQL WorkSessions
func ToSessionDomainList(rows []*WorkSession) []*model.WorkSession {
	sessions := make([]*model.WorkSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, ToSessionDomain(row))
	}
	return sessions
}

// ToQCEntryDomain converts a MySQL QCEntry to the domain model
func ToQCEntryDomain(row *QCEntry) *model.QCEntry {
	if row == nil {
		return nil
	}

	entry := &model.QCEntry{
		ID:                 row.ID,
		DataSource:         row.DataSource,
		EntryDate:          row.EntryDate,
		Department:         row.Department,
		WorkOrder:          row.WorkOrder,
		CustomerName:       row.CustomerName,
		Operator:           row.Operator,
		OperatorID:         row.OperatorID,
		PartName:           row.PartName,
		StartTimestamp:     row.StartTimestamp,
		MidTimestamp:       row.MidTimestamp,
		StopTimestamp:      row.StopTimestamp,
		StartTime:          row.StartTime,
		FinishTime:         row.FinishTime,
		ProcessTimeMinutes: row.ProcessTimeMinutes,
		TotalTimeMinutes:   row.TotalTimeMinutes,
		SetupMinutes:       row.SetupMinutes,
		DowntimeMinutes:    row.DowntimeMinutes,
		PartsProduced:      row.PartsProduced,
		TotalParts:         row.TotalParts,
		DefectsCount:       row.DefectsCount,
		ScrapCount:         row.ScrapCount,
		YieldStatus:        row.YieldStatus,
		Material:           row.Material,
		MaterialSize:       row.MaterialSize,
		DowntimeCategory:   row.DowntimeCategory,
		Notes:              row.Notes,
		QCStatus:           row.QCStatus,
		ReviewedBy:         row.ReviewedBy,
		ReviewedAt:         row.ReviewedAt,
		AsanaTaskGID:       row.AsanaTaskGID,
		UtilizationPct:     row.UtilizationPct,
		ActualPPM:          row.ActualPPM,
		CreatedAt:          row.CreatedAt,
	}
	if row.SourceEntryID != nil {
		entry.SourceEntryID = *row.SourceEntryID
	}
	return entry
}

// ToQCEntryDomainList converts a slice of MySQL QCEntries
func ToQCEntryDomainList(rows []*QCEntry) []*model.QCEntry {
	entries := make([]*model.QCEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ToQCEntryDomain(row))
	}
	return entries
}

// FromQCEntryDomain converts a domain QCEntry to the MySQL model
func FromQCEntryDomain(entry *model.QCEntry) *QCEntry {
	if entry == nil {
		return nil
	}

	row := &QCEntry{
		ID:                 entry.ID,
		DataSource:         entry.DataSource,
		EntryDate:          entry.EntryDate,
		Department:         entry.Department,
		WorkOrder:          entry.WorkOrder,
		CustomerName:       entry.CustomerName,
		Operator:           entry.Operator,
		OperatorID:         entry.OperatorID,
		PartName:           entry.PartName,
		StartTimestamp:     entry.StartTimestamp,
		MidTimestamp:       entry.MidTimestamp,
		StopTimestamp:      entry.StopTimestamp,
		StartTime:          entry.StartTime,
		FinishTime:         entry.FinishTime,
		ProcessTimeMinutes: entry.ProcessTimeMinutes,
		TotalTimeMinutes:   entry.TotalTimeMinutes,
		SetupMinutes:       entry.SetupMinutes,
		DowntimeMinutes:    entry.DowntimeMinutes,
		PartsProduced:      entry.PartsProduced,
		TotalParts:         entry.TotalParts,
		DefectsCount:       entry.DefectsCount,
		ScrapCount:         entry.ScrapCount,
		YieldStatus:        entry.YieldStatus,
		Material:           entry.Material,
		MaterialSize:       entry.MaterialSize,
		DowntimeCategory:   entry.DowntimeCategory,
		Notes:              entry.Notes,
		QCStatus:           entry.QCStatus,
		ReviewedBy:         entry.ReviewedBy,
		ReviewedAt:         entry.ReviewedAt,
		AsanaTaskGID:       entry.AsanaTaskGID,
		UtilizationPct:     entry.UtilizationPct,
		ActualPPM:          entry.ActualPPM,
	}
	if entry.SourceEntryID != "" {
		sourceID := entry.SourceEntryID
		row.SourceEntryID = &sourceID
	}
	return row
}

// ToCachedTaskDomain converts a MySQL TaskCache row to the domain model
func ToCachedTaskDomain(row *TaskCache) *model.CachedTask {
	if row == nil {
		return nil
	}

	task := &model.CachedTask{
		TaskSnapshot: model.TaskSnapshot{
			GID:          row.TaskGID,
			Name:         row.TaskName,
			ProjectGID:   row.ProjectGID,
			CustomFields: row.CustomFields,
		},
		LastSynced: row.LastSynced,
	}
	if row.SectionName != nil {
		task.SectionName = *row.SectionName
	}
	if row.StartDate != nil {
		task.StartDate = *row.StartDate
	}
	if row.DueDate != nil {
		task.DueDate = *row.DueDate
	}
	if row.MachineName != nil {
		task.MachineName = *row.MachineName
	}
	return task
}

// FromTaskSnapshot converts a task service snapshot to a cache row
func FromTaskSnapshot(snap *model.TaskSnapshot, syncedAt time.Time) *TaskCache {
	if snap == nil {
		return nil
	}

	row := &TaskCache{
		TaskGID:      snap.GID,
		TaskName:     snap.Name,
		ProjectGID:   snap.ProjectGID,
		CustomFields: CustomFieldMap(snap.CustomFields),
		LastSynced:   syncedAt,
	}
	if snap.SectionName != "" {
		v := snap.SectionName
		row.SectionName = &v
	}
	if snap.StartDate != "" {
		v := snap.StartDate
		row.StartDate = &v
	}
	if snap.DueDate != "" {
		v := snap.DueDate
		row.DueDate = &v
	}
	if snap.MachineName != "" {
		v := snap.MachineName
		row.MachineName = &v
	}
	return row
}

// ToOperatorDomain converts a MySQL Operator to the domain model
func ToOperatorDomain(row *Operator) *model.Operator {
	if row == nil {
		return nil
	}

	return &model.Operator{
		ID:                   row.ID,
		Name:                 row.Name,
		DateOfHire:           row.DateOfHire,
		PayRate:              row.PayRate,
		Role:                 row.Role,
		PrimaryDept:          row.PrimaryDept,
		CertifiedDepartments: row.CertifiedDepartments,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}

// FromOperatorDomain converts a domain Operator to the MySQL model
func FromOperatorDomain(op *model.Operator) *Operator {
	if op == nil {
		return nil
	}

	return &Operator{
		ID:                   op.ID,
		Name:                 op.Name,
		DateOfHire:           op.DateOfHire,
		PayRate:              op.PayRate,
		Role:                 op.Role,
		PrimaryDept:          op.PrimaryDept,
		CertifiedDepartments: StringList(op.CertifiedDepartments),
	}
}

// ToDepartmentDomain converts a MySQL Department to the domain model
func ToDepartmentDomain(row *Department) *model.Department {
	if row == nil {
		return nil
	}

	return &model.Department{
		ID:              row.ID,
		Name:            row.Name,
		AsanaProjectGID: row.AsanaProjectGID,
		CreatedAt:       row.CreatedAt,
	}
}

// ToMachineDomain converts a MySQL Machine to the domain model
func ToMachineDomain(row *Machine) *model.Machine {
	if row == nil {
		return nil
	}

	return &model.Machine{
		ID:           row.ID,
		Name:         row.Name,
		DepartmentID: row.DepartmentID,
		AsanaEnumGID: row.AsanaEnumGID,
		CreatedAt:    row.CreatedAt,
	}
}
