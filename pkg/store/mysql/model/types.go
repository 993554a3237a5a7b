package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	domain "floortrack/internal/model"
)

// CustomFieldMap stores task custom fields as a JSON column, keyed by the
// external field gid.
type CustomFieldMap map[string]domain.CustomFieldValue

// Value implements driver.Valuer for CustomFieldMap.
func (m CustomFieldMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for CustomFieldMap.
func (m *CustomFieldMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	bytes, err := toBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan CustomFieldMap: %w", err)
	}

	var fields map[string]domain.CustomFieldValue
	if err := json.Unmarshal(bytes, &fields); err != nil {
		return fmt.Errorf("failed to unmarshal CustomFieldMap: %w", err)
	}

	*m = fields
	return nil
}

// StringList stores a string slice as a JSON column (certified departments).
type StringList []string

// Value implements driver.Valuer for StringList.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for StringList.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, err := toBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan StringList: %w", err)
	}

	var items []string
	if err := json.Unmarshal(bytes, &items); err != nil {
		return fmt.Errorf("failed to unmarshal StringList: %w", err)
	}

	*l = items
	return nil
}

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}
