package model

import (
	"encoding/json"
	"fmt"
)

// CustomFieldType enumerates the value kinds a task custom field can carry.
type CustomFieldType string

const (
	FieldTypeNumber    CustomFieldType = "number"
	FieldTypeText      CustomFieldType = "text"
	FieldTypeEnum      CustomFieldType = "enum"
	FieldTypeDate      CustomFieldType = "date"
	FieldTypeMultiEnum CustomFieldType = "multi_enum"
)

// CustomFieldValue is a tagged value for one task custom field. Exactly one
// of the value fields is meaningful, selected by Type.
type CustomFieldValue struct {
	Name   string          `json:"name"`
	Type   CustomFieldType `json:"type"`
	Number *float64        `json:"number,omitempty"`
	Text   string          `json:"text,omitempty"`
	Enum   string          `json:"enum,omitempty"`
	Date   string          `json:"date,omitempty"` // YYYY-MM-DD
	Multi  []string        `json:"multi,omitempty"`
}

// NumberField builds a number-typed custom field value.
func NumberField(name string, v float64) CustomFieldValue {
	return CustomFieldValue{Name: name, Type: FieldTypeNumber, Number: &v}
}

// TextField builds a text-typed custom field value.
func TextField(name, v string) CustomFieldValue {
	return CustomFieldValue{Name: name, Type: FieldTypeText, Text: v}
}

// EnumField builds an enum-typed custom field value.
func EnumField(name, v string) CustomFieldValue {
	return CustomFieldValue{Name: name, Type: FieldTypeEnum, Enum: v}
}

// DateField builds a date-typed custom field value.
func DateField(name, v string) CustomFieldValue {
	return CustomFieldValue{Name: name, Type: FieldTypeDate, Date: v}
}

// MultiEnumField builds a multi-enum custom field value.
func MultiEnumField(name string, vs []string) CustomFieldValue {
	return CustomFieldValue{Name: name, Type: FieldTypeMultiEnum, Multi: vs}
}

// Validate checks that the tagged value matches its declared type.
func (v CustomFieldValue) Validate() error {
	switch v.Type {
	case FieldTypeNumber:
		if v.Number == nil {
			return fmt.Errorf("%w: number field %q has no value", ErrValidation, v.Name)
		}
	case FieldTypeText, FieldTypeEnum, FieldTypeDate:
		// empty string is a legal value
	case FieldTypeMultiEnum:
		// empty set is a legal value
	default:
		return fmt.Errorf("%w: unknown custom field type %q", ErrValidation, v.Type)
	}
	return nil
}

// String renders the value for display and matching.
func (v CustomFieldValue) String() string {
	switch v.Type {
	case FieldTypeNumber:
		if v.Number == nil {
			return ""
		}
		return fmt.Sprintf("%g", *v.Number)
	case FieldTypeText:
		return v.Text
	case FieldTypeEnum:
		return v.Enum
	case FieldTypeDate:
		return v.Date
	case FieldTypeMultiEnum:
		b, _ := json.Marshal(v.Multi)
		return string(b)
	}
	return ""
}
