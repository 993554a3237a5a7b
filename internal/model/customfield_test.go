package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomFieldValueValidate(t *testing.T) {
	tests := []struct {
		name    string
		value   CustomFieldValue
		wantErr bool
	}{
		{"number with value", NumberField("Quantity", 40), false},
		{"number without value", CustomFieldValue{Name: "Quantity", Type: FieldTypeNumber}, true},
		{"empty text is legal", TextField("Notes", ""), false},
		{"empty enum is legal", EnumField("Machine", ""), false},
		{"empty date is legal", DateField("Ship Date", ""), false},
		{"empty multi enum is legal", MultiEnumField("Finishes", nil), false},
		{"unknown type", CustomFieldValue{Name: "x", Type: "mystery"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCustomFieldValueString(t *testing.T) {
	assert.Equal(t, "40", NumberField("Quantity", 40).String())
	assert.Equal(t, "2.5", NumberField("Hours", 2.5).String())
	assert.Equal(t, "rush order", TextField("Notes", "rush order").String())
	assert.Equal(t, "Laser 2", EnumField("Machine", "Laser 2").String())
	assert.Equal(t, "2026-03-20", DateField("Ship Date", "2026-03-20").String())
	assert.Equal(t, `["anodize","deburr"]`, MultiEnumField("Finishes", []string{"anodize", "deburr"}).String())
	assert.Equal(t, "", CustomFieldValue{Name: "Quantity", Type: FieldTypeNumber}.String())
}
