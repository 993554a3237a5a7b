package model

import (
	"testing"

	domain "floortrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFieldMapScan(t *testing.T) {
	raw := `{"gid-1":{"name":"Quantity","type":"number","number":40},"gid-2":{"name":"Machine","type":"enum","enum":"Laser 2"}}`

	var fromBytes CustomFieldMap
	require.NoError(t, fromBytes.Scan([]byte(raw)))
	require.Len(t, fromBytes, 2)
	require.NotNil(t, fromBytes["gid-1"].Number)
	assert.Equal(t, 40.0, *fromBytes["gid-1"].Number)
	assert.Equal(t, "Laser 2", fromBytes["gid-2"].Enum)

	// MySQL drivers hand JSON columns back as either []byte or string
	var fromString CustomFieldMap
	require.NoError(t, fromString.Scan(raw))
	assert.Equal(t, fromBytes, fromString)

	var fromNil CustomFieldMap
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)

	var bad CustomFieldMap
	assert.Error(t, bad.Scan(42))
	assert.Error(t, bad.Scan([]byte("not json")))
}

func TestCustomFieldMapValue(t *testing.T) {
	var nilMap CustomFieldMap
	v, err := nilMap.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	m := CustomFieldMap{"gid-1": domain.TextField("Notes", "rush order")}
	v, err = m.Value()
	require.NoError(t, err)
	assert.Contains(t, string(v.([]byte)), "rush order")
}

func TestStringListRoundTrip(t *testing.T) {
	var nilList StringList
	v, err := nilList.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	list := StringList{"laser", "press brake"}
	v, err = list.Value()
	require.NoError(t, err)

	var scanned StringList
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, list, scanned)

	var fromNil StringList
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)

	var bad StringList
	assert.Error(t, bad.Scan(3.14))
}
