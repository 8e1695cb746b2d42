package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRefUnmarshal(t *testing.T) {
	var refs []TagRef
	err := json.Unmarshal([]byte(`[1, "Wedding", "42", " Outdoor "]`), &refs)
	require.NoError(t, err)

	assert.Equal(t, []TagRef{TagID(1), TagName("Wedding"), TagID(42), TagName("Outdoor")}, refs)
}

func TestTagRefUnmarshalRejects(t *testing.T) {
	inputs := []string{`[""]`, `["   "]`, `[0]`, `[-4]`, `[1.5]`, `[true]`, `[{"id":1}]`}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			var refs []TagRef
			assert.Error(t, json.Unmarshal([]byte(in), &refs))
		})
	}
}

func TestFacilityTagInput(t *testing.T) {
	var req CreateFacilityRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Hall","location_id":1,"tagIds":[3],"tagNames":["Garden"]}`), &req))

	assert.True(t, req.Present())
	assert.False(t, req.Mixed())
	assert.Equal(t, []TagRef{TagID(3), TagName("Garden")}, req.Refs())

	req = CreateFacilityRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Hall","location_id":1,"tags":[],"tagIds":[3]}`), &req))
	assert.True(t, req.Mixed())

	var upd UpdateFacilityRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Renamed"}`), &upd))
	assert.False(t, upd.Present())

	upd = UpdateFacilityRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"tags":[]}`), &upd))
	assert.True(t, upd.Present())
	assert.Empty(t, upd.Refs())
}
