// Package basesvc - Test chuyển đổi update input về UpdateData.
package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUpdateData_PassThrough(t *testing.T) {
	src := &UpdateData{Set: map[string]interface{}{"body": "mới"}}

	got, err := ToUpdateData(src)
	require.NoError(t, err)
	assert.Same(t, src, got, "con trỏ UpdateData phải được trả nguyên")

	byValue := UpdateData{Unset: map[string]interface{}{"assetKey": ""}}
	got, err = ToUpdateData(byValue)
	require.NoError(t, err)
	assert.Equal(t, byValue.Unset, got.Unset)
}

func TestToUpdateData_PlainMapWrappedInSet(t *testing.T) {
	got, err := ToUpdateData(map[string]interface{}{"status": "scheduled"})
	require.NoError(t, err)
	assert.Equal(t, "scheduled", got.Set["status"])
	assert.Nil(t, got.Unset)
}

func TestToUpdateData_OperatorMap(t *testing.T) {
	got, err := ToUpdateData(map[string]interface{}{
		"$set":   map[string]interface{}{"status": "published"},
		"$unset": map[string]interface{}{"assetUrl": ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "published", got.Set["status"])
	_, hasUnset := got.Unset["assetUrl"]
	assert.True(t, hasUnset, "$unset phải được giữ riêng, không gộp vào $set")
}
