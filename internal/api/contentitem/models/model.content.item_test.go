// Package models - Test enum kênh/trạng thái và helper của ContentItem.
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChannel(t *testing.T) {
	ch, ok := ParseChannel("facebook")
	assert.True(t, ok)
	assert.Equal(t, ChannelFacebook, ch)

	_, ok = ParseChannel("myspace")
	assert.False(t, ok, "kênh ngoài enum phải bị từ chối")

	_, ok = ParseChannel("")
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("scheduled")
	assert.True(t, ok)
	assert.Equal(t, StatusScheduled, s)

	_, ok = ParseStatus("archived")
	assert.False(t, ok, "trạng thái ngoài enum phải bị từ chối")
}

func TestChannelRequiresAsset(t *testing.T) {
	assert.False(t, ChannelFacebook.RequiresAsset())
	assert.True(t, ChannelInstagram.RequiresAsset())
	assert.True(t, ChannelTikTok.RequiresAsset())
}

func TestChannelBodyLimit(t *testing.T) {
	assert.Equal(t, 63206, ChannelFacebook.BodyLimit())
	assert.Equal(t, 2200, ChannelInstagram.BodyLimit())
	assert.Equal(t, 2200, ChannelTikTok.BodyLimit())
}

func TestIsExpired(t *testing.T) {
	now := int64(1700000000000)

	past := now - 1
	future := now + 1

	assert.True(t, (&ContentItem{ActivationTime: &past}).IsExpired(now))
	assert.False(t, (&ContentItem{ActivationTime: &future}).IsExpired(now))
	assert.False(t, (&ContentItem{ActivationTime: &now}).IsExpired(now), "đúng thời điểm kích hoạt chưa tính là quá hạn")
	assert.False(t, (&ContentItem{}).IsExpired(now), "item không có lịch không bao giờ quá hạn")
}

func TestApplyPatch(t *testing.T) {
	activation := int64(1700000000000)
	url := "https://cdn.example.com/a.jpg"
	key := "assets/a.jpg"

	base := ContentItem{
		Body:           "bài gốc",
		Targets:        []Channel{ChannelFacebook},
		ActivationTime: &activation,
		Status:         StatusScheduled,
		AssetURL:       &url,
		AssetKey:       &key,
	}

	// Patch rỗng: không đổi gì
	merged := ApplyPatch(base, ContentPatch{})
	assert.Equal(t, base, merged)

	// Field zero-value nghĩa là giữ nguyên, không phải xóa
	merged = ApplyPatch(base, ContentPatch{Body: "bài sửa"})
	assert.Equal(t, "bài sửa", merged.Body)
	assert.Equal(t, base.Targets, merged.Targets)
	assert.Same(t, base.ActivationTime, merged.ActivationTime)
	assert.Same(t, base.AssetURL, merged.AssetURL)
}

func TestApplyPatch_ClearsFields(t *testing.T) {
	activation := int64(1700000000000)
	url := "https://cdn.example.com/a.jpg"
	key := "assets/a.jpg"

	base := ContentItem{
		Body:           "bài có ảnh",
		Targets:        []Channel{ChannelFacebook},
		ActivationTime: &activation,
		Status:         StatusScheduled,
		AssetURL:       &url,
		AssetKey:       &key,
	}

	// DetachAsset gỡ cả url lẫn key
	merged := ApplyPatch(base, ContentPatch{DetachAsset: true})
	assert.Nil(t, merged.AssetURL)
	assert.Nil(t, merged.AssetKey)
	assert.NotNil(t, base.AssetURL, "item gốc không bị sửa")

	// ClearActivation xóa lịch
	merged = ApplyPatch(base, ContentPatch{ClearActivation: true})
	assert.Nil(t, merged.ActivationTime)

	// Cờ clear thắng field cùng tên trong patch
	newActivation := int64(1800000000000)
	merged = ApplyPatch(base, ContentPatch{ActivationTime: &newActivation, ClearActivation: true})
	assert.Nil(t, merged.ActivationTime)
}

func TestHasAsset(t *testing.T) {
	url := "https://cdn.example.com/a.jpg"
	empty := ""

	assert.True(t, (&ContentItem{AssetURL: &url}).HasAsset())
	assert.False(t, (&ContentItem{AssetURL: &empty}).HasAsset())
	assert.False(t, (&ContentItem{}).HasAsset())
}
