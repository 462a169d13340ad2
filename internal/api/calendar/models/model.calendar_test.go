// Package models - Test projection content item lên calendar và điều hướng prev/next.
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	contentitemmodels "media_scheduler/internal/api/contentitem/models"
)

func itemAt(id primitive.ObjectID, body string, status contentitemmodels.Status, activation int64, targets ...contentitemmodels.Channel) contentitemmodels.ContentItem {
	return contentitemmodels.ContentItem{
		ID:             id,
		Body:           body,
		Status:         status,
		ActivationTime: &activation,
		Targets:        targets,
	}
}

func TestProjectEvents(t *testing.T) {
	id1 := primitive.NewObjectID()
	id2 := primitive.NewObjectID()
	id3 := primitive.NewObjectID()

	items := []contentitemmodels.ContentItem{
		itemAt(id1, "Bài sáng", contentitemmodels.StatusScheduled, 1_000_000, contentitemmodels.ChannelFacebook),
		itemAt(id2, "Bài chiều", contentitemmodels.StatusPublished, 2_000_000, contentitemmodels.ChannelInstagram),
		// Draft không lên calendar dù có lịch
		itemAt(id3, "Nháp", contentitemmodels.StatusDraft, 3_000_000, contentitemmodels.ChannelFacebook),
		// Scheduled nhưng không có lịch cũng không lên calendar
		{ID: primitive.NewObjectID(), Body: "Không lịch", Status: contentitemmodels.StatusScheduled},
	}

	events := ProjectEvents(items, nil)
	require.Len(t, events, 2)

	assert.Equal(t, id1, events[0].ItemID)
	assert.Equal(t, "Bài sáng", events[0].Title)
	assert.Equal(t, int64(1_000_000), events[0].Start)
	assert.Equal(t, int64(1_000_000)+EventDurationMillis, events[0].End, "mỗi event chiếm đúng một khung 1 giờ")

	assert.Equal(t, id2, events[1].ItemID)
	assert.Equal(t, contentitemmodels.StatusPublished, events[1].Status)
}

func TestProjectEvents_ChannelFilter(t *testing.T) {
	id1 := primitive.NewObjectID()
	id2 := primitive.NewObjectID()

	items := []contentitemmodels.ContentItem{
		itemAt(id1, "FB + IG", contentitemmodels.StatusScheduled, 1_000_000, contentitemmodels.ChannelFacebook, contentitemmodels.ChannelInstagram),
		itemAt(id2, "Chỉ TikTok", contentitemmodels.StatusScheduled, 2_000_000, contentitemmodels.ChannelTikTok),
	}

	events := ProjectEvents(items, []contentitemmodels.Channel{contentitemmodels.ChannelInstagram})
	require.Len(t, events, 1)
	assert.Equal(t, id1, events[0].ItemID, "lọc kênh giữ item đăng lên ít nhất một kênh trong tập lọc")

	events = ProjectEvents(items, nil)
	assert.Len(t, events, 2, "tập lọc rỗng nghĩa là không lọc")
}

func TestProjectEvents_TitleTruncated(t *testing.T) {
	longBody := make([]rune, 0, 120)
	for i := 0; i < 120; i++ {
		longBody = append(longBody, 'ế')
	}

	items := []contentitemmodels.ContentItem{
		itemAt(primitive.NewObjectID(), string(longBody), contentitemmodels.StatusScheduled, 1_000_000, contentitemmodels.ChannelFacebook),
	}

	events := ProjectEvents(items, nil)
	require.Len(t, events, 1)
	runes := []rune(events[0].Title)
	assert.Len(t, runes, maxTitleRunes+1, "title cắt về %d ký tự cộng dấu ba chấm", maxTitleRunes)
	assert.Equal(t, '…', runes[len(runes)-1])
}

func TestNavigate(t *testing.T) {
	id1 := primitive.NewObjectID()
	id2 := primitive.NewObjectID()
	id3 := primitive.NewObjectID()

	items := []contentitemmodels.ContentItem{
		itemAt(id1, "Bài một", contentitemmodels.StatusScheduled, 1_000_000, contentitemmodels.ChannelFacebook),
		itemAt(id2, "Bài hai", contentitemmodels.StatusScheduled, 2_000_000, contentitemmodels.ChannelFacebook),
		itemAt(id3, "Bài ba", contentitemmodels.StatusScheduled, 3_000_000, contentitemmodels.ChannelFacebook),
	}

	// Next từ giữa danh sách
	result, ok := Navigate(items, nil, id2, true)
	require.True(t, ok)
	assert.False(t, result.AtBoundary)
	assert.Equal(t, id3, result.Event.ItemID)

	// Prev từ giữa danh sách
	result, ok = Navigate(items, nil, id2, false)
	require.True(t, ok)
	assert.False(t, result.AtBoundary)
	assert.Equal(t, id1, result.Event.ItemID)

	// Next ở cuối: đứng yên, bật cờ biên, không phải lỗi
	result, ok = Navigate(items, nil, id3, true)
	require.True(t, ok)
	assert.True(t, result.AtBoundary)
	assert.Equal(t, id3, result.Event.ItemID)

	// Prev ở đầu: tương tự
	result, ok = Navigate(items, nil, id1, false)
	require.True(t, ok)
	assert.True(t, result.AtBoundary)
	assert.Equal(t, id1, result.Event.ItemID)

	// ID không có trong danh sách
	_, ok = Navigate(items, nil, primitive.NewObjectID(), true)
	assert.False(t, ok)
}

func TestNavigate_IncludesDrafts(t *testing.T) {
	id1 := primitive.NewObjectID()
	idDraft := primitive.NewObjectID()
	id3 := primitive.NewObjectID()
	idNoSchedule := primitive.NewObjectID()

	// Thứ tự input = thứ tự store trả về: activationTime tăng dần, chưa có lịch xếp trước cùng
	items := []contentitemmodels.ContentItem{
		{ID: idNoSchedule, Body: "Nháp chưa có lịch", Status: contentitemmodels.StatusDraft},
		itemAt(id1, "Bài sáng", contentitemmodels.StatusScheduled, 1_000_000, contentitemmodels.ChannelFacebook),
		itemAt(idDraft, "Nháp giữa lịch", contentitemmodels.StatusDraft, 2_000_000, contentitemmodels.ChannelFacebook),
		itemAt(id3, "Bài chiều", contentitemmodels.StatusScheduled, 3_000_000, contentitemmodels.ChannelFacebook),
	}

	// Next từ bài đầu phải dừng ở draft nằm giữa, không nhảy cóc qua
	result, ok := Navigate(items, nil, id1, true)
	require.True(t, ok)
	assert.False(t, result.AtBoundary)
	assert.Equal(t, idDraft, result.Event.ItemID)
	assert.Equal(t, contentitemmodels.StatusDraft, result.Event.Status)

	// Draft cũng là điểm neo điều hướng được
	result, ok = Navigate(items, nil, idDraft, true)
	require.True(t, ok)
	assert.Equal(t, id3, result.Event.ItemID)

	// Item chưa có lịch xếp trước cùng: prev từ bài sớm nhất về nó
	result, ok = Navigate(items, nil, id1, false)
	require.True(t, ok)
	assert.False(t, result.AtBoundary)
	assert.Equal(t, idNoSchedule, result.Event.ItemID)
	assert.Equal(t, int64(0), result.Event.Start, "item chưa có lịch chiếu với start = 0")

	// Prev từ item chưa có lịch là biên đầu danh sách
	result, ok = Navigate(items, nil, idNoSchedule, false)
	require.True(t, ok)
	assert.True(t, result.AtBoundary)
	assert.Equal(t, idNoSchedule, result.Event.ItemID)
}

func TestNavigate_ChannelFilter(t *testing.T) {
	id1 := primitive.NewObjectID()
	id2 := primitive.NewObjectID()
	id3 := primitive.NewObjectID()

	items := []contentitemmodels.ContentItem{
		itemAt(id1, "FB sáng", contentitemmodels.StatusScheduled, 1_000_000, contentitemmodels.ChannelFacebook),
		itemAt(id2, "Chỉ TikTok", contentitemmodels.StatusScheduled, 2_000_000, contentitemmodels.ChannelTikTok),
		itemAt(id3, "FB chiều", contentitemmodels.StatusScheduled, 3_000_000, contentitemmodels.ChannelFacebook),
	}

	filter := []contentitemmodels.Channel{contentitemmodels.ChannelFacebook}

	// Item ngoài tập lọc không phải điểm neo và cũng không phải đích
	result, ok := Navigate(items, filter, id1, true)
	require.True(t, ok)
	assert.Equal(t, id3, result.Event.ItemID)

	_, ok = Navigate(items, filter, id2, true)
	assert.False(t, ok, "item ngoài tập lọc không điều hướng từ nó được")
}
