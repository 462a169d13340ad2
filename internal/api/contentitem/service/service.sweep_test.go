// Package contentitemsvc - Test logic chọn item cho sweep và dọn asset.
package contentitemsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentitemmodels "media_scheduler/internal/api/contentitem/models"
)

// countingReclaimer đếm các lần Delete để kiểm tra asset chỉ bị dọn đúng một lần
type countingReclaimer struct {
	keys []string
}

func (r *countingReclaimer) Delete(ctx context.Context, key string) error {
	r.keys = append(r.keys, key)
	return nil
}

func sweepItem(status contentitemmodels.Status, activation *int64, assetKey *string) contentitemmodels.ContentItem {
	return contentitemmodels.ContentItem{
		Status:         status,
		ActivationTime: activation,
		AssetKey:       assetKey,
	}
}

func TestExpiredForSweep(t *testing.T) {
	now := int64(1700000000000)
	past := now - 1
	future := now + 1
	key := "assets/a.jpg"
	emptyKey := ""

	cases := []struct {
		name string
		item contentitemmodels.ContentItem
		want bool
	}{
		{"scheduled quá hạn", sweepItem(contentitemmodels.StatusScheduled, &past, nil), true},
		{"scheduled quá hạn còn asset", sweepItem(contentitemmodels.StatusScheduled, &past, &key), true},
		{"scheduled chưa tới hạn", sweepItem(contentitemmodels.StatusScheduled, &future, &key), false},
		{"scheduled không có lịch", sweepItem(contentitemmodels.StatusScheduled, nil, nil), false},
		{"published quá hạn còn sót asset", sweepItem(contentitemmodels.StatusPublished, &past, &key), true},
		{"published đã archive sạch", sweepItem(contentitemmodels.StatusPublished, &past, nil), false},
		{"published với key rỗng", sweepItem(contentitemmodels.StatusPublished, &past, &emptyKey), false},
		{"draft quá hạn không bị quét", sweepItem(contentitemmodels.StatusDraft, &past, &key), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, expiredForSweep(tc.item, now))
		})
	}
}

func TestExpiredForSweep_RepeatIsNoop(t *testing.T) {
	now := int64(1700000000000)
	past := now - 1
	key := "assets/a.jpg"

	item := sweepItem(contentitemmodels.StatusScheduled, &past, &key)
	require.True(t, expiredForSweep(item, now))

	// Sau khi archive (published, asset đã dọn) thì lượt quét sau không đụng tới nữa
	item.Status = contentitemmodels.StatusPublished
	item.AssetKey = nil
	assert.False(t, expiredForSweep(item, now), "chạy sweep lần hai trên item đã archive phải là no-op")
	assert.False(t, expiredForSweep(item, now+3600000), "kể cả ở các thời điểm sau")
}

func TestReclaimAsset_DeletesExactlyOnce(t *testing.T) {
	reclaimer := &countingReclaimer{}
	svc := &ContentItemService{assets: reclaimer}

	now := int64(1700000000000)
	past := now - 1
	key := "assets/banner.jpg"

	item := sweepItem(contentitemmodels.StatusScheduled, &past, &key)
	require.True(t, needsAssetReclaim(item))

	svc.reclaimAsset(context.Background(), item)
	require.Equal(t, []string{"assets/banner.jpg"}, reclaimer.keys, "asset của item phải bị xóa đúng một lần với đúng key")

	// Bản đã archive không còn key: không gọi store thêm lần nào
	archived := sweepItem(contentitemmodels.StatusPublished, &past, nil)
	assert.False(t, needsAssetReclaim(archived))
	svc.reclaimAsset(context.Background(), archived)
	assert.Len(t, reclaimer.keys, 1)
}

func TestReclaimAsset_NoAssetNoCall(t *testing.T) {
	reclaimer := &countingReclaimer{}
	svc := &ContentItemService{assets: reclaimer}

	now := int64(1700000000000)
	past := now - 1

	svc.reclaimAsset(context.Background(), sweepItem(contentitemmodels.StatusScheduled, &past, nil))
	assert.Empty(t, reclaimer.keys, "item không có asset không được gọi store")
}
