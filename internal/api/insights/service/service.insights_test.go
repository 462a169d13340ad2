// Package insightssvc - Test aggregate số liệu theo kênh với chia đều conversions.
package insightssvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentitemmodels "media_scheduler/internal/api/contentitem/models"
)

func metricsItem(status contentitemmodels.Status, metrics *contentitemmodels.ItemMetrics, targets ...contentitemmodels.Channel) contentitemmodels.ContentItem {
	return contentitemmodels.ContentItem{
		Status:  status,
		Metrics: metrics,
		Targets: targets,
	}
}

func findChannel(t *testing.T, aggs []ChannelAggregate, ch contentitemmodels.Channel) ChannelAggregate {
	t.Helper()
	for _, agg := range aggs {
		if agg.Channel == ch {
			return agg
		}
	}
	t.Fatalf("không tìm thấy aggregate cho kênh %s", ch)
	return ChannelAggregate{}
}

func TestAggregateByChannel_EvenSplitConversions(t *testing.T) {
	// 7 conversions chia cho 2 kênh: 4 cho kênh đứng trước, 3 cho kênh sau
	items := []contentitemmodels.ContentItem{
		metricsItem(contentitemmodels.StatusPublished,
			&contentitemmodels.ItemMetrics{Views: 100, Engagements: 10, Conversions: 7},
			contentitemmodels.ChannelFacebook, contentitemmodels.ChannelInstagram),
	}

	aggs := AggregateByChannel(items)
	require.Len(t, aggs, 2)

	fb := findChannel(t, aggs, contentitemmodels.ChannelFacebook)
	ig := findChannel(t, aggs, contentitemmodels.ChannelInstagram)

	assert.Equal(t, int64(4), fb.Conversions)
	assert.Equal(t, int64(3), ig.Conversions)
	assert.Equal(t, fb.Conversions+ig.Conversions, int64(7), "tổng sau khi chia phải bằng tổng gốc")

	// Views/engagements tính đủ cho từng kênh item đăng lên
	assert.Equal(t, int64(100), fb.Views)
	assert.Equal(t, int64(100), ig.Views)
	assert.Equal(t, int64(10), fb.Engagements)
}

func TestAggregateByChannel_SumsAcrossItems(t *testing.T) {
	items := []contentitemmodels.ContentItem{
		metricsItem(contentitemmodels.StatusPublished,
			&contentitemmodels.ItemMetrics{Views: 100, Conversions: 6},
			contentitemmodels.ChannelFacebook, contentitemmodels.ChannelInstagram, contentitemmodels.ChannelTikTok),
		metricsItem(contentitemmodels.StatusScheduled,
			&contentitemmodels.ItemMetrics{Views: 50, Conversions: 5},
			contentitemmodels.ChannelFacebook),
	}

	aggs := AggregateByChannel(items)
	require.Len(t, aggs, 3)

	fb := findChannel(t, aggs, contentitemmodels.ChannelFacebook)
	assert.Equal(t, int64(2+5), fb.Conversions, "6/3 từ item đầu cộng trọn 5 từ item sau")
	assert.Equal(t, int64(150), fb.Views)
	assert.Equal(t, 2, fb.ItemCount)

	tk := findChannel(t, aggs, contentitemmodels.ChannelTikTok)
	assert.Equal(t, int64(2), tk.Conversions)
	assert.Equal(t, 1, tk.ItemCount)
}

func TestAggregateByChannel_ExcludesDraftsAndMissingMetrics(t *testing.T) {
	items := []contentitemmodels.ContentItem{
		// Draft không bao giờ vào aggregate, kể cả khi có metrics
		metricsItem(contentitemmodels.StatusDraft,
			&contentitemmodels.ItemMetrics{Views: 999, Conversions: 999},
			contentitemmodels.ChannelFacebook),
		// Item chưa có metrics không đóng góp
		metricsItem(contentitemmodels.StatusPublished, nil, contentitemmodels.ChannelFacebook),
		metricsItem(contentitemmodels.StatusPublished,
			&contentitemmodels.ItemMetrics{Views: 10, Conversions: 1},
			contentitemmodels.ChannelFacebook),
	}

	aggs := AggregateByChannel(items)
	require.Len(t, aggs, 1)

	fb := aggs[0]
	assert.Equal(t, contentitemmodels.ChannelFacebook, fb.Channel)
	assert.Equal(t, int64(10), fb.Views)
	assert.Equal(t, int64(1), fb.Conversions)
	assert.Equal(t, 1, fb.ItemCount)
}

func TestAggregateByChannel_Empty(t *testing.T) {
	assert.Empty(t, AggregateByChannel(nil))
	assert.Empty(t, AggregateByChannel([]contentitemmodels.ContentItem{}))
}
