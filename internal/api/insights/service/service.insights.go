package insightssvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "media_scheduler/internal/api/base/service"
	contentitemmodels "media_scheduler/internal/api/contentitem/models"
	contentitemsvc "media_scheduler/internal/api/contentitem/service"
	"media_scheduler/internal/common"
	"media_scheduler/internal/logger"
)

// InsightsService overlay số liệu từ analytics source lên content items
// và tính aggregate theo kênh cho dashboard
type InsightsService struct {
	items   *contentitemsvc.ContentItemService
	fetcher Fetcher
}

// NewInsightsService tạo mới InsightsService. Fetcher nil = analytics source chưa cấu hình.
func NewInsightsService(fetcher Fetcher) (*InsightsService, error) {
	itemService, err := contentitemsvc.NewContentItemService()
	if err != nil {
		return nil, fmt.Errorf("failed to create content item service: %v", err)
	}
	return &InsightsService{items: itemService, fetcher: fetcher}, nil
}

// ChannelAggregate số liệu gộp của một kênh
type ChannelAggregate struct {
	Channel     contentitemmodels.Channel `json:"channel"`
	Views       int64                     `json:"views"`
	Engagements int64                     `json:"engagements"`
	Conversions int64                     `json:"conversions"`
	ItemCount   int                       `json:"itemCount"` // Số item đóng góp vào kênh này
}

// MergeReport kết quả một lượt merge số liệu
type MergeReport struct {
	ItemsRequested int                `json:"itemsRequested"` // Số item non-draft đã hỏi analytics source
	ItemsMatched   int                `json:"itemsMatched"`   // Số item source có số liệu
	Channels       []ChannelAggregate `json:"channels"`       // Aggregate theo kênh
}

// AggregateByChannel gộp số liệu theo kênh trên tập item đã có metrics.
// Source không trả breakdown theo kênh nên:
// - views/engagements của item được tính đủ cho từng kênh item đăng lên
// - conversions được chia đều cho các kênh của item, phần dư dồn về các kênh đứng trước
// Kết quả sort theo thứ tự kênh trong AllChannels, chỉ gồm kênh có item đóng góp.
func AggregateByChannel(items []contentitemmodels.ContentItem) []ChannelAggregate {
	byChannel := make(map[contentitemmodels.Channel]*ChannelAggregate)

	for i := range items {
		item := &items[i]
		if item.Status == contentitemmodels.StatusDraft || item.Metrics == nil || len(item.Targets) == 0 {
			continue
		}

		n := int64(len(item.Targets))
		share := item.Metrics.Conversions / n
		remainder := item.Metrics.Conversions % n

		for j, ch := range item.Targets {
			agg, ok := byChannel[ch]
			if !ok {
				agg = &ChannelAggregate{Channel: ch}
				byChannel[ch] = agg
			}

			agg.Views += item.Metrics.Views
			agg.Engagements += item.Metrics.Engagements
			agg.Conversions += share
			if int64(j) < remainder {
				agg.Conversions++
			}
			agg.ItemCount++
		}
	}

	result := make([]ChannelAggregate, 0, len(byChannel))
	for _, ch := range contentitemmodels.AllChannels {
		if agg, ok := byChannel[ch]; ok {
			result = append(result, *agg)
		}
	}
	return result
}

// Merge lấy số liệu batch cho toàn bộ item non-draft, overlay lên document của
// từng item rồi trả về aggregate theo kênh. Item draft không bao giờ được hỏi.
func (s *InsightsService) Merge(ctx context.Context) (MergeReport, error) {
	var zero MergeReport

	if s.fetcher == nil {
		return zero, common.NewError(
			common.ErrCodeMetricsFetch,
			"Analytics source chưa được cấu hình",
			common.StatusUnprocessable,
			nil,
		)
	}

	items, err := s.items.FindNonDraft(ctx, nil)
	if err != nil {
		return zero, err
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}

	fetched, err := s.fetcher.FetchMetrics(ctx, ids)
	if err != nil {
		return zero, err
	}

	matched := 0
	for i := range items {
		metrics, ok := fetched[items[i].ID]
		if !ok {
			continue
		}
		matched++
		items[i].Metrics = &metrics

		// Lỗi ghi snapshot của từng item không chặn cả lượt merge
		update := &basesvc.UpdateData{Set: map[string]interface{}{
			"metrics": metrics,
		}}
		if _, err := s.items.UpdateById(ctx, items[i].ID, update); err != nil {
			logger.GetErrorLogger().WithFields(map[string]interface{}{
				"itemId": items[i].ID.Hex(),
				"error":  err.Error(),
			}).Error("Merge: không ghi được snapshot số liệu")
		}
	}

	return MergeReport{
		ItemsRequested: len(ids),
		ItemsMatched:   matched,
		Channels:       AggregateByChannel(items),
	}, nil
}

// Aggregate tính aggregate theo kênh từ snapshot đã lưu, không gọi analytics source.
func (s *InsightsService) Aggregate(ctx context.Context) ([]ChannelAggregate, error) {
	items, err := s.items.FindNonDraft(ctx, nil)
	if err != nil {
		return nil, err
	}
	return AggregateByChannel(items), nil
}
