package insightshdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "media_scheduler/internal/api/base/handler"
	insightssvc "media_scheduler/internal/api/insights/service"
)

// InsightsHandler xử lý các endpoint số liệu
type InsightsHandler struct {
	*basehdl.BaseHandler[interface{}, interface{}, interface{}]
	InsightsService *insightssvc.InsightsService
}

// NewInsightsHandler tạo mới InsightsHandler
func NewInsightsHandler(fetcher insightssvc.Fetcher) (*InsightsHandler, error) {
	service, err := insightssvc.NewInsightsService(fetcher)
	if err != nil {
		return nil, fmt.Errorf("failed to create insights service: %v", err)
	}
	return &InsightsHandler{
		BaseHandler:     &basehdl.BaseHandler[interface{}, interface{}, interface{}]{},
		InsightsService: service,
	}, nil
}

// Merge lấy số liệu mới từ analytics source, overlay lên items và trả về aggregate
func (h *InsightsHandler) Merge(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		report, err := h.InsightsService.Merge(c.Context())
		h.HandleResponse(c, report, err)
		return nil
	})
}

// Aggregate trả về aggregate theo kênh từ snapshot đã lưu
func (h *InsightsHandler) Aggregate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		channels, err := h.InsightsService.Aggregate(c.Context())
		h.HandleResponse(c, channels, err)
		return nil
	})
}
