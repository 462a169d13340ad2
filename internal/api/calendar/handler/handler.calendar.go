package calendarhdl

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "media_scheduler/internal/api/base/handler"
	calendarsvc "media_scheduler/internal/api/calendar/service"
	contentitemmodels "media_scheduler/internal/api/contentitem/models"
	"media_scheduler/internal/common"
	"media_scheduler/internal/utility"
)

// CalendarHandler xử lý các endpoint calendar
type CalendarHandler struct {
	*basehdl.BaseHandler[interface{}, interface{}, interface{}]
	CalendarService *calendarsvc.CalendarService
}

// NewCalendarHandler tạo mới CalendarHandler
func NewCalendarHandler() (*CalendarHandler, error) {
	service, err := calendarsvc.NewCalendarService()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %v", err)
	}
	return &CalendarHandler{
		BaseHandler:     &basehdl.BaseHandler[interface{}, interface{}, interface{}]{},
		CalendarService: service,
	}, nil
}

// RescheduleInput payload kéo-thả event sang thời điểm mới
type RescheduleInput struct {
	ActivationTime int64 `json:"activationTime" validate:"required,gt=0"`
}

// parseChannels đọc query "channels" (phân tách bằng dấu phẩy) thành tập kênh hợp lệ
func parseChannels(c fiber.Ctx) ([]contentitemmodels.Channel, error) {
	raw := c.Query("channels")
	if raw == "" {
		return nil, nil
	}

	var channels []contentitemmodels.Channel
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ch, ok := contentitemmodels.ParseChannel(strings.ToLower(part))
		if !ok {
			return nil, common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Kênh '%s' không được hỗ trợ", part),
				common.StatusBadRequest,
				map[string]interface{}{"supported": contentitemmodels.AllChannels},
			)
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// parseEventItemID lấy và validate ObjectID từ URI params
func parseEventItemID(c fiber.Ctx) (primitive.ObjectID, error) {
	id := c.Params("id")
	if id == "" || !primitive.IsValidObjectID(id) {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID", id),
			common.StatusBadRequest,
			nil,
		)
	}
	return utility.String2ObjectID(id), nil
}

// Events trả về các event calendar, lọc theo query "channels" nếu có
func (h *CalendarHandler) Events(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		channels, err := parseChannels(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		events, err := h.CalendarService.Events(c.Context(), channels)
		h.HandleResponse(c, events, err)
		return nil
	})
}

// Reschedule kéo-thả event: đổi activationTime, trả về event mới + giá trị cũ
func (h *CalendarHandler) Reschedule(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := parseEventItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input RescheduleInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.CalendarService.Reschedule(c.Context(), id, input.ActivationTime)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// Navigate di chuyển prev/next giữa các event. Query: from=<itemId>, direction=prev|next,
// channels=<tập lọc đang áp dụng>. Ở biên trả về event hiện tại với atBoundary=true.
func (h *CalendarHandler) Navigate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		from := c.Query("from")
		if from == "" || !primitive.IsValidObjectID(from) {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Query 'from' phải là MongoDB ObjectID, nhận được '%s'", from),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		direction := c.Query("direction")
		if direction != "prev" && direction != "next" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Query 'direction' phải là 'prev' hoặc 'next', nhận được '%s'", direction),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		channels, err := parseChannels(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.CalendarService.Navigate(c.Context(), utility.String2ObjectID(from), direction == "next", channels)
		h.HandleResponse(c, result, err)
		return nil
	})
}
