package calendarsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	calendarmodels "media_scheduler/internal/api/calendar/models"
	contentitemmodels "media_scheduler/internal/api/contentitem/models"
	contentitemsvc "media_scheduler/internal/api/contentitem/service"
	"media_scheduler/internal/common"
)

// CalendarService chiếu content items lên calendar và xử lý thao tác kéo-thả
type CalendarService struct {
	items *contentitemsvc.ContentItemService
}

// NewCalendarService tạo mới CalendarService
func NewCalendarService() (*CalendarService, error) {
	itemService, err := contentitemsvc.NewContentItemService()
	if err != nil {
		return nil, fmt.Errorf("failed to create content item service: %v", err)
	}
	return &CalendarService{items: itemService}, nil
}

// Events trả về các event calendar (item scheduled/published có lịch),
// lọc theo tập kênh nếu channels không rỗng, sort theo thời gian tăng dần.
func (s *CalendarService) Events(ctx context.Context, channels []contentitemmodels.Channel) ([]calendarmodels.CalendarEvent, error) {
	items, err := s.items.FindNonDraft(ctx, channels)
	if err != nil {
		return nil, err
	}
	return calendarmodels.ProjectEvents(items, channels), nil
}

// Reschedule xử lý kéo-thả event: chỉ đổi activationTime của item, trả về event
// mới cùng giá trị cũ để client rollback được khi thao tác sau đó thất bại.
type RescheduleResult struct {
	Event              calendarmodels.CalendarEvent `json:"event"`
	PreviousActivation *int64                       `json:"previousActivation"` // Giá trị cũ, dùng để rollback
}

func (s *CalendarService) Reschedule(ctx context.Context, id primitive.ObjectID, newActivation int64) (RescheduleResult, error) {
	var zero RescheduleResult

	updated, previous, err := s.items.Reschedule(ctx, id, newActivation)
	if err != nil {
		return zero, err
	}

	events := calendarmodels.ProjectEvents([]contentitemmodels.ContentItem{updated}, nil)
	if len(events) == 0 {
		// Không xảy ra với item scheduled có lịch, giữ nhánh phòng dữ liệu hỏng
		return zero, common.ErrNotFound
	}

	return RescheduleResult{Event: events[0], PreviousActivation: previous}, nil
}

// Navigate di chuyển prev/next theo thời gian qua TẤT CẢ item trong cùng tập lọc
// kênh, kể cả draft chưa lên calendar (item chưa có lịch xếp trước cùng).
// Ở biên thì trả về item hiện tại với cờ AtBoundary, không phải lỗi.
func (s *CalendarService) Navigate(ctx context.Context, currentID primitive.ObjectID, forward bool, channels []contentitemmodels.Channel) (calendarmodels.NavigationResult, error) {
	var zero calendarmodels.NavigationResult

	items, err := s.items.FindAllSortedByActivation(ctx, channels)
	if err != nil {
		return zero, err
	}

	result, ok := calendarmodels.Navigate(items, channels, currentID, forward)
	if !ok {
		return zero, common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Item '%s' không tồn tại trong bộ lọc hiện tại", currentID.Hex()),
			common.StatusNotFound,
			nil,
		)
	}
	return result, nil
}
