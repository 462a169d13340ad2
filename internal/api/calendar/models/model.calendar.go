package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	contentitemmodels "media_scheduler/internal/api/contentitem/models"
)

// Mỗi event trên calendar chiếm đúng một khung 1 giờ
const EventDurationMillis = int64(60 * 60 * 1000)

// Độ dài tối đa của title event (rune), phần thừa bị cắt kèm dấu "…"
const maxTitleRunes = 80

// CalendarEvent là hình chiếu của một content item lên calendar
type CalendarEvent struct {
	ItemID   primitive.ObjectID          `json:"itemId"`   // ID của content item gốc
	Title    string                      `json:"title"`    // Body rút gọn làm tiêu đề
	Start    int64                       `json:"start"`    // Thời điểm kích hoạt (millis)
	End      int64                       `json:"end"`      // Start + 1 giờ
	Channels []contentitemmodels.Channel `json:"channels"` // Các kênh đăng
	Status   contentitemmodels.Status    `json:"status"`   // scheduled hoặc published
}

// NavigationResult kết quả điều hướng prev/next giữa các item
type NavigationResult struct {
	Event      CalendarEvent `json:"event"`      // Item đích chiếu thành event (giữ nguyên item hiện tại nếu ở biên)
	AtBoundary bool          `json:"atBoundary"` // true nếu đã ở item đầu/cuối, không di chuyển được
}

// eventTitle rút gọn body thành tiêu đề event
func eventTitle(body string) string {
	runes := []rune(body)
	if len(runes) <= maxTitleRunes {
		return body
	}
	return string(runes[:maxTitleRunes]) + "…"
}

// matchesChannels kiểm tra item có đăng lên ít nhất một kênh trong tập lọc không.
// Tập lọc rỗng nghĩa là không lọc.
func matchesChannels(item *contentitemmodels.ContentItem, channels []contentitemmodels.Channel) bool {
	if len(channels) == 0 {
		return true
	}
	for _, want := range channels {
		for _, have := range item.Targets {
			if want == have {
				return true
			}
		}
	}
	return false
}

// ProjectEvents chiếu danh sách content item lên calendar:
// - Item draft hoặc không có thời điểm kích hoạt không lên calendar
// - Lọc theo tập kênh nếu channels không rỗng
// Thứ tự giữ nguyên theo input (caller đã sort theo activationTime).
func ProjectEvents(items []contentitemmodels.ContentItem, channels []contentitemmodels.Channel) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(items))
	for i := range items {
		item := &items[i]
		if item.Status == contentitemmodels.StatusDraft || item.ActivationTime == nil {
			continue
		}
		if !matchesChannels(item, channels) {
			continue
		}
		start := *item.ActivationTime
		events = append(events, CalendarEvent{
			ItemID:   item.ID,
			Title:    eventTitle(item.Body),
			Start:    start,
			End:      start + EventDurationMillis,
			Channels: item.Targets,
			Status:   item.Status,
		})
	}
	return events
}

// navigationEvent chiếu một item thành event cho kết quả điều hướng.
// Khác với ProjectEvents, item draft hay chưa có lịch vẫn chiếu được: item chưa
// có lịch lấy Start = 0 (xếp trước cùng, khớp thứ tự sort của store).
func navigationEvent(item *contentitemmodels.ContentItem) CalendarEvent {
	start := int64(0)
	if item.ActivationTime != nil {
		start = *item.ActivationTime
	}
	return CalendarEvent{
		ItemID:   item.ID,
		Title:    eventTitle(item.Body),
		Start:    start,
		End:      start + EventDurationMillis,
		Channels: item.Targets,
		Status:   item.Status,
	}
}

// Navigate di chuyển từ item hiện tại sang item liền trước/liền sau. Điều hướng đi
// qua TẤT CẢ item trong tập lọc kênh, kể cả draft chưa lên calendar; items phải đã
// sort theo activationTime tăng dần với item chưa có lịch xếp trước cùng.
// Ở biên (item đầu khi prev, item cuối khi next) thì đứng yên và bật cờ AtBoundary,
// không phải lỗi. Trả về ok=false nếu currentID không có trong danh sách.
func Navigate(items []contentitemmodels.ContentItem, channels []contentitemmodels.Channel, currentID primitive.ObjectID, forward bool) (NavigationResult, bool) {
	anchors := make([]*contentitemmodels.ContentItem, 0, len(items))
	for i := range items {
		if !matchesChannels(&items[i], channels) {
			continue
		}
		anchors = append(anchors, &items[i])
	}

	idx := -1
	for i := range anchors {
		if anchors[i].ID == currentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return NavigationResult{}, false
	}

	target := idx
	if forward {
		target++
	} else {
		target--
	}

	if target < 0 || target >= len(anchors) {
		return NavigationResult{Event: navigationEvent(anchors[idx]), AtBoundary: true}, true
	}
	return NavigationResult{Event: navigationEvent(anchors[target]), AtBoundary: false}, true
}
