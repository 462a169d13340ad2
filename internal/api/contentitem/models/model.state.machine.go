package models

import (
	"fmt"

	"media_scheduler/internal/common"
)

// Bảng chuyển trạng thái hợp lệ của content item.
// scheduled → published chỉ dành cho sweep của reconciler, không mở qua API update.
var allowedTransitions = map[Status][]Status{
	StatusDraft:     {StatusScheduled},
	StatusScheduled: {StatusDraft, StatusPublished},
	StatusPublished: {},
}

// ValidateTransition kiểm tra việc chuyển từ trạng thái from sang to có hợp lệ không.
// Giữ nguyên trạng thái (from == to) luôn hợp lệ.
func ValidateTransition(from, to Status) error {
	if !from.IsValid() {
		return common.NewError(common.ErrCodeBusinessState, fmt.Sprintf("Trạng thái hiện tại '%s' không hợp lệ", from), common.StatusUnprocessable, nil)
	}
	if !to.IsValid() {
		return common.NewError(common.ErrCodeBusinessState, fmt.Sprintf("Trạng thái đích '%s' không hợp lệ", to), common.StatusUnprocessable, nil)
	}
	if from == to {
		return nil
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return common.NewError(
		common.ErrCodeBusinessState,
		fmt.Sprintf("Không thể chuyển trạng thái từ '%s' sang '%s'", from, to),
		common.StatusUnprocessable,
		map[string]interface{}{"from": from, "to": to},
	)
}

// ValidateForStatus kiểm tra item có thỏa mãn các ràng buộc của trạng thái hiện tại không.
// Trả về lỗi typed với field vi phạm trong Details, không ghi dữ liệu dở dang.
func ValidateForStatus(item *ContentItem) error {
	if !item.Status.IsValid() {
		return common.NewError(common.ErrCodeBusinessState, fmt.Sprintf("Trạng thái '%s' không hợp lệ", item.Status), common.StatusUnprocessable, map[string]interface{}{"field": "status"})
	}

	// Kênh đăng phải thuộc enum đóng
	for _, ch := range item.Targets {
		if !ch.IsValid() {
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Kênh '%s' không được hỗ trợ", ch),
				common.StatusBadRequest,
				map[string]interface{}{"field": "targets", "channel": ch},
			)
		}
	}

	// Body không được vượt giới hạn của bất kỳ kênh nào được chọn
	for _, ch := range item.Targets {
		if limit := ch.BodyLimit(); limit > 0 && len([]rune(item.Body)) > limit {
			return common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Nội dung vượt quá giới hạn %d ký tự của kênh %s", limit, ch),
				common.StatusBadRequest,
				map[string]interface{}{"field": "body", "channel": ch, "limit": limit},
			)
		}
	}

	// Draft không có ràng buộc thêm
	if item.Status == StatusDraft {
		return nil
	}

	// scheduled/published: phải có ít nhất một kênh
	if len(item.Targets) == 0 {
		return common.NewError(
			common.ErrCodeValidationInput,
			"Item đã lên lịch phải có ít nhất một kênh đăng",
			common.StatusBadRequest,
			map[string]interface{}{"field": "targets"},
		)
	}

	// scheduled: phải có thời điểm kích hoạt
	if item.Status == StatusScheduled && item.ActivationTime == nil {
		return common.NewError(
			common.ErrCodeValidationInput,
			"Item đã lên lịch phải có thời điểm kích hoạt",
			common.StatusBadRequest,
			map[string]interface{}{"field": "activationTime"},
		)
	}

	// scheduled: kênh media-first bắt buộc có asset
	if item.Status == StatusScheduled {
		for _, ch := range item.Targets {
			if ch.RequiresAsset() && !item.HasAsset() {
				return common.NewError(
					common.ErrCodeValidationInput,
					fmt.Sprintf("Kênh %s yêu cầu media asset khi lên lịch", ch),
					common.StatusBadRequest,
					map[string]interface{}{"field": "assetUrl", "channel": ch},
				)
			}
		}
	}

	// published: asset đã phải được dọn khi archive
	if item.Status == StatusPublished && (item.HasAsset() || (item.AssetKey != nil && *item.AssetKey != "")) {
		return common.NewError(
			common.ErrCodeBusinessState,
			"Item đã published không được giữ asset",
			common.StatusUnprocessable,
			map[string]interface{}{"field": "assetUrl"},
		)
	}

	return nil
}
