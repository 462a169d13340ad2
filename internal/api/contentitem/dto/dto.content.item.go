package contentitemdto

// ContentItemCreateInput dữ liệu đầu vào khi tạo content item
type ContentItemCreateInput struct {
	Body           string   `json:"body" validate:"required,no_xss"`
	Targets        []string `json:"targets" validate:"omitempty,dive,oneof=facebook instagram tiktok"`
	ActivationTime *int64   `json:"activationTime,omitempty"`
	Status         string   `json:"status,omitempty" validate:"omitempty,oneof=draft scheduled"`
	AssetURL       *string  `json:"assetUrl,omitempty"`
	AssetKey       *string  `json:"assetKey,omitempty"`
}

// ContentItemUpdateInput dữ liệu đầu vào khi cập nhật content item.
// Field bỏ trống nghĩa là giữ nguyên; dùng hai cờ clear/detach khi cần xóa hẳn giá trị.
type ContentItemUpdateInput struct {
	Body            string   `json:"body,omitempty" validate:"omitempty,no_xss"`
	Targets         []string `json:"targets,omitempty" validate:"omitempty,dive,oneof=facebook instagram tiktok"`
	ActivationTime  *int64   `json:"activationTime,omitempty"`
	AssetURL        *string  `json:"assetUrl,omitempty"`
	AssetKey        *string  `json:"assetKey,omitempty"`
	ClearActivation bool     `json:"clearActivation,omitempty"` // Xóa thời điểm kích hoạt
	DetachAsset     bool     `json:"detachAsset,omitempty"`     // Gỡ và dọn asset của item
}

// RescheduleInput dữ liệu đầu vào khi đổi lịch một item (chỉ đổi activationTime)
type RescheduleInput struct {
	ActivationTime int64 `json:"activationTime" validate:"required"`
}

// BatchDeleteInput danh sách ID cần xóa hàng loạt
type BatchDeleteInput struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// ContentItemIDParams params từ URL chứa ID của item
type ContentItemIDParams struct {
	ID string `uri:"id" validate:"required"`
}
