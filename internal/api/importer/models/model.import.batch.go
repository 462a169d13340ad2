package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	contentitemmodels "media_scheduler/internal/api/contentitem/models"
)

// BatchStatus trạng thái của một batch import
const (
	BatchStatusPreview   = "preview"   // Đã parse, chờ xác nhận
	BatchStatusCommitted = "committed" // Đã ghi vào content_items
)

// ImportRow một dòng CSV đã được chuẩn hóa trong preview
type ImportRow struct {
	Body           string                      `json:"body" bson:"body"`                               // Nội dung bài đăng
	Targets        []contentitemmodels.Channel `json:"targets" bson:"targets"`                         // Các kênh đăng đã parse được
	ActivationTime *int64                      `json:"activationTime,omitempty" bson:"activationTime,omitempty"` // Thời điểm kích hoạt (null nếu date/time không parse được)
	Status         contentitemmodels.Status    `json:"status" bson:"status"`                           // draft hoặc scheduled
	ImageRef       string                      `json:"imageRef,omitempty" bson:"imageRef,omitempty"`   // Giá trị cột image gốc (URL hoặc filename)
	AssetURL       *string                     `json:"assetUrl,omitempty" bson:"assetUrl,omitempty"`   // Locator asset sau khi resolve
	AssetKey       *string                     `json:"assetKey,omitempty" bson:"assetKey,omitempty"`   // Object key (chỉ có với ảnh upload từ batch)
	Warnings       []string                    `json:"warnings,omitempty" bson:"warnings,omitempty"`   // Cảnh báo mức dòng
}

// ImportBatch một lượt import CSV (collection import_batches)
type ImportBatch struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của batch

	Status        string      `json:"status" bson:"status" index:"single:1"` // preview, committed
	Rows          []ImportRow `json:"rows" bson:"rows"`                      // Các dòng đã chuẩn hóa
	RowCount      int         `json:"rowCount" bson:"rowCount"`              // Số dòng nhận được (không tính header)
	DraftCount    int         `json:"draftCount" bson:"draftCount"`          // Số dòng thành draft
	ScheduledCount int        `json:"scheduledCount" bson:"scheduledCount"`  // Số dòng thành scheduled
	MissingImages int         `json:"missingImages" bson:"missingImages"`    // Số dòng có filename ảnh không khớp file nào
	Warnings      []string    `json:"warnings,omitempty" bson:"warnings,omitempty"` // Cảnh báo mức batch

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}
