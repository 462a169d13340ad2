package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status định nghĩa trạng thái vòng đời của một content item (enum đóng)
type Status string

const (
	StatusDraft     Status = "draft"     // Bản nháp, chưa có lịch đăng
	StatusScheduled Status = "scheduled" // Đã lên lịch, chờ đến thời điểm kích hoạt
	StatusPublished Status = "published" // Đã đăng (archive)
)

// AllStatuses danh sách các trạng thái hợp lệ
var AllStatuses = []Status{StatusDraft, StatusScheduled, StatusPublished}

// IsValid kiểm tra status có thuộc enum không
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished:
		return true
	}
	return false
}

// ParseStatus chuyển string thành Status, trả về false nếu không hợp lệ
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	return s, s.IsValid()
}

// Channel định nghĩa kênh đăng bài (enum đóng)
type Channel string

const (
	ChannelFacebook  Channel = "facebook"
	ChannelInstagram Channel = "instagram"
	ChannelTikTok    Channel = "tiktok"
)

// AllChannels danh sách các kênh hợp lệ
var AllChannels = []Channel{ChannelFacebook, ChannelInstagram, ChannelTikTok}

// IsValid kiểm tra channel có thuộc enum không
func (ch Channel) IsValid() bool {
	switch ch {
	case ChannelFacebook, ChannelInstagram, ChannelTikTok:
		return true
	}
	return false
}

// ParseChannel chuyển string thành Channel, trả về false nếu không hợp lệ
func ParseChannel(raw string) (Channel, bool) {
	ch := Channel(raw)
	return ch, ch.IsValid()
}

// RequiresAsset cho biết kênh có bắt buộc phải có media asset khi lên lịch không.
// Instagram và TikTok là nền tảng media-first, không đăng được bài chỉ có text.
func (ch Channel) RequiresAsset() bool {
	return ch == ChannelInstagram || ch == ChannelTikTok
}

// BodyLimit trả về độ dài body tối đa (số ký tự) cho phép trên kênh
func (ch Channel) BodyLimit() int {
	switch ch {
	case ChannelFacebook:
		return 63206
	case ChannelInstagram:
		return 2200
	case ChannelTikTok:
		return 2200
	}
	return 0
}

// ItemMetrics chứa số liệu hiệu quả của một item sau khi đăng
type ItemMetrics struct {
	Views       int64 `json:"views" bson:"views"`             // Lượt xem
	Engagements int64 `json:"engagements" bson:"engagements"` // Lượt tương tác
	Conversions int64 `json:"conversions" bson:"conversions"` // Lượt chuyển đổi
}

// ContentItem đại diện cho một bài đăng trong lịch nội dung
type ContentItem struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của content item

	// ===== NỘI DUNG =====
	Body    string    `json:"body" bson:"body"`                          // Nội dung bài đăng
	Targets []Channel `json:"targets" bson:"targets" index:"single:1"`   // Các kênh đăng: facebook, instagram, tiktok

	// ===== LỊCH ĐĂNG =====
	ActivationTime *int64 `json:"activationTime,omitempty" bson:"activationTime" index:"single:1;compound:status_activation"` // Thời điểm kích hoạt (UnixMilli, null với draft)

	// ===== TRẠNG THÁI =====
	Status Status `json:"status" bson:"status" index:"single:1;compound:status_activation"` // Trạng thái: draft, scheduled, published

	// ===== MEDIA ASSET =====
	AssetURL *string `json:"assetUrl,omitempty" bson:"assetUrl,omitempty"`                        // Locator công khai của asset
	AssetKey *string `json:"assetKey,omitempty" bson:"assetKey,omitempty" index:"unique,sparse"`  // Object key trong store (dùng khi xóa)

	// ===== SỐ LIỆU =====
	Metrics *ItemMetrics `json:"metrics,omitempty" bson:"metrics,omitempty"` // Số liệu hiệu quả (chỉ có với item không phải draft)

	// ===== NGUỒN GỐC =====
	ImportBatchID *primitive.ObjectID `json:"importBatchId,omitempty" bson:"importBatchId,omitempty" index:"single:1"` // ID của batch import tạo ra item (nếu có)

	// ===== METADATA =====
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}

// ContentPatch mô tả thay đổi một phần lên content item. Field zero-value nghĩa là
// giữ nguyên; hai cờ Clear/Detach dùng khi cần XÓA hẳn giá trị (khác với "không đổi").
type ContentPatch struct {
	Body            string
	Targets         []Channel
	ActivationTime  *int64
	AssetURL        *string
	AssetKey        *string
	ClearActivation bool // Xóa thời điểm kích hoạt
	DetachAsset     bool // Gỡ asset khỏi item (assetUrl + assetKey về null)
}

// ApplyPatch áp patch lên một bản sao của item và trả về kết quả, không sửa item gốc.
// Cờ Clear/Detach được áp sau cùng nên thắng các field cùng tên trong patch.
func ApplyPatch(item ContentItem, patch ContentPatch) ContentItem {
	merged := item
	if patch.Body != "" {
		merged.Body = patch.Body
	}
	if patch.Targets != nil {
		merged.Targets = patch.Targets
	}
	if patch.ActivationTime != nil {
		merged.ActivationTime = patch.ActivationTime
	}
	if patch.AssetURL != nil {
		merged.AssetURL = patch.AssetURL
	}
	if patch.AssetKey != nil {
		merged.AssetKey = patch.AssetKey
	}
	if patch.ClearActivation {
		merged.ActivationTime = nil
	}
	if patch.DetachAsset {
		merged.AssetURL = nil
		merged.AssetKey = nil
	}
	return merged
}

// HasAsset kiểm tra item có asset đính kèm không
func (item *ContentItem) HasAsset() bool {
	return item.AssetURL != nil && *item.AssetURL != ""
}

// IsExpired kiểm tra item đã quá thời điểm kích hoạt so với now (UnixMilli) chưa.
// Item không có activation time không bao giờ expired.
func (item *ContentItem) IsExpired(now int64) bool {
	return item.ActivationTime != nil && *item.ActivationTime < now
}
