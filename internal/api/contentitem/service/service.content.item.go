package contentitemsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "media_scheduler/internal/api/base/service"
	contentitemmodels "media_scheduler/internal/api/contentitem/models"
	"media_scheduler/internal/common"
	"media_scheduler/internal/global"
	"media_scheduler/internal/logger"
)

// AssetReclaimer xóa asset khỏi object store theo key. Xóa key không tồn tại không phải lỗi.
type AssetReclaimer interface {
	Delete(ctx context.Context, key string) error
}

// defaultAssetReclaimer được set một lần lúc bootstrap (cmd/server) để các service
// tạo qua NewContentItemService() dùng chung một store.
var defaultAssetReclaimer AssetReclaimer

// SetDefaultAssetReclaimer đăng ký asset store dùng cho cascade delete và sweep
func SetDefaultAssetReclaimer(r AssetReclaimer) {
	defaultAssetReclaimer = r
}

// ContentItemService là service quản lý content items và vòng đời của chúng
type ContentItemService struct {
	*basesvc.BaseServiceMongoImpl[contentitemmodels.ContentItem]
	assets AssetReclaimer
}

// NewContentItemService tạo mới ContentItemService
func NewContentItemService() (*ContentItemService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ContentItems)
	if !exist {
		return nil, fmt.Errorf("failed to get content_items collection: %v", common.ErrNotFound)
	}
	return &ContentItemService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[contentitemmodels.ContentItem](collection),
		assets:               defaultAssetReclaimer,
	}, nil
}

// Create tạo mới một content item sau khi validate qua state machine.
// Status mặc định là draft nếu không chỉ định.
func (s *ContentItemService) Create(ctx context.Context, item contentitemmodels.ContentItem) (contentitemmodels.ContentItem, error) {
	var zero contentitemmodels.ContentItem

	if item.Status == "" {
		item.Status = contentitemmodels.StatusDraft
	}
	if err := contentitemmodels.ValidateForStatus(&item); err != nil {
		return zero, err
	}

	return s.InsertOne(ctx, item)
}

// UpdateContent cập nhật nội dung một item (body, targets, activation time, asset).
// Item published là lịch sử, không chỉnh sửa được. Trạng thái kết quả phải vẫn
// thỏa mãn state machine, nếu không thì không ghi gì cả. Patch gỡ asset thì asset
// cũ cũng được dọn khỏi store.
func (s *ContentItemService) UpdateContent(ctx context.Context, id primitive.ObjectID, patch contentitemmodels.ContentPatch) (contentitemmodels.ContentItem, error) {
	var zero contentitemmodels.ContentItem

	current, err := s.FindOneById(ctx, id)
	if err != nil {
		return zero, err
	}

	if current.Status == contentitemmodels.StatusPublished {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			"Item đã published là lịch sử, không chỉnh sửa được",
			common.StatusUnprocessable,
			map[string]interface{}{"status": current.Status},
		)
	}

	merged := contentitemmodels.ApplyPatch(current, patch)
	if err := contentitemmodels.ValidateForStatus(&merged); err != nil {
		return zero, err
	}

	set := map[string]interface{}{
		"body":    merged.Body,
		"targets": merged.Targets,
	}
	unset := map[string]interface{}{}
	if merged.ActivationTime != nil {
		set["activationTime"] = merged.ActivationTime
	} else {
		unset["activationTime"] = ""
	}
	if merged.AssetURL != nil {
		set["assetUrl"] = merged.AssetURL
	} else {
		unset["assetUrl"] = ""
	}
	if merged.AssetKey != nil {
		set["assetKey"] = merged.AssetKey
	} else {
		unset["assetKey"] = ""
	}

	update := &basesvc.UpdateData{Set: set}
	if len(unset) > 0 {
		update.Unset = unset
	}

	updated, err := s.UpdateById(ctx, id, update)
	if err != nil {
		return zero, err
	}

	if patch.DetachAsset {
		s.reclaimAsset(ctx, current)
	}
	return updated, nil
}

// Reschedule đổi thời điểm kích hoạt của một item, KHÔNG đổi bất kỳ field nào khác.
// Chỉ áp dụng cho item scheduled (thao tác kéo-thả trên calendar).
// Trả về giá trị activationTime trước đó để caller rollback được khi cần.
func (s *ContentItemService) Reschedule(ctx context.Context, id primitive.ObjectID, newActivation int64) (contentitemmodels.ContentItem, *int64, error) {
	var zero contentitemmodels.ContentItem

	current, err := s.FindOneById(ctx, id)
	if err != nil {
		return zero, nil, err
	}

	if current.Status != contentitemmodels.StatusScheduled {
		return zero, nil, common.NewError(
			common.ErrCodeBusinessOperation,
			fmt.Sprintf("Chỉ đổi lịch được item đang ở trạng thái scheduled, item hiện tại là '%s'", current.Status),
			common.StatusUnprocessable,
			map[string]interface{}{"status": current.Status},
		)
	}

	previous := current.ActivationTime

	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"activationTime": newActivation,
	}}
	updated, err := s.UpdateById(ctx, id, update)
	if err != nil {
		return zero, nil, err
	}

	return updated, previous, nil
}

// Toggle chuyển trạng thái draft↔scheduled với validate đầy đủ.
// Item published không toggle được.
func (s *ContentItemService) Toggle(ctx context.Context, id primitive.ObjectID) (contentitemmodels.ContentItem, error) {
	var zero contentitemmodels.ContentItem

	current, err := s.FindOneById(ctx, id)
	if err != nil {
		return zero, err
	}

	var next contentitemmodels.Status
	switch current.Status {
	case contentitemmodels.StatusDraft:
		next = contentitemmodels.StatusScheduled
	case contentitemmodels.StatusScheduled:
		next = contentitemmodels.StatusDraft
	default:
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			"Item đã published không chuyển lại trạng thái được",
			common.StatusUnprocessable,
			map[string]interface{}{"status": current.Status},
		)
	}

	if err := contentitemmodels.ValidateTransition(current.Status, next); err != nil {
		return zero, err
	}

	candidate := current
	candidate.Status = next
	if err := contentitemmodels.ValidateForStatus(&candidate); err != nil {
		return zero, err
	}

	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"status": next,
	}}
	return s.UpdateById(ctx, id, update)
}

// Duplicate nhân bản một item thành draft mới: copy body/targets/asset reference,
// xóa lịch và số liệu.
func (s *ContentItemService) Duplicate(ctx context.Context, id primitive.ObjectID) (contentitemmodels.ContentItem, error) {
	var zero contentitemmodels.ContentItem

	source, err := s.FindOneById(ctx, id)
	if err != nil {
		return zero, err
	}

	copyItem := contentitemmodels.ContentItem{
		Body:     source.Body,
		Targets:  source.Targets,
		Status:   contentitemmodels.StatusDraft,
		AssetURL: source.AssetURL,
		AssetKey: nil, // Không copy key: asset gốc thuộc item gốc, tránh double-delete
	}

	return s.InsertOne(ctx, copyItem)
}

// DeleteWithAsset xóa một item và dọn asset của nó khỏi store.
// Asset không tồn tại trong store không phải lỗi (idempotent).
func (s *ContentItemService) DeleteWithAsset(ctx context.Context, id primitive.ObjectID) error {
	current, err := s.FindOneById(ctx, id)
	if err != nil {
		return err
	}

	if err := s.DeleteById(ctx, id); err != nil {
		return err
	}

	s.reclaimAsset(ctx, current)
	return nil
}

// DeleteManyWithAssets xóa hàng loạt item theo danh sách ID, dọn asset từng item.
// Trả về số item đã xóa; lỗi dọn asset không chặn việc xóa.
func (s *ContentItemService) DeleteManyWithAssets(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	items, err := s.FindManyByIds(ctx, ids)
	if err != nil {
		return 0, err
	}

	count, err := s.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}

	for i := range items {
		s.reclaimAsset(ctx, items[i])
	}

	return count, nil
}

// needsAssetReclaim báo item có còn asset trong store cần dọn không
func needsAssetReclaim(item contentitemmodels.ContentItem) bool {
	return item.AssetKey != nil && *item.AssetKey != ""
}

// reclaimAsset xóa asset của item khỏi store nếu có. Lỗi chỉ log, không propagate.
func (s *ContentItemService) reclaimAsset(ctx context.Context, item contentitemmodels.ContentItem) {
	if s.assets == nil || !needsAssetReclaim(item) {
		return
	}
	if err := s.assets.Delete(ctx, *item.AssetKey); err != nil {
		logger.GetErrorLogger().WithFields(map[string]interface{}{
			"itemId":   item.ID.Hex(),
			"assetKey": *item.AssetKey,
			"error":    err.Error(),
		}).Error("Không xóa được asset khỏi store")
	}
}

// SweepResult kết quả một lượt sweep của reconciler
type SweepResult struct {
	Published     int `json:"published"`     // Số item đã chuyển sang published
	AssetFailures int `json:"assetFailures"` // Số asset không dọn được
}

// expiredForSweep báo item có thuộc diện sweep tại thời điểm now không:
// scheduled quá hạn, hoặc published quá hạn vẫn còn giữ asset (dọn sót từ lượt trước).
// Item đã archive sạch không bao giờ khớp, nên chạy sweep lặp lại là no-op.
func expiredForSweep(item contentitemmodels.ContentItem, now int64) bool {
	if !item.IsExpired(now) {
		return false
	}
	switch item.Status {
	case contentitemmodels.StatusScheduled:
		return true
	case contentitemmodels.StatusPublished:
		return needsAssetReclaim(item)
	}
	return false
}

// expiredSweepFilter là bản Mongo của expiredForSweep, dùng để query tập quét
func expiredSweepFilter(now int64) bson.M {
	return bson.M{
		"activationTime": bson.M{"$lt": now},
		"$or": []bson.M{
			{"status": contentitemmodels.StatusScheduled},
			{"status": contentitemmodels.StatusPublished, "assetKey": bson.M{"$exists": true, "$nin": []interface{}{nil, ""}}},
		},
	}
}

// SweepExpired quét các item đã quá thời điểm kích hoạt và archive chúng:
// status=published, xóa asset fields, rồi dọn asset khỏi store. Item published
// còn sót asset (lượt trước dọn hỏng) cũng được quét lại.
// Ghi DB trước, dọn store sau; lỗi từng item được cô lập, chạy lại an toàn.
func (s *ContentItemService) SweepExpired(ctx context.Context, now int64) (SweepResult, error) {
	result := SweepResult{}

	expired, err := s.Find(ctx, expiredSweepFilter(now), nil)
	if err != nil {
		return result, err
	}

	for i := range expired {
		item := expired[i]
		if !expiredForSweep(item, now) {
			continue
		}

		update := &basesvc.UpdateData{
			Set: map[string]interface{}{
				"status": contentitemmodels.StatusPublished,
			},
			Unset: map[string]interface{}{
				"assetUrl": "",
				"assetKey": "",
			},
		}
		if _, err := s.UpdateById(ctx, item.ID, update); err != nil {
			// Item có thể vừa bị xóa/sửa bởi request khác, bỏ qua và đi tiếp
			logger.GetErrorLogger().WithFields(map[string]interface{}{
				"itemId": item.ID.Hex(),
				"error":  err.Error(),
			}).Error("Sweep: không archive được item")
			continue
		}
		if item.Status == contentitemmodels.StatusScheduled {
			result.Published++
		}

		if s.assets != nil && needsAssetReclaim(item) {
			if err := s.assets.Delete(ctx, *item.AssetKey); err != nil {
				result.AssetFailures++
				logger.GetErrorLogger().WithFields(map[string]interface{}{
					"itemId":   item.ID.Hex(),
					"assetKey": *item.AssetKey,
					"error":    err.Error(),
				}).Error("Sweep: không dọn được asset")
			}
		}
	}

	return result, nil
}

// NextUpcoming tìm item scheduled có thời điểm kích hoạt sớm nhất kể từ now.
// Trả về common.ErrNotFound nếu không còn item nào sắp đăng.
func (s *ContentItemService) NextUpcoming(ctx context.Context, now int64) (contentitemmodels.ContentItem, error) {
	filter := bson.M{
		"status":         contentitemmodels.StatusScheduled,
		"activationTime": bson.M{"$gte": now},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "activationTime", Value: 1}})
	return s.FindOne(ctx, filter, opts)
}

// FindAllSortedByActivation lấy TOÀN BỘ item, kể cả draft, theo activationTime
// tăng dần; item chưa có lịch xếp trước cùng (Mongo sort field thiếu lên đầu).
// Dùng cho điều hướng prev/next trên calendar, vốn đi qua cả item chưa lên lịch.
func (s *ContentItemService) FindAllSortedByActivation(ctx context.Context, channels []contentitemmodels.Channel) ([]contentitemmodels.ContentItem, error) {
	filter := bson.M{}
	if len(channels) > 0 {
		filter["targets"] = bson.M{"$in": channels}
	}
	opts := options.Find().SetSort(bson.D{{Key: "activationTime", Value: 1}})
	return s.Find(ctx, filter, opts)
}

// FindNonDraft lấy các item không phải draft (cho calendar và insights),
// lọc theo tập kênh nếu channels không rỗng.
func (s *ContentItemService) FindNonDraft(ctx context.Context, channels []contentitemmodels.Channel) ([]contentitemmodels.ContentItem, error) {
	filter := bson.M{
		"status": bson.M{"$ne": contentitemmodels.StatusDraft},
	}
	if len(channels) > 0 {
		filter["targets"] = bson.M{"$in": channels}
	}
	opts := options.Find().SetSort(bson.D{{Key: "activationTime", Value: 1}})
	return s.Find(ctx, filter, opts)
}
