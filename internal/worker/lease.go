package worker

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "media_scheduler/internal/api/base/service"
	"media_scheduler/internal/common"
	"media_scheduler/internal/global"
)

// JobLease document giữ quyền chạy một background job cho đúng một instance
// (collection job_leases). JobName là khóa duy nhất của lease.
type JobLease struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	JobName    string `json:"jobName" bson:"jobName" index:"unique"` // Tên job (vd: reconciler_sweep)
	Holder     string `json:"holder" bson:"holder"`                  // Instance đang giữ lease
	ExpiresAt  int64  `json:"expiresAt" bson:"expiresAt"`            // Hết hạn (UnixMilli), quá hạn = instance khác chiếm được
	AcquiredAt int64  `json:"acquiredAt" bson:"acquiredAt"`          // Lần chiếm gần nhất

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}

// LeaseService chiếm/gia hạn/trả lease trên MongoDB
type LeaseService struct {
	*basesvc.BaseServiceMongoImpl[JobLease]
}

// NewLeaseService tạo mới LeaseService
func NewLeaseService() (*LeaseService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.JobLeases)
	if !exist {
		return nil, fmt.Errorf("failed to get job_leases collection: %v", common.ErrNotFound)
	}
	return &LeaseService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[JobLease](collection),
	}, nil
}

// Acquire thử chiếm lease cho holder trong ttlMillis kể từ now.
// Atomic bằng findOneAndUpdate upsert: chỉ thắng khi lease chưa có, đã hết hạn,
// hoặc chính holder đang giữ (gia hạn). Thua thì trả về false, không phải lỗi.
func (s *LeaseService) Acquire(ctx context.Context, jobName, holder string, now, ttlMillis int64) (bool, error) {
	filter := bson.M{
		"jobName": jobName,
		"$or": []bson.M{
			{"holder": holder},
			{"expiresAt": bson.M{"$lt": now}},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"holder":     holder,
			"expiresAt":  now + ttlMillis,
			"acquiredAt": now,
			"updatedAt":  now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	result := s.Collection().FindOneAndUpdate(ctx, filter, update, opts)
	if err := result.Err(); err != nil {
		// Duplicate key trên jobName = lease còn hiệu lực và đang thuộc instance khác
		converted := common.ConvertMongoError(err)
		if errors.Is(converted, common.ErrMongoDuplicate) {
			return false, nil
		}
		return false, converted
	}
	return true, nil
}

// Release trả lease ngay lập tức (chỉ khi holder đang giữ nó)
func (s *LeaseService) Release(ctx context.Context, jobName, holder string) error {
	filter := bson.M{"jobName": jobName, "holder": holder}
	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"expiresAt": int64(0),
	}}
	_, err := s.UpdateOne(ctx, filter, update, nil)
	if err != nil && errors.Is(err, common.ErrNotFound) {
		// Lease đã bị instance khác chiếm, không có gì để trả
		return nil
	}
	return err
}
