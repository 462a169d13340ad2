package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"media_scheduler/config"
	contentitemsvc "media_scheduler/internal/api/contentitem/service"
	"media_scheduler/internal/logger"
)

// Tên job trong collection job_leases
const reconcilerJobName = "reconciler_sweep"

// ReconcilerWorker quét định kỳ các item scheduled đã quá thời điểm kích hoạt:
// chuyển sang published, xóa asset fields và dọn asset khỏi store.
// Nhiều instance cùng chạy thì chỉ instance giữ được lease mới quét.
type ReconcilerWorker struct {
	itemService  *contentitemsvc.ContentItemService
	leaseService *LeaseService
	cron         *cron.Cron
	interval     time.Duration // Chu kỳ giữa các lượt quét
	leaseTTL     time.Duration // Thời hạn lease, phải dài hơn một lượt quét
	instanceID   string        // Định danh instance giữ lease
}

// NewReconcilerWorker tạo mới ReconcilerWorker từ config
func NewReconcilerWorker(cfg *config.Configuration) (*ReconcilerWorker, error) {
	itemService, err := contentitemsvc.NewContentItemService()
	if err != nil {
		return nil, err
	}
	leaseService, err := NewLeaseService()
	if err != nil {
		return nil, err
	}

	interval := time.Duration(cfg.Sweep_IntervalSeconds) * time.Second
	if interval < time.Second {
		interval = time.Minute
	}
	leaseTTL := time.Duration(cfg.Sweep_LeaseSeconds) * time.Second
	if leaseTTL <= interval {
		leaseTTL = 2 * interval
	}

	instanceID := cfg.Sweep_InstanceID
	if instanceID == "" {
		instanceID = uuid.New().String()
	}

	return &ReconcilerWorker{
		itemService:  itemService,
		leaseService: leaseService,
		cron:         cron.New(),
		interval:     interval,
		leaseTTL:     leaseTTL,
		instanceID:   instanceID,
	}, nil
}

// Start đăng ký job sweep vào cron và chạy nền cho đến khi ctx bị hủy
func (w *ReconcilerWorker) Start(ctx context.Context) error {
	log := logger.GetAppLogger()

	spec := fmt.Sprintf("@every %s", w.interval)
	_, err := w.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("🧹 [RECONCILER] Panic trong lượt sweep, lượt sau vẫn chạy bình thường")
			}
		}()
		w.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reconciler job: %v", err)
	}

	w.cron.Start()
	log.WithFields(map[string]interface{}{
		"interval":   w.interval.String(),
		"leaseTTL":   w.leaseTTL.String(),
		"instanceId": w.instanceID,
	}).Info("🧹 [RECONCILER] Starting Reconciler Worker...")

	go func() {
		<-ctx.Done()
		stopCtx := w.cron.Stop()
		<-stopCtx.Done()

		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.leaseService.Release(releaseCtx, reconcilerJobName, w.instanceID); err != nil {
			log.WithError(err).Warn("🧹 [RECONCILER] Không trả được lease khi dừng")
		}
		log.Info("🧹 [RECONCILER] Reconciler Worker stopped")
	}()

	return nil
}

// runSweep một lượt quét: chiếm lease rồi gọi SweepExpired
func (w *ReconcilerWorker) runSweep(ctx context.Context) {
	log := logger.GetAppLogger()
	now := time.Now().UnixMilli()

	acquired, err := w.leaseService.Acquire(ctx, reconcilerJobName, w.instanceID, now, w.leaseTTL.Milliseconds())
	if err != nil {
		log.WithError(err).Error("🧹 [RECONCILER] Lỗi chiếm lease")
		return
	}
	if !acquired {
		// Instance khác đang quét
		return
	}

	result, err := w.itemService.SweepExpired(ctx, now)
	if err != nil {
		log.WithError(err).Error("🧹 [RECONCILER] Lỗi quét item hết hạn")
		return
	}

	if result.Published > 0 || result.AssetFailures > 0 {
		log.WithFields(map[string]interface{}{
			"published":     result.Published,
			"assetFailures": result.AssetFailures,
		}).Info("🧹 [RECONCILER] Đã archive các item hết hạn")
	}
}
