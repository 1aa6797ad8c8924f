// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
// 两类清扫共同兜底异步链路的漂移：卡死的 processing 行转为终态，
// 入队丢失的 uploaded 行提升代际后重新入队.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/storage"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
	"github.com/yeisme/mediavault/pkg/scheduler"
)

// ObjectStater 漂移巡检对对象存储的依赖，由 s3.Client 满足.
type ObjectStater interface {
	Stat(ctx context.Context, key string) (minio.ObjectInfo, error)
}

// staleUploadedThreshold uploaded 行超过该时长仍未被认领视为入队丢失.
const staleUploadedThreshold = 15 * time.Minute

const sweepBatchSize = 200

// RegisterCronJobs 配置媒体领域定时任务：
//   - 每 10 分钟将卡死在 processing 的行转为 failed
//   - 每 15 分钟将滞留的 uploaded 行重新入队
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	baseCtx := context.Background()

	if err := sched.AddCron(JobStuckProcessingSweep, CronStuckProcessingSweep, func(ctx context.Context) {
		SweepStuckProcessing(ctx, mgr.GetDBClient().GetDB(), configs.GetConfig().Worker.StuckThreshold())
	}, baseCtx); err != nil {
		return err
	}

	if err := sched.AddCron(JobStaleUploadedRequeue, CronStaleUploadedRequeue, func(ctx context.Context) {
		RequeueStaleUploaded(ctx, mgr.GetDBClient().GetDB(), mgr.GetMQClient().Publisher())
	}, baseCtx); err != nil {
		return err
	}

	return sched.AddCron(JobReadyObjectDrift, CronReadyObjectDrift, func(ctx context.Context) {
		SweepReadyObjectDrift(ctx, mgr.GetDBClient().GetDB(), mgr.GetS3Client())
	}, baseCtx)
}

// SweepStuckProcessing 将超过阈值仍处于 processing 的行判定为工作进程
// 中途崩溃，显式转入 failed 终态，结束调用方的无限轮询.
func SweepStuckProcessing(ctx context.Context, db *gorm.DB, threshold time.Duration) {
	l := log.Logger().With().Str("job", JobStuckProcessingSweep).Logger()
	cutoff := time.Now().Add(-threshold)

	res := db.WithContext(ctx).
		Model(&model.MediaAsset{}).
		Where("status = ? AND updated_at < ?", model.StatusProcessing, cutoff).
		Updates(map[string]any{
			"status":        model.StatusFailed,
			"failure_cause": fmt.Sprintf("processing exceeded %s, presumed crashed", threshold),
		})
	if res.Error != nil {
		l.Error().Err(res.Error).Msg("sweep failed")
		return
	}

	if res.RowsAffected > 0 {
		l.Warn().Int64("affected", res.RowsAffected).Dur("threshold", threshold).Msg("stuck processing rows marked failed")
	}
}

// RequeueStaleUploaded 重新入队长期停留在 uploaded 的行（入队丢失兜底）.
// 代际先自增再入队，迟到的旧任务会被工作进程的代际护栏丢弃.
func RequeueStaleUploaded(ctx context.Context, db *gorm.DB, pub message.Publisher) {
	l := log.Logger().With().Str("job", JobStaleUploadedRequeue).Logger()
	cutoff := time.Now().Add(-staleUploadedThreshold)

	var assets []model.MediaAsset

	err := db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", model.StatusUploaded, cutoff).
		Limit(sweepBatchSize).
		Find(&assets).Error
	if err != nil {
		l.Error().Err(err).Msg("list stale uploaded rows failed")
		return
	}

	for i := range assets {
		asset := &assets[i]
		nextGen := asset.Generation + 1

		res := db.WithContext(ctx).
			Model(&model.MediaAsset{}).
			Where("id = ? AND generation = ? AND status = ?", asset.ID, asset.Generation, model.StatusUploaded).
			Update("generation", nextGen)
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}

		payload := queue.ProcessRequestedPayload{
			Asset:      queue.AssetRef{AssetID: asset.ID, TenantID: asset.TenantID},
			Generation: nextGen,
			StorageKey: asset.StorageKey,
			MediaType:  string(asset.MediaType),
		}

		if err := queue.PublishProcessRequested(pub, payload, queue.WithProducer("mediavault-sweep")); err != nil {
			l.Error().Err(err).Str("asset_id", asset.ID).Msg("requeue failed")
			continue
		}

		l.Info().Str("asset_id", asset.ID).Int64("generation", nextGen).Msg("stale uploaded asset requeued")
	}
}

// SweepReadyObjectDrift 巡检 ready 资产的对象是否仍然存在.
// 目录与存储之间的漂移（如外部误删）只记录告警，修复交由运维处理.
func SweepReadyObjectDrift(ctx context.Context, db *gorm.DB, store ObjectStater) {
	l := log.Logger().With().Str("job", JobReadyObjectDrift).Logger()

	var assets []model.MediaAsset

	err := db.WithContext(ctx).
		Where("status = ?", model.StatusReady).
		Limit(sweepBatchSize).
		Find(&assets).Error
	if err != nil {
		l.Error().Err(err).Msg("list ready rows failed")
		return
	}

	var drifted int

	for i := range assets {
		asset := &assets[i]

		keys := append([]string{asset.StorageKey}, derivedObjectKeys(asset)...)
		for _, key := range keys {
			if _, err := store.Stat(ctx, key); err != nil {
				drifted++

				l.Warn().
					Str("asset_id", asset.ID).
					Str("tenant_id", asset.TenantID).
					Str("key", key).
					Err(err).
					Msg("catalog references missing object")
			}
		}
	}

	if drifted > 0 {
		l.Warn().Int("missing_objects", drifted).Int("checked_rows", len(assets)).Msg("object drift detected")
	}
}

// derivedObjectKeys 返回资产全部派生物对象键.
func derivedObjectKeys(asset *model.MediaAsset) []string {
	derived := asset.Derived()
	keys := make([]string, 0, len(derived))

	for _, key := range derived {
		keys = append(keys, key)
	}

	return keys
}
