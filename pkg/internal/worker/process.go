package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yeisme/mediavault/pkg/internal/model"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/metrics"
	"github.com/yeisme/mediavault/pkg/queue"
)

// DerivedThumbnailSuffix 派生封面键后缀，rawKey 确定则派生键确定，重试天然幂等.
const DerivedThumbnailSuffix = ".thumb.jpg"

// Process 处理一条任务：认领目录行、执行派生、以代际护栏提交结果.
// 旧代际的任务静默丢弃；重试耗尽后显式转入 failed 并发布事件.
func (w *Worker) Process(ctx context.Context, job *queue.ProcessRequestedPayload) {
	log := nlog.Logger().With().
		Str("asset_id", job.Asset.AssetID).
		Str("tenant_id", job.Asset.TenantID).
		Int64("generation", job.Generation).
		Logger()

	// 认领：任何 I/O 之前先置 processing，进程中途崩溃对外表现为
	// 卡在 processing 的行，由清扫任务兜底，而不是任务静默丢失.
	claimed, err := w.claim(ctx, job)
	if err != nil {
		log.Error().Err(err).Msg("claim failed")
		return
	}

	if !claimed {
		log.Debug().Msg("job stale or asset gone, dropped")
		return
	}

	start := time.Now()

	var lastErr error

	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		lastErr = w.processOnce(ctx, job)
		if lastErr == nil {
			metrics.ProcessDuration.WithLabelValues(job.MediaType, "ready").Observe(time.Since(start).Seconds())
			return
		}

		if errors.Is(lastErr, model.ErrStaleGeneration) {
			log.Debug().Msg("generation superseded mid-processing, dropped")
			return
		}

		log.Warn().Err(lastErr).Int("attempt", attempt).Msg("processing attempt failed")

		if attempt < w.cfg.MaxAttempts {
			backoff := w.cfg.BackoffBase() * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
		}
	}

	metrics.ProcessDuration.WithLabelValues(job.MediaType, "failed").Observe(time.Since(start).Seconds())
	w.commitFailed(ctx, job, lastErr)
}

// claim 将目录行置为 processing.
// 代际不匹配或行已消失返回 false；行已处于同代际 processing（重复投递）
// 继续返回 true，处理本身幂等.
func (w *Worker) claim(ctx context.Context, job *queue.ProcessRequestedPayload) (bool, error) {
	res := w.db.WithContext(ctx).
		Model(&model.MediaAsset{}).
		Where("id = ? AND tenant_id = ? AND generation = ? AND status IN ?",
			job.Asset.AssetID, job.Asset.TenantID, job.Generation,
			[]model.Status{model.StatusUploaded, model.StatusProcessing}).
		Update("status", model.StatusProcessing)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// processOnce 单次处理尝试：下载、派生、上传、提交. 本地临时文件无条件清理.
func (w *Worker) processOnce(ctx context.Context, job *queue.ProcessRequestedPayload) error {
	// 非视频当前无派生物，直接提交就绪
	if model.MediaType(job.MediaType) != model.MediaTypeVideo {
		return w.commitReady(ctx, job, nil)
	}

	tmpDir := w.cfg.TempDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}

	workDir, err := os.MkdirTemp(tmpDir, "mv-process-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	defer os.RemoveAll(workDir)

	rawPath := filepath.Join(workDir, "raw")
	if err := w.store.GetToFile(ctx, job.StorageKey, rawPath); err != nil {
		return fmt.Errorf("download raw object: %w", err)
	}

	thumbPath := filepath.Join(workDir, "thumb.jpg")
	if err := w.thumb.Thumbnail(ctx, rawPath, thumbPath, w.cfg.ThumbnailWidth, w.cfg.ThumbnailHeight); err != nil {
		return err
	}

	// 派生键由原始键确定，重试覆盖同一对象，幂等
	thumbKey := job.StorageKey + DerivedThumbnailSuffix
	if err := w.store.PutFromFile(ctx, thumbKey, thumbPath, "image/jpeg"); err != nil {
		return fmt.Errorf("upload derived thumbnail: %w", err)
	}

	return w.commitReady(ctx, job, map[string]string{model.DerivedThumbnailKey: thumbKey})
}

// commitReady 以代际护栏提交就绪状态，代际已被取代时返回 ErrStaleGeneration.
func (w *Worker) commitReady(ctx context.Context, job *queue.ProcessRequestedPayload, derived map[string]string) error {
	asset := model.MediaAsset{}
	asset.SetDerived(derived)

	updates := map[string]any{
		"status":        model.StatusReady,
		"derived_json":  asset.DerivedJSON,
		"failure_cause": "",
	}

	return w.fencedCommit(ctx, job, updates)
}

// commitFailed 重试耗尽后的终态提交，同样受代际护栏保护.
func (w *Worker) commitFailed(ctx context.Context, job *queue.ProcessRequestedPayload, cause error) {
	causeMsg := ""
	if cause != nil {
		causeMsg = cause.Error()
	}

	updates := map[string]any{
		"status":        model.StatusFailed,
		"failure_cause": causeMsg,
	}

	if err := w.fencedCommit(ctx, job, updates); err != nil {
		if !errors.Is(err, model.ErrStaleGeneration) {
			nlog.Logger().Error().Err(err).Str("asset_id", job.Asset.AssetID).Msg("commit failed status")
		}

		return
	}

	nlog.Logger().Error().
		Str("asset_id", job.Asset.AssetID).
		Int("attempts", w.cfg.MaxAttempts).
		Str("cause", causeMsg).
		Msg("processing retries exhausted, asset failed")

	w.publishProcessFailed(job, causeMsg)
}

// fencedCommit 条件更新：只有目录行仍持有任务代际时写入才生效.
func (w *Worker) fencedCommit(ctx context.Context, job *queue.ProcessRequestedPayload, updates map[string]any) error {
	res := w.db.WithContext(ctx).
		Model(&model.MediaAsset{}).
		Where("id = ? AND tenant_id = ? AND generation = ?",
			job.Asset.AssetID, job.Asset.TenantID, job.Generation).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return model.ErrStaleGeneration
	}

	return nil
}

// publishProcessFailed 发布重试耗尽事件，受配置开关控制.
func (w *Worker) publishProcessFailed(job *queue.ProcessRequestedPayload, causeMsg string) {
	if w.pub == nil || !w.events.Enabled || !w.events.Media.ProcessFailed {
		return
	}

	payload := queue.ProcessFailedPayload{
		Asset:      job.Asset,
		Generation: job.Generation,
		Attempts:   w.cfg.MaxAttempts,
		Error:      causeMsg,
	}

	if err := queue.PublishProcessFailed(w.pub, payload, queue.WithProducer("mediavault-worker")); err != nil {
		nlog.Logger().Warn().Err(err).Str("asset_id", job.Asset.AssetID).Msg("publish process failed event failed")
	}
}
