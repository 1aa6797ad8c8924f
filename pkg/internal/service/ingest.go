package service

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/metrics"
	"github.com/yeisme/mediavault/pkg/queue"
)

// AcceptInput 入库请求的全部输入.
type AcceptInput struct {
	TenantID     string
	UploaderID   string
	FileName     string
	ContentType  string
	DeclaredSize int64
	Body         io.Reader
	TypeOverride string // 可选：显式类别覆盖
	Protected    *bool  // 可选：默认受保护
	Title        string
	Description  string
}

// newAssetID 生成按时间可排序的 ULID 资产标识.
func newAssetID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), crand.Reader).String()
}

// Accept 校验、分类并持久化一个新资产.
// 原始对象先写存储，成功后才建目录行；存储写入失败时调用中止且无任何目录痕迹.
// 目录行建立后入队处理任务，并立即返回限时签名URL.
func (ms *MediaService) Accept(ctx context.Context, in *AcceptInput) (*types.AcceptAssetResponse, error) {
	if in.DeclaredSize > ms.media.MaxUploadBytes {
		return nil, fmt.Errorf("%w: declared %d bytes, ceiling %d",
			model.ErrPayloadTooLarge, in.DeclaredSize, ms.media.MaxUploadBytes)
	}

	mediaType, err := Classify(in.ContentType, in.FileName, in.TypeOverride)
	if err != nil {
		return nil, err
	}

	storageKey := BuildStorageKey(in.TenantID, in.FileName)

	if err := ms.store.Put(ctx, storageKey, in.Body, in.DeclaredSize, in.ContentType); err != nil {
		metrics.IngestCounter.WithLabelValues(string(mediaType), "storage_error").Inc()

		return nil, fmt.Errorf("%w: %w", model.ErrStorageWrite, err)
	}

	protected := true
	if in.Protected != nil {
		protected = *in.Protected
	}

	asset := model.MediaAsset{
		ID:           newAssetID(),
		TenantID:     in.TenantID,
		UploadedBy:   in.UploaderID,
		FileName:     in.FileName,
		OriginalName: in.FileName,
		Title:        in.Title,
		Description:  in.Description,
		MimeType:     in.ContentType,
		Size:         in.DeclaredSize,
		StorageKey:   storageKey,
		MediaType:    mediaType,
		IsProtected:  protected,
		Status:       model.StatusUploaded,
		Generation:   1,
	}

	// 对象已写入但目录行建立失败：不回滚存储，孤儿对象是可接受的缺口.
	if err := ms.db.WithContext(ctx).Create(&asset).Error; err != nil {
		nlog.Logger().Error().Err(err).
			Str("storage_key", storageKey).
			Msg("catalog write failed after storage write, orphaned object left behind")

		return nil, fmt.Errorf("create catalog row: %w", err)
	}

	metrics.IngestCounter.WithLabelValues(string(mediaType), "accepted").Inc()

	ms.enqueueProcessing(&asset)
	ms.publishStored(&asset)

	url, err := ms.store.PresignedGet(ctx, storageKey, ms.media.UploadURLExpiry())
	if err != nil {
		// 资产已入库，签名失败只影响即时反馈
		nlog.Logger().Warn().Err(err).Str("asset_id", asset.ID).Msg("presign feedback url failed")
	}

	return &types.AcceptAssetResponse{
		AssetID:            asset.ID,
		TemporarySignedURL: url,
		StorageKey:         storageKey,
		Status:             string(asset.Status),
		FileName:           asset.FileName,
		MediaType:          string(asset.MediaType),
		ExpiresIn:          ms.media.UploadURLExpirySeconds,
	}, nil
}

// enqueueProcessing 将当前代际的处理任务入队.
// 发布失败不向调用方传播：资产已持久化，滞留的 uploaded 行由清扫任务重新入队.
func (ms *MediaService) enqueueProcessing(asset *model.MediaAsset) {
	if ms.pub == nil {
		return
	}

	payload := queue.ProcessRequestedPayload{
		Asset:      queue.AssetRef{AssetID: asset.ID, TenantID: asset.TenantID},
		Generation: asset.Generation,
		StorageKey: asset.StorageKey,
		MediaType:  string(asset.MediaType),
	}

	if err := queue.PublishProcessRequested(ms.pub, payload, queue.WithProducer("mediavault")); err != nil {
		nlog.Logger().Error().Err(err).
			Str("asset_id", asset.ID).
			Int64("generation", asset.Generation).
			Msg("enqueue processing job failed")
	}
}

// publishStored 发布入库完成事件，受配置开关控制.
func (ms *MediaService) publishStored(asset *model.MediaAsset) {
	if ms.pub == nil || !ms.events.Enabled || !ms.events.Media.Stored {
		return
	}

	payload := queue.StoredPayload{
		Asset:      queue.AssetRef{AssetID: asset.ID, TenantID: asset.TenantID},
		StorageKey: asset.StorageKey,
		MediaType:  string(asset.MediaType),
		Size:       asset.Size,
		FileName:   asset.FileName,
	}

	if err := queue.PublishStored(ms.pub, payload, queue.WithProducer("mediavault")); err != nil {
		nlog.Logger().Warn().Err(err).Str("asset_id", asset.ID).Msg("publish stored event failed")
	}
}
