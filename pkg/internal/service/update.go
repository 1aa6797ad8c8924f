package service

import (
	"context"
	"fmt"
	"io"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
)

// UpdateMetadata 只修改元数据字段，状态不变，不触发重新处理.
// 仅内容变更才重新入队，元数据编辑永不入队.
func (ms *MediaService) UpdateMetadata(ctx context.Context, tenantID, assetID string,
	req *types.UpdateAssetRequest,
) (*types.AssetResponse, error) {
	asset, err := ms.getAsset(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
		asset.Title = *req.Title
	}

	if req.Description != nil {
		updates["description"] = *req.Description
		asset.Description = *req.Description
	}

	if req.Protected != nil {
		updates["is_protected"] = *req.Protected
		asset.IsProtected = *req.Protected
	}

	if len(updates) > 0 {
		if err := ms.db.WithContext(ctx).Model(asset).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update catalog row: %w", err)
		}
	}

	resp := toAssetResponse(asset)

	return &resp, nil
}

// ReplaceInput 内容替换请求的输入.
type ReplaceInput struct {
	TenantID     string
	AssetID      string
	FileName     string
	ContentType  string
	DeclaredSize int64
	Body         io.Reader
	TypeOverride string
	Protected    *bool
}

// Replace 替换资产内容：新字节写入新键，旧对象与派生物尽力删除，
// 状态重置为 uploaded，代际自增后入队新的处理任务.
func (ms *MediaService) Replace(ctx context.Context, in *ReplaceInput) (*types.AcceptAssetResponse, error) {
	if in.DeclaredSize > ms.media.MaxUploadBytes {
		return nil, fmt.Errorf("%w: declared %d bytes, ceiling %d",
			model.ErrPayloadTooLarge, in.DeclaredSize, ms.media.MaxUploadBytes)
	}

	asset, err := ms.getAsset(ctx, in.TenantID, in.AssetID)
	if err != nil {
		return nil, err
	}

	mediaType, err := Classify(in.ContentType, in.FileName, in.TypeOverride)
	if err != nil {
		return nil, err
	}

	newKey := BuildStorageKey(in.TenantID, in.FileName)

	if err := ms.store.Put(ctx, newKey, in.Body, in.DeclaredSize, in.ContentType); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStorageWrite, err)
	}

	// 旧对象与派生物在目录切换前尽力删除，失败只对账不阻断
	oldKeys := append([]string{asset.StorageKey}, derivedKeys(asset)...)

	updates := map[string]any{
		"file_name":     in.FileName,
		"original_name": in.FileName,
		"mime_type":     in.ContentType,
		"size":          in.DeclaredSize,
		"storage_key":   newKey,
		"media_type":    mediaType,
		"status":        model.StatusUploaded,
		"generation":    asset.Generation + 1,
		"derived_json":  "",
		"failure_cause": "",
	}
	if in.Protected != nil {
		updates["is_protected"] = *in.Protected
	}

	if err := ms.db.WithContext(ctx).Model(asset).Updates(updates).Error; err != nil {
		// 新对象已写入但目录未切换，留给对账
		ms.reportCleanupFailure(asset, "replace", []string{newKey}, err)

		return nil, fmt.Errorf("update catalog row: %w", err)
	}

	asset.FileName = in.FileName
	asset.OriginalName = in.FileName
	asset.MimeType = in.ContentType
	asset.Size = in.DeclaredSize
	asset.StorageKey = newKey
	asset.MediaType = mediaType
	asset.Status = model.StatusUploaded
	asset.Generation++
	asset.DerivedJSON = ""

	if in.Protected != nil {
		asset.IsProtected = *in.Protected
	}

	ms.cleanupObjects(ctx, asset, "replace", oldKeys)

	ms.enqueueProcessing(asset)

	url, err := ms.store.PresignedGet(ctx, newKey, ms.media.UploadURLExpiry())
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("asset_id", asset.ID).Msg("presign feedback url failed")
	}

	return &types.AcceptAssetResponse{
		AssetID:            asset.ID,
		TemporarySignedURL: url,
		StorageKey:         newKey,
		Status:             string(asset.Status),
		FileName:           asset.FileName,
		MediaType:          string(asset.MediaType),
		ExpiresIn:          ms.media.UploadURLExpirySeconds,
	}, nil
}

// derivedKeys 返回资产全部派生物对象键.
func derivedKeys(asset *model.MediaAsset) []string {
	derived := asset.Derived()
	keys := make([]string, 0, len(derived))

	for _, key := range derived {
		keys = append(keys, key)
	}

	return keys
}

// cleanupObjects 尽力删除一组对象键，部分失败时发布对账事件.
func (ms *MediaService) cleanupObjects(ctx context.Context, asset *model.MediaAsset, op string, keys []string) []string {
	var orphaned []string

	var lastErr error

	for _, key := range keys {
		if key == "" {
			continue
		}

		if err := ms.store.Remove(ctx, key); err != nil {
			nlog.Logger().Warn().Err(err).
				Str("asset_id", asset.ID).
				Str("key", key).
				Str("operation", op).
				Msg("best-effort object cleanup failed")

			orphaned = append(orphaned, key)
			lastErr = err
		}
	}

	if len(orphaned) > 0 {
		ms.reportCleanupFailure(asset, op, orphaned, lastErr)
	}

	return orphaned
}

// reportCleanupFailure 发布结构化对账事件，漂移由外部修复任务收敛.
func (ms *MediaService) reportCleanupFailure(asset *model.MediaAsset, op string, orphaned []string, cause error) {
	if ms.pub == nil || !ms.events.Enabled || !ms.events.Media.CleanupFailed {
		return
	}

	errMsg := ""
	if cause != nil {
		errMsg = cause.Error()
	}

	payload := queue.CleanupFailedPayload{
		Asset:        queue.AssetRef{AssetID: asset.ID, TenantID: asset.TenantID},
		Operation:    op,
		OrphanedKeys: orphaned,
		Error:        errMsg,
	}

	if err := queue.PublishCleanupFailed(ms.pub, payload, queue.WithProducer("mediavault")); err != nil {
		nlog.Logger().Error().Err(err).Str("asset_id", asset.ID).Msg("publish cleanup failed event failed")
	}
}
