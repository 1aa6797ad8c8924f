package service

import (
	"context"
	"fmt"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
)

// Delete 删除资产.
// 先尽力删除原始对象与派生物（失败只记录与对账），随后无条件移除目录行，
// 避免墓碑阻塞重建，代价是可能残留孤儿字节.
func (ms *MediaService) Delete(ctx context.Context, tenantID, assetID string) (*types.DeleteAssetResponse, error) {
	asset, err := ms.getAsset(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}

	keys := append([]string{asset.StorageKey}, derivedKeys(asset)...)
	orphaned := ms.cleanupObjects(ctx, asset, "delete", keys)

	if err := ms.db.WithContext(ctx).Delete(asset).Error; err != nil {
		return nil, fmt.Errorf("delete catalog row: %w", err)
	}

	ms.publishDeleted(asset, keys)

	return &types.DeleteAssetResponse{
		AssetID:      asset.ID,
		Deleted:      true,
		OrphanedKeys: orphaned,
	}, nil
}

// publishDeleted 发布删除事件，受配置开关控制.
func (ms *MediaService) publishDeleted(asset *model.MediaAsset, keys []string) {
	if ms.pub == nil || !ms.events.Enabled || !ms.events.Media.Deleted {
		return
	}

	payload := queue.DeletedPayload{
		Asset:       queue.AssetRef{AssetID: asset.ID, TenantID: asset.TenantID},
		StorageKeys: keys,
	}

	if err := queue.PublishDeleted(ms.pub, payload, queue.WithProducer("mediavault")); err != nil {
		nlog.Logger().Warn().Err(err).Str("asset_id", asset.ID).Msg("publish deleted event failed")
	}
}
