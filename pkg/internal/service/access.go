package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
	nlog "github.com/yeisme/mediavault/pkg/log"
)

// getAsset 按租户加载目录行，租户不匹配与不存在同样返回 ErrNotFound.
func (ms *MediaService) getAsset(ctx context.Context, tenantID, assetID string) (*model.MediaAsset, error) {
	var asset model.MediaAsset

	err := ms.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", assetID, tenantID).
		First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}

		return nil, fmt.Errorf("load catalog row: %w", err)
	}

	return &asset, nil
}

// Get 返回资产的目录视图，不签发任何访问 URL.
func (ms *MediaService) Get(ctx context.Context, tenantID, assetID string) (*types.AssetResponse, error) {
	asset, err := ms.getAsset(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}

	resp := toAssetResponse(asset)

	return &resp, nil
}

// Resolve 解析访问 URL.
// 受保护资产每次调用重新签发限时URL，从不缓存，凭证轮换后旧链接自然失效；
// 未受保护资产返回稳定公共URL.
func (ms *MediaService) Resolve(ctx context.Context, tenantID, assetID string) (*types.ResolveResponse, error) {
	asset, err := ms.getAsset(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}

	resp := &types.ResolveResponse{
		AssetID:   asset.ID,
		Asset:     toAssetResponse(asset),
		Protected: asset.IsProtected,
	}

	if asset.IsProtected {
		expiry := ms.media.AccessURLExpiry()

		url, err := ms.store.PresignedGet(ctx, asset.StorageKey, expiry)
		if err != nil {
			return nil, fmt.Errorf("presign access url: %w", err)
		}

		resp.URL = url
		resp.ExpiresIn = ms.media.AccessURLExpirySeconds

		derived := asset.Derived()
		if len(derived) > 0 {
			resp.Derived = make(map[string]string, len(derived))

			for name, key := range derived {
				u, err := ms.store.PresignedGet(ctx, key, expiry)
				if err != nil {
					// 派生物签名失败不阻断主URL
					nlog.Logger().Warn().Err(err).
						Str("asset_id", asset.ID).
						Str("derived", name).
						Msg("presign derived url failed")

					continue
				}

				resp.Derived[name] = u
			}
		}

		return resp, nil
	}

	resp.URL = ms.store.PublicURL(asset.StorageKey)

	derived := asset.Derived()
	if len(derived) > 0 {
		resp.Derived = make(map[string]string, len(derived))
		for name, key := range derived {
			resp.Derived[name] = ms.store.PublicURL(key)
		}
	}

	return resp, nil
}
