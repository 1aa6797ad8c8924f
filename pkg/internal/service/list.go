package service

import (
	"context"
	"fmt"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// List 按租户分页列出资产，可按状态与类别过滤.
// 列表响应不含任何签名URL，访问入口始终是单资产 resolve.
func (ms *MediaService) List(ctx context.Context, tenantID string, req *types.ListAssetsRequest) (*types.ListAssetsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	q := ms.db.WithContext(ctx).Model(&model.MediaAsset{}).Where("tenant_id = ?", tenantID)

	if req.Status != "" {
		q = q.Where("status = ?", model.Status(req.Status))
	}

	if req.MediaType != "" {
		q = q.Where("media_type = ?", model.MediaType(req.MediaType))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count assets: %w", err)
	}

	var assets []model.MediaAsset

	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	resp := &types.ListAssetsResponse{
		Assets:   make([]types.AssetResponse, 0, len(assets)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}

	for i := range assets {
		resp.Assets = append(resp.Assets, toAssetResponse(&assets[i]))
	}

	return resp, nil
}
