package types

import "time"

// AcceptAssetRequest 接收新媒体资产的请求（multipart 表单的元数据部分）.
type AcceptAssetRequest struct {
	FileName    string `form:"file_name"    json:"file_name"    rule:"required,max=255"`                          // 原始文件名
	ContentType string `form:"content_type" json:"content_type" rule:"max=255"`                                   // 可选：声明的内容类型
	MediaType   string `form:"media_type"   json:"media_type"   rule:"omitempty,oneof=video image audio document"` // 可选：显式类别覆盖
	Title       string `form:"title"        json:"title"        rule:"max=255"`                                   // 可选：展示标题
	Description string `form:"description"  json:"description"  rule:"max=2000"`                                  // 可选：描述
	Protected   *bool  `form:"protected"    json:"protected"`                                                      // 可选：是否受保护（默认 true）
}

// UpdateAssetRequest 更新资产元数据的请求，空字段不变更.
type UpdateAssetRequest struct {
	Title       *string `json:"title,omitempty"       rule:"omitempty,max=255"`
	Description *string `json:"description,omitempty" rule:"omitempty,max=2000"`
	Protected   *bool   `json:"protected,omitempty"`
}

// AcceptAssetResponse 入库即时反馈：资产标识与限时签名URL.
type AcceptAssetResponse struct {
	AssetID            string `json:"asset_id"`
	TemporarySignedURL string `json:"temporary_signed_url"`
	StorageKey         string `json:"storage_key"`
	Status             string `json:"status"`
	FileName           string `json:"file_name"`
	MediaType          string `json:"media_type"`
	ExpiresIn          int    `json:"expires_in"` // 签名URL有效期（秒）
}

// AssetResponse 单个资产的目录视图，不含访问 URL.
type AssetResponse struct {
	AssetID      string            `json:"asset_id"`
	TenantID     string            `json:"tenant_id"`
	OwnerID      string            `json:"owner_id"`
	FileName     string            `json:"file_name"`
	Title        string            `json:"title,omitempty"`
	Description  string            `json:"description,omitempty"`
	MediaType    string            `json:"media_type"`
	ContentType  string            `json:"content_type"`
	SizeBytes    int64             `json:"size_bytes"`
	Status       string            `json:"status"`
	Protected    bool              `json:"protected"`
	Generation   int64             `json:"generation"`
	StorageKey   string            `json:"storage_key"`
	Derived      map[string]string `json:"derived,omitempty"` // 派生物名称到存储键
	FailureCause string            `json:"failure_cause,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ResolveResponse 访问解析结果，URL 为即时签发、不可缓存.
type ResolveResponse struct {
	AssetID   string            `json:"asset_id"`
	Asset     AssetResponse     `json:"asset"`
	URL       string            `json:"url"`
	Derived   map[string]string `json:"derived_urls,omitempty"` // 派生物名称到访问 URL
	Protected bool              `json:"protected"`
	ExpiresIn int               `json:"expires_in,omitempty"` // 签名有效期（秒），公共 URL 为 0
}

// ListAssetsRequest 分页列表请求.
type ListAssetsRequest struct {
	Page      int    `form:"page"       json:"page"       rule:"omitempty,min=1"`
	PageSize  int    `form:"page_size"  json:"page_size"  rule:"omitempty,min=1,max=200"`
	Status    string `form:"status"     json:"status"     rule:"omitempty,oneof=pending uploaded processing ready failed"`
	MediaType string `form:"media_type" json:"media_type" rule:"omitempty,oneof=video image audio document"`
}

// ListAssetsResponse 分页列表结果，不含任何签名 URL.
type ListAssetsResponse struct {
	Assets   []AssetResponse `json:"assets"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// DeleteAssetResponse 删除结果. OrphanedKeys 非空表示对象清理部分失败，待对账.
type DeleteAssetResponse struct {
	AssetID      string   `json:"asset_id"`
	Deleted      bool     `json:"deleted"`
	OrphanedKeys []string `json:"orphaned_keys,omitempty"`
}
