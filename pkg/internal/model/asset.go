// Package model 定义媒体目录的持久化模型与状态机.
package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

// MediaType 媒体类别，入库时一次性解析，内容不变则保持稳定.
type MediaType string

const (
	MediaTypeVideo    MediaType = "video"
	MediaTypeImage    MediaType = "image"
	MediaTypeDocument MediaType = "document"
	MediaTypeAudio    MediaType = "audio"
)

// MediaTypes 全部合法类别.
var MediaTypes = []MediaType{MediaTypeVideo, MediaTypeImage, MediaTypeDocument, MediaTypeAudio}

// Valid 报告 t 是否为四个类别之一.
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeVideo, MediaTypeImage, MediaTypeDocument, MediaTypeAudio:
		return true
	default:
		return false
	}
}

// Status 资产处理状态.
type Status string

const (
	StatusPending    Status = "pending"
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// CanTransition 报告 from -> to 是否为合法状态迁移.
// replace 会把任意状态重置回 uploaded，因此 uploaded 可从任何状态到达.
func CanTransition(from, to Status) bool {
	if to == StatusUploaded {
		return true
	}

	switch from {
	case StatusPending:
		return to == StatusUploaded
	case StatusUploaded:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusReady || to == StatusFailed
	case StatusReady, StatusFailed:
		return false
	default:
		return false
	}
}

// ValidateTransition 校验状态迁移，非法时返回错误.
func ValidateTransition(from, to Status) error {
	if from == to {
		return nil
	}

	if !CanTransition(from, to) {
		return fmt.Errorf("invalid status transition: %s -> %s", from, to)
	}

	return nil
}

// DerivedThumbnailKey 派生产物 map 中封面图的键名.
const DerivedThumbnailKey = "thumbnail_key"

// MediaAsset 媒体资产目录行.
// 每个租户与对象键的组合唯一；storage_key 全桶唯一且在 ready 期间不可变，
// 替换内容会签发新键并删除旧对象.
type MediaAsset struct {
	// ID ULID 字符串，创建时生成，按时间可排序.
	ID       string `gorm:"primaryKey;size:26"                           json:"id"`
	TenantID string `gorm:"size:64;index;index:idx_tenant_key,unique"    json:"tenant_id"`
	// UploadedBy 上传用户标识.
	UploadedBy   string `gorm:"size:64;index"                            json:"uploaded_by"`
	FileName     string `gorm:"size:512"                                 json:"file_name"`
	OriginalName string `gorm:"size:512"                                 json:"original_name"`
	Title        string `gorm:"size:255"                                 json:"title"`
	Description  string `gorm:"type:text"                                json:"description"`
	MimeType     string `gorm:"size:255"                                 json:"mime_type"`
	Size         int64  `gorm:"index"                                    json:"size"`
	// StorageKey 对象存储路径，全桶唯一，永不复用.
	StorageKey string    `gorm:"size:1024;uniqueIndex;index:idx_tenant_key,unique" json:"storage_key"`
	MediaType  MediaType `gorm:"size:16;index"                            json:"media_type"`
	// IsProtected 为 true 时只能通过限时签名URL访问.
	IsProtected bool   `gorm:"index"                                     json:"is_protected"`
	Status      Status `gorm:"size:16;index"                             json:"status"`
	// Generation 单调代际计数，每次入队自增；工作进程提交结果时校验代际防止旧任务覆盖新内容.
	Generation int64 `gorm:"default:0"                                   json:"generation"`
	// DerivedJSON 派生产物 map 的 JSON 序列化（如 thumbnail_key），内容变更时整体替换.
	DerivedJSON string `gorm:"type:text"                                 json:"-"`
	// FailureCause 最近一次处理失败的原因，重试耗尽或清扫判定卡死时写入.
	FailureCause string         `gorm:"size:1024"                         json:"failure_cause,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名.
func (MediaAsset) TableName() string { return "media_assets" }

// Derived 反序列化派生产物 map，空串返回空 map.
func (a *MediaAsset) Derived() map[string]string {
	derived := make(map[string]string)
	if a.DerivedJSON == "" {
		return derived
	}

	// 序列化内容由本服务写入，解析失败按无派生产物处理
	_ = sonic.UnmarshalString(a.DerivedJSON, &derived)

	return derived
}

// SetDerived 整体替换派生产物 map，nil 或空 map 清空.
func (a *MediaAsset) SetDerived(derived map[string]string) {
	if len(derived) == 0 {
		a.DerivedJSON = ""
		return
	}

	if s, err := sonic.MarshalString(derived); err == nil {
		a.DerivedJSON = s
	}
}

// ThumbnailKey 返回封面图对象键，没有时返回空串.
func (a *MediaAsset) ThumbnailKey() string {
	return a.Derived()[DerivedThumbnailKey]
}
