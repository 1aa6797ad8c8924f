package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 发布消息时建议填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// AssetRef 标识一个媒体资产及其租户归属.
type AssetRef struct {
	AssetID  string `json:"asset_id"`
	TenantID string `json:"tenant_id"`
}

// ProcessRequestedPayload 请求后处理.
// Generation 为入队时目录行的代际；工作进程只在代际仍然匹配时提交结果，
// 旧代际的重试任务会被静默丢弃.
type ProcessRequestedPayload struct {
	Asset      AssetRef `json:"asset"`
	Generation int64    `json:"generation"`
	StorageKey string   `json:"storage_key"`
	MediaType  string   `json:"media_type"`
}

// ProcessFailedPayload 处理重试耗尽.
type ProcessFailedPayload struct {
	Asset      AssetRef `json:"asset"`
	Generation int64    `json:"generation"`
	Attempts   int      `json:"attempts"`
	Error      string   `json:"error"`
}

// StoredPayload 原始对象写入存储且目录行建立完成.
type StoredPayload struct {
	Asset      AssetRef `json:"asset"`
	StorageKey string   `json:"storage_key"`
	MediaType  string   `json:"media_type"`
	Size       int64    `json:"size,omitempty"`
	FileName   string   `json:"file_name,omitempty"`
}

// DeletedPayload 资产删除完成（目录行已移除，对象删除为尽力而为）.
type DeletedPayload struct {
	Asset       AssetRef `json:"asset"`
	StorageKeys []string `json:"storage_keys,omitempty"` // 被删除（或尝试删除）的对象键
}

// CleanupFailedPayload 两阶段清理出现部分失败时的对账事件.
// OrphanedKeys 为仍然残留在对象存储中的键，外部修复任务据此收敛漂移.
type CleanupFailedPayload struct {
	Asset        AssetRef `json:"asset"`
	Operation    string   `json:"operation"` // delete / replace
	OrphanedKeys []string `json:"orphaned_keys"`
	Error        string   `json:"error"`
}
