// Package queue 定义消息主题常量与负载封装，供发布/订阅使用.
package queue

// 主题命名规范：mv.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：media(媒体资产)；动作：stored/deleted/process/cleanup；状态：requested/failed.

const (
	// 媒体处理任务队列.
	TopicMediaProcessRequested = "mv.media.process.requested" // 请求对资产执行后处理（封面抽帧等）
	TopicMediaProcessFailed    = "mv.media.process.failed"    // 处理重试耗尽，资产转入 failed

	// 媒体生命周期事件.
	TopicMediaStored  = "mv.media.stored"  // 原始对象已写入存储且目录行已建立
	TopicMediaDeleted = "mv.media.deleted" // 资产删除（目录行已移除）

	// 对账领域：两阶段尽力清理出现部分失败时发出，供外部修复任务消费.
	TopicMediaCleanupFailed = "mv.media.cleanup.failed"
)

// MediaTopics 媒体领域全部主题集合，用于批量订阅或权限控制.
var MediaTopics = []string{
	TopicMediaProcessRequested, TopicMediaProcessFailed,
	TopicMediaStored, TopicMediaDeleted,
	TopicMediaCleanupFailed,
}
