package queue

import (
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
)

// -------------------------- 基于业务封装 events --------------------------

// PublishProcessRequested 发布 mv.media.process.requested 任务。
// 消息 ID 取 asset_id|generation 的确定性哈希，配合 JetStream TrackMsgId
// 保证同一代际只入流一次。
func PublishProcessRequested(pub message.Publisher, payload ProcessRequestedPayload, opts ...func(*EventHeader)) error {
	id := DeterministicID(payload.Asset.AssetID, strconv.FormatInt(payload.Generation, 10))

	msg, err := NewWatermillMessageID(id, TopicMediaProcessRequested, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaProcessRequested, msg)
}

// ParseProcessRequested 将 Watermill 消息解析为强类型 Envelope.
func ParseProcessRequested(msg *message.Message) (Message[ProcessRequestedPayload], error) {
	return ParseWatermillMessage[ProcessRequestedPayload](msg)
}

// PublishProcessFailed 发布处理重试耗尽事件.
func PublishProcessFailed(pub message.Publisher, payload ProcessFailedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMediaProcessFailed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaProcessFailed, msg)
}

// PublishStored 发布资产入库完成事件.
func PublishStored(pub message.Publisher, payload StoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMediaStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaStored, msg)
}

// PublishDeleted 发布资产删除事件.
func PublishDeleted(pub message.Publisher, payload DeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMediaDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaDeleted, msg)
}

// PublishCleanupFailed 发布对账事件：尽力清理出现部分失败，残留键待外部修复.
func PublishCleanupFailed(pub message.Publisher, payload CleanupFailedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMediaCleanupFailed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaCleanupFailed, msg)
}
