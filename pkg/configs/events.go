package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool              `mapstructure:"enabled"` // 总开关
	Media   MediaEventsConfig `mapstructure:"media"`
}

// MediaEventsConfig 针对媒体领域的事件开关。
type MediaEventsConfig struct {
	Stored        bool `mapstructure:"stored"`         // 资产入库完成
	Deleted       bool `mapstructure:"deleted"`        // 资产删除
	ProcessFailed bool `mapstructure:"process_failed"` // 处理重试耗尽
	CleanupFailed bool `mapstructure:"cleanup_failed"` // 清理部分失败（对账事件）
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 对账事件是漂移修复的唯一线索，默认全部开启
	v.SetDefault("events.media.stored", true)
	v.SetDefault("events.media.deleted", true)
	v.SetDefault("events.media.process_failed", true)
	v.SetDefault("events.media.cleanup_failed", true)
}
