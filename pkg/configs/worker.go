package configs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultWorkerConcurrency 默认并发处理数.
	DefaultWorkerConcurrency = 2
	// DefaultWorkerMaxAttempts 单个任务最大尝试次数（含首次）.
	DefaultWorkerMaxAttempts = 3
	// DefaultWorkerBackoffBaseMS 指数退避基础延迟（毫秒）.
	DefaultWorkerBackoffBaseMS = 500
	// DefaultStuckThresholdMinutes processing 状态超过该阈值视为卡死，由清扫任务转为 failed.
	DefaultStuckThresholdMinutes = 30
	// DefaultThumbnailWidth/Height 视频封面抽帧的固定尺寸.
	DefaultThumbnailWidth  = 320
	DefaultThumbnailHeight = 180
)

// WorkerConfig 处理工作进程配置.
type WorkerConfig struct {
	// Concurrency 同时处理的任务数.
	Concurrency int `mapstructure:"concurrency" rule:"min=1,max=64"`
	// MaxAttempts 处理失败时的最大尝试次数（含首次），耗尽后资产转为 failed.
	MaxAttempts int `mapstructure:"max_attempts" rule:"min=1,max=10"`
	// BackoffBaseMS 指数退避的基础延迟，第 n 次重试等待 base * 2^(n-1).
	BackoffBaseMS int `mapstructure:"backoff_base_ms" rule:"min=1"`
	// TempDir 处理期间下载原始对象的本地临时目录.
	TempDir string `mapstructure:"temp_dir"`
	// StuckThresholdMinutes 清扫任务判定 processing 行卡死的阈值.
	StuckThresholdMinutes int `mapstructure:"stuck_threshold_minutes" rule:"min=1"`
	// FFmpegPath 转码工具路径，默认依赖 PATH 中的 ffmpeg.
	FFmpegPath string `mapstructure:"ffmpeg_path"`
	// ThumbnailWidth/ThumbnailHeight 抽帧封面尺寸.
	ThumbnailWidth  int `mapstructure:"thumbnail_width"  rule:"min=16"`
	ThumbnailHeight int `mapstructure:"thumbnail_height" rule:"min=16"`
}

// BackoffBase 返回退避基础延迟.
func (c *WorkerConfig) BackoffBase() time.Duration {
	return time.Duration(c.BackoffBaseMS) * time.Millisecond
}

// StuckThreshold 返回卡死判定阈值.
func (c *WorkerConfig) StuckThreshold() time.Duration {
	return time.Duration(c.StuckThresholdMinutes) * time.Minute
}

func (c *WorkerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("worker.concurrency", DefaultWorkerConcurrency)
	v.SetDefault("worker.max_attempts", DefaultWorkerMaxAttempts)
	v.SetDefault("worker.backoff_base_ms", DefaultWorkerBackoffBaseMS)
	v.SetDefault("worker.temp_dir", filepath.Join(os.TempDir(), "mediavault"))
	v.SetDefault("worker.stuck_threshold_minutes", DefaultStuckThresholdMinutes)
	v.SetDefault("worker.ffmpeg_path", "ffmpeg")
	v.SetDefault("worker.thumbnail_width", DefaultThumbnailWidth)
	v.SetDefault("worker.thumbnail_height", DefaultThumbnailHeight)
}
