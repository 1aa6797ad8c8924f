package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultMaxUploadBytes 默认上传体积上限：2 GiB.
	DefaultMaxUploadBytes = int64(2) << 30
	// DefaultUploadURLExpiry 入库后即时反馈签名URL有效期（秒）.
	DefaultUploadURLExpiry = 300
	// DefaultAccessURLExpiry 受保护资产访问签名URL有效期（秒）.
	DefaultAccessURLExpiry = 3600
)

// MediaConfig 媒体上传与访问策略配置.
type MediaConfig struct {
	// MaxUploadBytes 单次上传大小上限（字节），超过直接拒绝，不触碰存储.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" rule:"min=1"`
	// UploadURLExpirySeconds 上传成功后返回的签名URL有效期.
	UploadURLExpirySeconds int `mapstructure:"upload_url_expiry_seconds" rule:"min=1"`
	// AccessURLExpirySeconds 受保护资产每次 resolve 重新签发的URL有效期.
	AccessURLExpirySeconds int `mapstructure:"access_url_expiry_seconds" rule:"min=1"`
}

// UploadURLExpiry 返回上传反馈签名URL有效期.
func (c *MediaConfig) UploadURLExpiry() time.Duration {
	return time.Duration(c.UploadURLExpirySeconds) * time.Second
}

// AccessURLExpiry 返回访问签名URL有效期.
func (c *MediaConfig) AccessURLExpiry() time.Duration {
	return time.Duration(c.AccessURLExpirySeconds) * time.Second
}

func (c *MediaConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("media.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("media.upload_url_expiry_seconds", DefaultUploadURLExpiry)
	v.SetDefault("media.access_url_expiry_seconds", DefaultAccessURLExpiry)
}
