package configs

import "github.com/spf13/viper"

// AuthConfig 控制租户级鉴权：所有媒体接口要求携带租户作用域的 Bearer 凭证。
type AuthConfig struct {
	Enabled   bool     `mapstructure:"enabled"`    // 开启认证校验
	SkipPaths []string `mapstructure:"skip_paths"` // 跳过认证的路径前缀（如 /metrics、/api/v1/health）
	// Tokens 静态令牌表：token -> "tenantID:userID"，完整 IdP 对接不在本服务范围内.
	Tokens map[string]string `mapstructure:"tokens"`
	// TrustProxyHeaders 信任反向代理注入的 X-Tenant-ID / X-User-ID 请求头（内网部署用）.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.trust_proxy_headers", false)
	v.SetDefault("auth.tokens", map[string]string{})
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/v1/health",
		"/swagger",
	})
}
