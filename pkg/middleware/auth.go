package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/configs"
)

const (
	// TenantIDKey / UserIDKey gin context 中的身份键.
	TenantIDKey = "tenant_id"
	UserIDKey   = "user_id"
)

// AuthMiddleware 租户作用域的 Bearer 认证.
//   - 静态令牌表 token -> "tenantID:userID"，完整 IdP 对接交给外部网关
//   - 内网部署可信任反向代理注入的 X-Tenant-ID / X-User-ID 请求头
//   - 支持通过配置跳过某些路径（如 /metrics、/api/v1/health）.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		if conf.TrustProxyHeaders {
			tenant := strings.TrimSpace(c.GetHeader("X-Tenant-ID"))
			user := strings.TrimSpace(c.GetHeader("X-User-ID"))

			if tenant != "" {
				c.Set(TenantIDKey, tenant)
				c.Set(UserIDKey, user)
				c.Next()

				return
			}
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token != "" {
			if identity, ok := conf.Tokens[token]; ok {
				tenant, user, _ := strings.Cut(identity, ":")
				c.Set(TenantIDKey, tenant)
				c.Set(UserIDKey, user)
				c.Next()

				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "unauthorized",
		})
	}
}

// TenantFrom 读取认证中间件写入的租户与用户标识.
func TenantFrom(c *gin.Context) (tenantID, userID string) {
	return c.GetString(TenantIDKey), c.GetString(UserIDKey)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
