// Package router 管理路由配置，将媒体资产接口绑定到 gin 引擎.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 绑定 /api/v1 下的全部业务路由.
func RegisterAPIRoutes(g *gin.RouterGroup) {
	RegisterMediaRoutes(g)
	RegisterHealthCheckRoute(g)
	RegisterSchedulerRoutes(g)
}
