// Package api 定义HTTP服务的路由注册入口.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/router"
)

// RegisterGroup 将媒体资产接口注册到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	router.RegisterAPIRoutes(e.Group("/api/v1"))
	router.RegisterSwaggerRoute(e)

	return e
}
