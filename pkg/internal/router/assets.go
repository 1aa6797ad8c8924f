package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterMediaRoutes 注册媒体资产相关路由.
func RegisterMediaRoutes(g *gin.RouterGroup) {
	mediaRoutes := g.Group("/media")
	{
		// 上传新资产
		mediaRoutes.POST("", handle.UploadAsset)
		// 分页目录
		mediaRoutes.GET("", handle.ListAssets)

		singleGroup := mediaRoutes.Group("/:id")
		{
			// 目录视图
			singleGroup.GET("", handle.GetAsset)
			// 元数据编辑
			singleGroup.PATCH("", handle.UpdateAsset)
			// 删除资产
			singleGroup.DELETE("", handle.DeleteAsset)
			// 签发访问 URL
			singleGroup.GET("/url", handle.ResolveAsset)
			// 替换内容
			singleGroup.PUT("/content", handle.ReplaceAsset)
		}
	}
}
