package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/middleware"
	"github.com/yeisme/mediavault/pkg/rule"
)

// UploadAsset 接收新媒体资产：同步写入对象存储并入队处理.
//
//	@Summary		上传媒体资产
//	@Description	接收multipart上传的媒体文件，分类后写入对象存储、建立目录行并入队后台处理
//	@Tags			媒体资产
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file						true	"上传的媒体文件"
//	@Param			file_name	formData	string						false	"自定义文件名（默认取上传文件名）"
//	@Param			media_type	formData	string						false	"显式类别覆盖：video/image/audio/document"
//	@Param			title		formData	string						false	"展示标题"
//	@Param			description	formData	string						false	"描述"
//	@Param			protected	formData	bool						false	"是否受保护（默认true）"
//	@Success		200			{object}	types.AcceptAssetResponse	"入库反馈与限时签名URL"
//	@Failure		400			{object}	map[string]string			"请求参数错误"
//	@Failure		413			{object}	map[string]string			"超出上传大小上限"
//	@Failure		502			{object}	map[string]string			"对象存储写入失败"
//	@Router			/api/v1/media [post]
func UploadAsset(c *gin.Context) {
	l := log.Logger()

	tenantID, userID := middleware.TenantFrom(c)
	if tenantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing tenant identity"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("no file provided in upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})

		return
	}

	var req types.AcceptAssetRequest
	if err = c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid upload form")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if req.FileName == "" {
		req.FileName = file.Filename
	}

	if req.ContentType == "" {
		req.ContentType = file.Header.Get("Content-Type")
	}

	if err = rule.ValidateStruct(&req); err != nil {
		l.Warn().Err(err).Msg("upload form failed validation")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	src, err := file.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file"})

		return
	}
	defer src.Close()

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.Accept(c.Request.Context(), &service.AcceptInput{
		TenantID:     tenantID,
		UploaderID:   userID,
		FileName:     req.FileName,
		ContentType:  req.ContentType,
		DeclaredSize: file.Size,
		Body:         src,
		TypeOverride: req.MediaType,
		Protected:    req.Protected,
		Title:        req.Title,
		Description:  req.Description,
	})
	if err != nil {
		l.Error().Err(err).Str("tenant", tenantID).Msg("failed to accept asset")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListAssets 分页列出租户的媒体资产目录.
//
//	@Summary		列出媒体资产
//	@Description	分页返回当前租户的资产目录视图，可按状态与类别过滤，不签发任何URL
//	@Tags			媒体资产
//	@Produce		json
//	@Param			page		query		int							false	"页码（从1起）"
//	@Param			page_size	query		int							false	"每页数量（默认20，上限200）"
//	@Param			status		query		string						false	"状态过滤：pending/uploaded/processing/ready/failed"
//	@Param			media_type	query		string						false	"类别过滤：video/image/audio/document"
//	@Success		200			{object}	types.ListAssetsResponse	"分页目录"
//	@Failure		400			{object}	map[string]string			"请求参数错误"
//	@Router			/api/v1/media [get]
func ListAssets(c *gin.Context) {
	l := log.Logger()

	tenantID, _ := middleware.TenantFrom(c)
	if tenantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing tenant identity"})
		return
	}

	var req types.ListAssetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("invalid list query")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		l.Warn().Err(err).Msg("list query failed validation")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.List(c.Request.Context(), tenantID, &req)
	if err != nil {
		l.Error().Err(err).Str("tenant", tenantID).Msg("failed to list assets")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAsset 返回单个资产的目录视图.
//
//	@Summary		查询媒体资产
//	@Description	返回资产的目录视图：状态、代际、派生物键等，不含访问URL
//	@Tags			媒体资产
//	@Produce		json
//	@Param			id	path		string				true	"资产ID"
//	@Success		200	{object}	types.AssetResponse	"资产目录视图"
//	@Failure		404	{object}	map[string]string	"资产不存在"
//	@Router			/api/v1/media/{id} [get]
func GetAsset(c *gin.Context) {
	tenantID, _ := middleware.TenantFrom(c)
	if tenantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing tenant identity"})
		return
	}

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.Get(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ResolveAsset 签发资产的访问URL.
//
//	@Summary		解析访问URL
//	@Description	为资产签发访问URL：受保护资产返回限时签名URL（每次调用重新签发），公共资产返回稳定URL
//	@Tags			媒体资产
//	@Produce		json
//	@Param			id	path		string					true	"资产ID"
//	@Success		200	{object}	types.ResolveResponse	"访问URL"
//	@Failure		404	{object}	map[string]string		"资产不存在"
//	@Router			/api/v1/media/{id}/url [get]
func ResolveAsset(c *gin.Context) {
	l := log.Logger()

	tenantID, _ := middleware.TenantFrom(c)
	if tenantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing tenant identity"})
		return
	}

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.Resolve(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		l.Warn().Err(err).Str("tenant", tenantID).Str("asset", c.Param("id")).Msg("failed to resolve asset url")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateAsset 更新资产元数据，不触发重新处理.
//
//	@Summary		更新资产元数据
//	@Description	修改标题、描述与保护标志，空字段不变更；元数据编辑不会重新入队处理
//	@Tags			媒体资产
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"资产ID"
//	@Param			asset	body		types.UpdateAssetRequest	true	"元数据更新请求"
//	@Success		200		{object}	types.AssetResponse			"更新后的资产视图"
//	@Failure		400		{object}	map[string]string			"请求参数错误"
//	@Failure		404		{object}	map[string]string			"资产不存在"
//	@Router			/api/v1/media/{id} [patch]
func UpdateAsset(c *gin.Context) {
	l := log.Logger()

	tenantID, _ := middleware.TenantFrom(c)
	if tenantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing tenant identity"})
		return
	}

	var req types.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid metadata update body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		l.Warn().Err(err).Msg("metadata update failed validation")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.UpdateMetadata(c.Request.Context(), tenantID, c.Param("id"), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ReplaceAsset 替换资产内容并重新入队处理.
//
//	@Summary		替换资产内容
//	@Description	上传新字节替换现有资产：写入新存储键、代际自增、状态重置为uploaded并重新入队处理，旧对象尽力清理
//	@Tags			媒体资产
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id			path		string						true	"资产ID"
//	@Param			file		formData	file						true	"替换的媒体文件"
//	@Param			file_name	formData	string						false	"自定义文件名"
//	@Param			media_type	formData	string						false	"显式类别覆盖"
//	@Param			protected	formData	bool						false	"是否受保护"
//	@Success		200			{object}	types.AcceptAssetResponse	"替换反馈与限时签名URL"
//	@Failure		400			{object}	map[string]string			"请求参数错误"
//	@Failure		404			{object}	map[string]string			"资产不存在"
//	@Failure		413			{object}	map[string]string			"超出上传大小上限"
//	@Router			/api/v1/media/{id}/content [put]
func ReplaceAsset(c *gin.Context) {
	l := log.Logger()

	tenantID, _ := middleware.TenantFrom(c)
	if tenantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing tenant identity"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("no file provided in replace")
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})

		return
	}

	var req types.AcceptAssetRequest
	if err = c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid replace form")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if req.FileName == "" {
		req.FileName = file.Filename
	}

	if req.ContentType == "" {
		req.ContentType = file.Header.Get("Content-Type")
	}

	src, err := file.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open replacement file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file"})

		return
	}
	defer src.Close()

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.Replace(c.Request.Context(), &service.ReplaceInput{
		TenantID:     tenantID,
		AssetID:      c.Param("id"),
		FileName:     req.FileName,
		ContentType:  req.ContentType,
		DeclaredSize: file.Size,
		Body:         src,
		TypeOverride: req.MediaType,
		Protected:    req.Protected,
	})
	if err != nil {
		l.Error().Err(err).Str("tenant", tenantID).Str("asset", c.Param("id")).Msg("failed to replace asset")
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteAsset 删除资产及其对象.
//
//	@Summary		删除媒体资产
//	@Description	删除目录行并尽力清理原始对象与派生物；清理失败不阻塞删除，孤儿键随响应返回
//	@Tags			媒体资产
//	@Produce		json
//	@Param			id	path		string						true	"资产ID"
//	@Success		200	{object}	types.DeleteAssetResponse	"删除结果"
//	@Failure		404	{object}	map[string]string			"资产不存在"
//	@Router			/api/v1/media/{id} [delete]
func DeleteAsset(c *gin.Context) {
	l := log.Logger()

	tenantID, _ := middleware.TenantFrom(c)
	if tenantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing tenant identity"})
		return
	}

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.Delete(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	if len(resp.OrphanedKeys) > 0 {
		l.Warn().Str("tenant", tenantID).Str("asset", resp.AssetID).
			Strs("orphaned_keys", resp.OrphanedKeys).Msg("asset deleted with orphaned objects")
	}

	c.JSON(http.StatusOK, resp)
}
