// Package service 实现媒体资产的入库、访问解析、替换与删除.
// 所有协调通过目录行与消息队列完成，进程内不持有共享可变状态.
package service

import (
	"context"
	"io"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/configs"
	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

// ObjectStore 媒体服务对对象存储的依赖，由 s3.Client 满足.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	PublicURL(key string) string
}

// MediaService 媒体目录与对象存储的同步操作入口.
type MediaService struct {
	store  ObjectStore
	db     *gorm.DB
	pub    message.Publisher
	media  configs.MediaConfig
	events configs.EventsConfig
}

// NewMediaService 从请求上下文提取存储客户端构造服务.
func NewMediaService(c context.Context) *MediaService {
	cfg := configs.GetConfig()

	svc := &MediaService{
		media:  cfg.Media,
		events: cfg.Events,
	}

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		svc.store = s3c
	}

	if dbc := ctxPkg.GetDBClient(c); dbc != nil {
		svc.db = dbc.GetDB()
	}

	if mqc := ctxPkg.GetMQClient(c); mqc != nil {
		svc.pub = mqc.Publisher()
	}

	return svc
}

// NewMediaServiceWith 显式注入依赖，供工作进程与测试使用.
func NewMediaServiceWith(store ObjectStore, db *gorm.DB, pub message.Publisher,
	media configs.MediaConfig, events configs.EventsConfig,
) *MediaService {
	return &MediaService{store: store, db: db, pub: pub, media: media, events: events}
}

// toAssetResponse 目录行转 API 视图.
func toAssetResponse(a *model.MediaAsset) types.AssetResponse {
	return types.AssetResponse{
		AssetID:      a.ID,
		TenantID:     a.TenantID,
		OwnerID:      a.UploadedBy,
		FileName:     a.FileName,
		Title:        a.Title,
		Description:  a.Description,
		MediaType:    string(a.MediaType),
		ContentType:  a.MimeType,
		SizeBytes:    a.Size,
		Status:       string(a.Status),
		Protected:    a.IsProtected,
		Generation:   a.Generation,
		StorageKey:   a.StorageKey,
		Derived:      a.Derived(),
		FailureCause: a.FailureCause,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
