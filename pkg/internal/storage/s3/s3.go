// Package s3 处理对象存储操作：媒体原始对象与派生物的读写、删除及签名URL生成.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/mediavault/pkg/configs"
	nlog "github.com/yeisme/mediavault/pkg/log"
)

// Client 包装 MinIO 客户端，并固定操作配置的媒体桶.
type Client struct {
	*minio.Client

	bucket string
}

// New 初始化 MinIO 客户端，若媒体桶不存在则尝试创建.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().S3
	endpoint := cfg.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("mediavault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.Bucket).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("s3 connected")

	return &Client{Client: cli, bucket: cfg.Bucket}, nil
}

// Bucket 返回客户端绑定的媒体桶名.
func (c *Client) Bucket() string {
	return c.bucket
}

// Put 将流写入指定键. size 为 -1 时使用分片上传.
func (c *Client) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := c.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	return nil
}

// GetToFile 将对象下载到本地路径，大对象走文件避免占用内存.
func (c *Client) GetToFile(ctx context.Context, key, localPath string) error {
	if err := c.FGetObject(ctx, c.bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download object %s: %w", key, err)
	}

	return nil
}

// PutFromFile 将本地文件上传到指定键.
func (c *Client) PutFromFile(ctx context.Context, key, localPath, contentType string) error {
	_, err := c.FPutObject(ctx, c.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload file to %s: %w", key, err)
	}

	return nil
}

// Remove 删除指定键，键不存在视为成功.
func (c *Client) Remove(ctx context.Context, key string) error {
	if err := c.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}

// Stat 返回对象元信息，不存在返回错误.
func (c *Client) Stat(ctx context.Context, key string) (minio.ObjectInfo, error) {
	return c.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
}

// PresignedGet 生成限时下载URL.
func (c *Client) PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := c.PresignedGetObject(ctx, c.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}

	return u.String(), nil
}

// PresignedPut 生成限时上传URL，供客户端直传.
func (c *Client) PresignedPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := c.PresignedPutObject(ctx, c.bucket, key, expiry)
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}

	return u.String(), nil
}

// PublicURL 拼接未受保护资产的稳定公共URL，不经过签名.
func (c *Client) PublicURL(key string) string {
	base := strings.TrimSuffix(configs.GetConfig().S3.GetPublicBaseURL(), "/")
	return fmt.Sprintf("%s/%s/%s", base, c.bucket, key)
}

// HealthCheck 简单的健康检查，通过列出桶来验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}
