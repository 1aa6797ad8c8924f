// Package worker 实现媒体后处理工作进程：消费处理任务，下载原始对象，
// 生成派生物并以代际护栏提交目录状态.
package worker

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/storage"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
)

// ObjectStore 工作进程对对象存储的依赖，由 s3.Client 满足.
type ObjectStore interface {
	GetToFile(ctx context.Context, key, localPath string) error
	PutFromFile(ctx context.Context, key, localPath, contentType string) error
}

// Worker 后处理工作进程.
type Worker struct {
	store  ObjectStore
	db     *gorm.DB
	pub    message.Publisher
	sub    Subscriber
	cfg    configs.WorkerConfig
	events configs.EventsConfig
	thumb  Thumbnailer
}

// Subscriber 任务来源，由 mq.Client 满足.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// NewWorker 从存储管理器构造工作进程.
func NewWorker(mgr *storage.Manager) *Worker {
	cfg := configs.GetConfig()

	return &Worker{
		store:  mgr.GetS3Client(),
		db:     mgr.GetDBClient().GetDB(),
		pub:    mgr.GetMQClient().Publisher(),
		sub:    mgr.GetMQClient(),
		cfg:    cfg.Worker,
		events: cfg.Events,
		thumb:  &FFmpegThumbnailer{Path: cfg.Worker.FFmpegPath},
	}
}

// NewWorkerWith 显式注入依赖，供测试使用.
func NewWorkerWith(store ObjectStore, db *gorm.DB, pub message.Publisher, thumb Thumbnailer,
	cfg configs.WorkerConfig, events configs.EventsConfig,
) *Worker {
	return &Worker{store: store, db: db, pub: pub, thumb: thumb, cfg: cfg, events: events}
}

// Run 订阅处理任务并以固定并发消费，直到 ctx 取消.
// 队列语义为 at-least-once，处理逻辑必须容忍重复投递.
func (w *Worker) Run(ctx context.Context) error {
	if w.sub == nil {
		return fmt.Errorf("worker subscriber not configured")
	}

	msgs, err := w.sub.Subscribe(ctx, queue.TopicMediaProcessRequested)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", queue.TopicMediaProcessRequested, err)
	}

	nlog.Logger().Info().
		Int("concurrency", w.cfg.Concurrency).
		Str("topic", queue.TopicMediaProcessRequested).
		Msg("processing worker started")

	g, gctx := errgroup.WithContext(ctx)

	for range w.cfg.Concurrency {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case msg, ok := <-msgs:
					if !ok {
						return nil
					}

					w.consume(gctx, msg)
				}
			}
		})
	}

	return g.Wait()
}

// consume 解析并处理单条任务消息.
// 解析失败的消息无法恢复，直接确认丢弃；处理结果无论成功、过期还是
// 重试耗尽都已落库，同样确认.
func (w *Worker) consume(ctx context.Context, msg *message.Message) {
	env, err := queue.ParseProcessRequested(msg)
	if err != nil {
		nlog.Logger().Error().Err(err).Str("msg_id", msg.UUID).Msg("drop malformed job message")
		msg.Ack()

		return
	}

	w.Process(ctx, &env.Payload)
	msg.Ack()
}
