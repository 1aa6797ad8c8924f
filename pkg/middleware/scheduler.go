package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/scheduler"
)

type schedulerKey struct{}

// SchedulerMiddleware 将调度器注入请求上下文，供管理接口查询任务状态.
func SchedulerMiddleware(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), schedulerKey{}, sched)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetScheduler 从上下文取出调度器，未注入时返回nil.
func GetScheduler(ctx context.Context) *scheduler.Scheduler {
	if sched, ok := ctx.Value(schedulerKey{}).(*scheduler.Scheduler); ok {
		return sched
	}
	return nil
}
