package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobStuckProcessingSweep = "media.sweep.stuck_processing"
	JobStaleUploadedRequeue = "media.sweep.stale_uploaded"
	JobReadyObjectDrift     = "media.sweep.ready_drift"
)

// Cron 表达式常量，集中管理.
const (
	CronStuckProcessingSweep = "*/10 * * * *" // 每 10 分钟
	CronStaleUploadedRequeue = "*/15 * * * *" // 每 15 分钟
	CronReadyObjectDrift     = "30 3 * * *"   // 每天一次
)
