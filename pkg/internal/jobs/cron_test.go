package jobs_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/glebarez/sqlite"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/mediavault/pkg/internal/jobs"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/queue"
)

type fakePublisher struct {
	published map[string][]*message.Message
}

func (f *fakePublisher) Publish(topic string, msgs ...*message.Message) error {
	if f.published == nil {
		f.published = map[string][]*message.Message{}
	}

	f.published[topic] = append(f.published[topic], msgs...)

	return nil
}

func (f *fakePublisher) Close() error { return nil }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.MediaAsset{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func seed(t *testing.T, db *gorm.DB, id string, status model.Status, age time.Duration) {
	t.Helper()

	asset := &model.MediaAsset{
		ID: id, TenantID: "t", StorageKey: "tenants/t/media/" + id,
		MediaType: model.MediaTypeVideo, Status: status, Generation: 1,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatal(err)
	}

	// 回拨 updated_at 模拟滞留
	db.Model(asset).UpdateColumn("updated_at", time.Now().Add(-age))
}

func TestSweepStuckProcessing(t *testing.T) {
	db := openTestDB(t)

	seed(t, db, "01JSTUCKXXXXXXXXXXXXXXXXXX", model.StatusProcessing, time.Hour)
	seed(t, db, "01JFRESHXXXXXXXXXXXXXXXXXX", model.StatusProcessing, time.Minute)

	jobs.SweepStuckProcessing(context.Background(), db, 30*time.Minute)

	var stuck, fresh model.MediaAsset

	db.First(&stuck, "id = ?", "01JSTUCKXXXXXXXXXXXXXXXXXX")
	db.First(&fresh, "id = ?", "01JFRESHXXXXXXXXXXXXXXXXXX")

	if stuck.Status != model.StatusFailed || stuck.FailureCause == "" {
		t.Errorf("stuck row not failed: status=%s cause=%q", stuck.Status, stuck.FailureCause)
	}

	if fresh.Status != model.StatusProcessing {
		t.Errorf("fresh processing row touched: status=%s", fresh.Status)
	}
}

func TestRequeueStaleUploaded(t *testing.T) {
	db := openTestDB(t)
	pub := &fakePublisher{}

	seed(t, db, "01JSTALEXXXXXXXXXXXXXXXXXX", model.StatusUploaded, time.Hour)
	seed(t, db, "01JRCENTXXXXXXXXXXXXXXXXXX", model.StatusUploaded, time.Minute)

	jobs.RequeueStaleUploaded(context.Background(), db, pub)

	msgs := pub.published[queue.TopicMediaProcessRequested]
	if len(msgs) != 1 {
		t.Fatalf("requeued jobs = %d, want 1", len(msgs))
	}

	env, err := queue.ParseProcessRequested(msgs[0])
	if err != nil {
		t.Fatal(err)
	}

	if env.Payload.Asset.AssetID != "01JSTALEXXXXXXXXXXXXXXXXXX" || env.Payload.Generation != 2 {
		t.Errorf("requeue payload mismatch: %+v", env.Payload)
	}

	var requeued model.MediaAsset

	db.First(&requeued, "id = ?", "01JSTALEXXXXXXXXXXXXXXXXXX")

	if requeued.Generation != 2 {
		t.Errorf("generation = %d, want 2 after requeue", requeued.Generation)
	}
}

type fakeStater struct {
	existing map[string]struct{}
	statted  []string
}

func (f *fakeStater) Stat(_ context.Context, key string) (minio.ObjectInfo, error) {
	f.statted = append(f.statted, key)

	if _, ok := f.existing[key]; !ok {
		return minio.ObjectInfo{}, fmt.Errorf("object %s not found", key)
	}

	return minio.ObjectInfo{Key: key}, nil
}

func TestSweepReadyObjectDriftOnlyChecksReadyRows(t *testing.T) {
	db := openTestDB(t)

	seed(t, db, "01JREADYXXXXXXXXXXXXXXXXXX", model.StatusReady, time.Hour)
	seed(t, db, "01JUPLDXXXXXXXXXXXXXXXXXXX", model.StatusUploaded, time.Hour)

	store := &fakeStater{existing: map[string]struct{}{
		"tenants/t/media/01JREADYXXXXXXXXXXXXXXXXXX": {},
	}}

	// 对象缺失只告警不改目录行
	jobs.SweepReadyObjectDrift(context.Background(), db, store)

	if len(store.statted) != 1 || store.statted[0] != "tenants/t/media/01JREADYXXXXXXXXXXXXXXXXXX" {
		t.Errorf("statted keys = %v, want only the ready row's raw key", store.statted)
	}

	var ready model.MediaAsset

	db.First(&ready, "id = ?", "01JREADYXXXXXXXXXXXXXXXXXX")

	if ready.Status != model.StatusReady {
		t.Errorf("drift sweep mutated status: %s", ready.Status)
	}
}
