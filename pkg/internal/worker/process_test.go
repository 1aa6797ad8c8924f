package worker_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/worker"
	"github.com/yeisme/mediavault/pkg/queue"
)

// fakeStore 记录下载与上传的对象键.
type fakeStore struct {
	downloads []string
	uploads   map[string]string // key -> contentType
	failGet   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: map[string]string{}}
}

func (f *fakeStore) GetToFile(_ context.Context, key, localPath string) error {
	if f.failGet {
		return errors.New("object store down")
	}

	f.downloads = append(f.downloads, key)

	return os.WriteFile(localPath, []byte("raw-bytes"), 0o600)
}

func (f *fakeStore) PutFromFile(_ context.Context, key, localPath, contentType string) error {
	if _, err := os.Stat(localPath); err != nil {
		return err
	}

	f.uploads[key] = contentType

	return nil
}

// fakeThumbnailer 写出占位封面文件.
type fakeThumbnailer struct {
	calls int
	fail  bool
}

func (f *fakeThumbnailer) Thumbnail(_ context.Context, _, dstPath string, _, _ int) error {
	f.calls++
	if f.fail {
		return errors.New("decode error")
	}

	return os.WriteFile(dstPath, []byte("jpeg"), 0o600)
}

type fakePublisher struct {
	published map[string][]*message.Message
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: map[string][]*message.Message{}}
}

func (f *fakePublisher) Publish(topic string, msgs ...*message.Message) error {
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

func workerConfig(t *testing.T) configs.WorkerConfig {
	t.Helper()

	return configs.WorkerConfig{
		Concurrency:     1,
		MaxAttempts:     2,
		BackoffBaseMS:   1,
		TempDir:         t.TempDir(),
		ThumbnailWidth:  320,
		ThumbnailHeight: 180,
	}
}

func eventsConfig() configs.EventsConfig {
	return configs.EventsConfig{
		Enabled: true,
		Media:   configs.MediaEventsConfig{ProcessFailed: true},
	}
}

func seedAsset(t *testing.T, db *gorm.DB, mediaType model.MediaType, gen int64) *model.MediaAsset {
	t.Helper()

	asset := &model.MediaAsset{
		ID:         "01JTESTASSETIDXXXXXXXXXXXX",
		TenantID:   "tenant-a",
		UploadedBy: "user-1",
		FileName:   "clip.mp4",
		MimeType:   "video/mp4",
		Size:       9,
		StorageKey: "tenants/tenant-a/media/1-uuid-clip.mp4",
		MediaType:  mediaType,
		Status:     model.StatusUploaded,
		Generation: gen,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	return asset
}

func jobFor(asset *model.MediaAsset) *queue.ProcessRequestedPayload {
	return &queue.ProcessRequestedPayload{
		Asset:      queue.AssetRef{AssetID: asset.ID, TenantID: asset.TenantID},
		Generation: asset.Generation,
		StorageKey: asset.StorageKey,
		MediaType:  string(asset.MediaType),
	}
}

func TestProcessVideoProducesThumbnailAndReady(t *testing.T) {
	db := openTestDB(t)
	store := newFakeStore()
	thumb := &fakeThumbnailer{}
	w := worker.NewWorkerWith(store, db, newFakePublisher(), thumb, workerConfig(t), eventsConfig())

	asset := seedAsset(t, db, model.MediaTypeVideo, 1)
	w.Process(context.Background(), jobFor(asset))

	var got model.MediaAsset

	db.First(&got, "id = ?", asset.ID)

	if got.Status != model.StatusReady {
		t.Fatalf("status = %s, want ready", got.Status)
	}

	wantThumb := asset.StorageKey + worker.DerivedThumbnailSuffix
	if got.ThumbnailKey() != wantThumb {
		t.Errorf("thumbnail key = %q, want %q", got.ThumbnailKey(), wantThumb)
	}

	if ct := store.uploads[wantThumb]; ct != "image/jpeg" {
		t.Errorf("derived upload content type = %q", ct)
	}
}

func TestProcessIdempotentRerun(t *testing.T) {
	db := openTestDB(t)
	store := newFakeStore()
	w := worker.NewWorkerWith(store, db, newFakePublisher(), &fakeThumbnailer{}, workerConfig(t), eventsConfig())

	asset := seedAsset(t, db, model.MediaTypeVideo, 1)
	job := jobFor(asset)

	w.Process(context.Background(), job)

	var first model.MediaAsset

	db.First(&first, "id = ?", asset.ID)

	// 同一任务重复投递：重跑安全，派生键不变
	w.Process(context.Background(), job)

	var second model.MediaAsset

	db.First(&second, "id = ?", asset.ID)

	if first.ThumbnailKey() != second.ThumbnailKey() {
		t.Errorf("derived key changed across reruns: %q vs %q", first.ThumbnailKey(), second.ThumbnailKey())
	}

	if second.Status != model.StatusReady {
		t.Errorf("status = %s after rerun, want ready", second.Status)
	}
}

func TestProcessStaleGenerationDropped(t *testing.T) {
	db := openTestDB(t)
	store := newFakeStore()
	w := worker.NewWorkerWith(store, db, newFakePublisher(), &fakeThumbnailer{}, workerConfig(t), eventsConfig())

	asset := seedAsset(t, db, model.MediaTypeVideo, 2)

	// 代际 1 的旧任务在替换后重投
	stale := jobFor(asset)
	stale.Generation = 1

	w.Process(context.Background(), stale)

	var got model.MediaAsset

	db.First(&got, "id = ?", asset.ID)

	if got.Status != model.StatusUploaded {
		t.Errorf("stale job mutated row: status = %s", got.Status)
	}

	if len(store.downloads) != 0 {
		t.Error("stale job performed storage I/O")
	}
}

func TestProcessNonVideoReadyWithoutDerived(t *testing.T) {
	db := openTestDB(t)
	store := newFakeStore()
	thumb := &fakeThumbnailer{}
	w := worker.NewWorkerWith(store, db, newFakePublisher(), thumb, workerConfig(t), eventsConfig())

	asset := seedAsset(t, db, model.MediaTypeImage, 1)
	w.Process(context.Background(), jobFor(asset))

	var got model.MediaAsset

	db.First(&got, "id = ?", asset.ID)

	if got.Status != model.StatusReady {
		t.Fatalf("status = %s, want ready", got.Status)
	}

	if len(got.Derived()) != 0 {
		t.Errorf("non-video asset got derived artifacts: %v", got.Derived())
	}

	if thumb.calls != 0 {
		t.Error("thumbnailer invoked for non-video asset")
	}
}

func TestProcessRetriesExhaustedMarksFailed(t *testing.T) {
	db := openTestDB(t)
	store := newFakeStore()
	thumb := &fakeThumbnailer{fail: true}
	pub := newFakePublisher()
	cfg := workerConfig(t)
	w := worker.NewWorkerWith(store, db, pub, thumb, cfg, eventsConfig())

	asset := seedAsset(t, db, model.MediaTypeVideo, 1)
	w.Process(context.Background(), jobFor(asset))

	if thumb.calls != cfg.MaxAttempts {
		t.Errorf("attempts = %d, want %d", thumb.calls, cfg.MaxAttempts)
	}

	var got model.MediaAsset

	db.First(&got, "id = ?", asset.ID)

	if got.Status != model.StatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}

	if got.FailureCause == "" {
		t.Error("failure cause not recorded")
	}

	events := pub.published[queue.TopicMediaProcessFailed]
	if len(events) != 1 {
		t.Fatalf("process failed events = %d, want 1", len(events))
	}

	env, err := queue.ParseWatermillMessage[queue.ProcessFailedPayload](events[0])
	if err != nil {
		t.Fatal(err)
	}

	if env.Payload.Attempts != cfg.MaxAttempts || env.Payload.Asset.AssetID != asset.ID {
		t.Errorf("event payload mismatch: %+v", env.Payload)
	}
}

func TestProcessClaimSetsProcessingBeforeIO(t *testing.T) {
	db := openTestDB(t)
	store := newFakeStore()
	store.failGet = true

	cfg := workerConfig(t)
	cfg.MaxAttempts = 1
	w := worker.NewWorkerWith(store, db, newFakePublisher(), &fakeThumbnailer{}, cfg, eventsConfig())

	asset := seedAsset(t, db, model.MediaTypeVideo, 1)
	w.Process(context.Background(), jobFor(asset))

	// 下载失败且重试耗尽：行必须已离开 uploaded（先认领后 I/O），并终结为 failed
	var got model.MediaAsset

	db.First(&got, "id = ?", asset.ID)

	if got.Status != model.StatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
}
