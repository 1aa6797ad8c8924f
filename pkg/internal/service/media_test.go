package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/queue"
)

// fakeStore 内存对象存储.
type fakeStore struct {
	objects    map[string][]byte
	failPut    bool
	failRemove map[string]bool
	presigns   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, failRemove: map[string]bool{}}
}

func (f *fakeStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if f.failPut {
		return errors.New("store unreachable")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	f.objects[key] = data

	return nil
}

func (f *fakeStore) Remove(_ context.Context, key string) error {
	if f.failRemove[key] {
		return errors.New("remove failed")
	}

	delete(f.objects, key)

	return nil
}

func (f *fakeStore) PresignedGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	f.presigns++
	return fmt.Sprintf("https://signed.example/%s?ttl=%d", key, int(expiry.Seconds())), nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://public.example/" + key
}

// fakePublisher 记录发布的消息.
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

func testMediaConfig() configs.MediaConfig {
	return configs.MediaConfig{
		MaxUploadBytes:         1 << 20, // 1 MiB，便于测试边界
		UploadURLExpirySeconds: 300,
		AccessURLExpirySeconds: 3600,
	}
}

func testEventsConfig() configs.EventsConfig {
	return configs.EventsConfig{
		Enabled: true,
		Media: configs.MediaEventsConfig{
			Stored: true, Deleted: true, ProcessFailed: true, CleanupFailed: true,
		},
	}
}

func newTestService(t *testing.T) (*service.MediaService, *fakeStore, *fakePublisher, *gorm.DB) {
	t.Helper()

	store := newFakeStore()
	pub := newFakePublisher()
	db := openTestDB(t)
	svc := service.NewMediaServiceWith(store, db, pub, testMediaConfig(), testEventsConfig())

	return svc, store, pub, db
}

func acceptInput(tenant, name, mime string, size int64) *service.AcceptInput {
	return &service.AcceptInput{
		TenantID:     tenant,
		UploaderID:   "user-1",
		FileName:     name,
		ContentType:  mime,
		DeclaredSize: size,
		Body:         bytes.NewReader(bytes.Repeat([]byte{0xAB}, int(size))),
	}
}

func TestAcceptCreatesAssetAndEnqueues(t *testing.T) {
	svc, store, pub, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Accept(ctx, acceptInput("tenant-a", "clip.mp4", "video/mp4", 10))
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}

	if resp.Status != string(model.StatusUploaded) {
		t.Errorf("status = %s, want uploaded", resp.Status)
	}

	if resp.MediaType != string(model.MediaTypeVideo) {
		t.Errorf("media type = %s, want video", resp.MediaType)
	}

	if resp.TemporarySignedURL == "" || !strings.Contains(resp.TemporarySignedURL, "ttl=300") {
		t.Errorf("feedback url missing 5-minute expiry: %s", resp.TemporarySignedURL)
	}

	if _, ok := store.objects[resp.StorageKey]; !ok {
		t.Error("raw object missing from store")
	}

	var asset model.MediaAsset
	if err := db.First(&asset, "id = ?", resp.AssetID).Error; err != nil {
		t.Fatalf("catalog row missing: %v", err)
	}

	if asset.Generation != 1 {
		t.Errorf("generation = %d, want 1", asset.Generation)
	}

	jobs := pub.published[queue.TopicMediaProcessRequested]
	if len(jobs) != 1 {
		t.Fatalf("process jobs = %d, want 1", len(jobs))
	}

	env, err := queue.ParseProcessRequested(jobs[0])
	if err != nil {
		t.Fatalf("parse job: %v", err)
	}

	if env.Payload.Asset.AssetID != resp.AssetID || env.Payload.Generation != 1 {
		t.Errorf("job payload mismatch: %+v", env.Payload)
	}

	// 同一 asset/generation 的消息 ID 必须确定，供流去重
	wantID := queue.DeterministicID(resp.AssetID, "1")
	if jobs[0].UUID != wantID {
		t.Errorf("job id = %s, want deterministic %s", jobs[0].UUID, wantID)
	}

	if len(pub.published[queue.TopicMediaStored]) != 1 {
		t.Error("stored event not published")
	}
}

func TestAcceptSizeCeiling(t *testing.T) {
	svc, store, _, db := newTestService(t)
	ctx := context.Background()

	// 恰好到达上限：成功
	at := acceptInput("t", "exact.bin", "application/octet-stream", 1<<20)
	if _, err := svc.Accept(ctx, at); err != nil {
		t.Fatalf("accept at ceiling: %v", err)
	}

	// 超出一字节：拒绝，无对象无目录行
	over := &service.AcceptInput{
		TenantID: "t", UploaderID: "u", FileName: "over.bin",
		ContentType: "application/octet-stream", DeclaredSize: (1 << 20) + 1,
		Body: strings.NewReader("should not be read"),
	}

	before := len(store.objects)

	_, err := svc.Accept(ctx, over)
	if !errors.Is(err, model.ErrPayloadTooLarge) {
		t.Fatalf("err = %v, want ErrPayloadTooLarge", err)
	}

	if len(store.objects) != before {
		t.Error("object written despite rejection")
	}

	var count int64

	db.Model(&model.MediaAsset{}).Where("file_name = ?", "over.bin").Count(&count)

	if count != 0 {
		t.Error("catalog row created despite rejection")
	}
}

func TestAcceptStorageFailureLeavesNoRow(t *testing.T) {
	svc, store, _, db := newTestService(t)
	store.failPut = true

	_, err := svc.Accept(context.Background(), acceptInput("t", "x.bin", "", 4))
	if !errors.Is(err, model.ErrStorageWrite) {
		t.Fatalf("err = %v, want ErrStorageWrite", err)
	}

	var count int64

	db.Model(&model.MediaAsset{}).Count(&count)

	if count != 0 {
		t.Error("catalog row created after storage failure")
	}
}

func TestResolveProtectedReissuesURL(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Accept(ctx, acceptInput("tenant-a", "doc.pdf", "application/pdf", 8))
	if err != nil {
		t.Fatal(err)
	}

	before := store.presigns

	r1, err := svc.Resolve(ctx, "tenant-a", resp.AssetID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if !r1.Protected || !strings.Contains(r1.URL, "ttl=3600") {
		t.Errorf("protected resolve missing 1h signed url: %+v", r1)
	}

	// 每次调用都重新签发
	if _, err := svc.Resolve(ctx, "tenant-a", resp.AssetID); err != nil {
		t.Fatal(err)
	}

	if store.presigns != before+2 {
		t.Errorf("presign calls = %d, want %d", store.presigns, before+2)
	}
}

func TestResolvePublicAndTenantIsolation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	public := false
	in := acceptInput("tenant-a", "logo.png", "image/png", 4)
	in.Protected = &public

	resp, err := svc.Accept(ctx, in)
	if err != nil {
		t.Fatal(err)
	}

	r, err := svc.Resolve(ctx, "tenant-a", resp.AssetID)
	if err != nil {
		t.Fatal(err)
	}

	if r.Protected || !strings.HasPrefix(r.URL, "https://public.example/") {
		t.Errorf("public resolve wrong: %+v", r)
	}

	if r.ExpiresIn != 0 {
		t.Errorf("public url should not expire, got %d", r.ExpiresIn)
	}

	// 其他租户不可见
	if _, err := svc.Resolve(ctx, "tenant-b", resp.AssetID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("cross-tenant resolve: err = %v, want ErrNotFound", err)
	}
}

func TestReplaceRotatesKeyAndGeneration(t *testing.T) {
	svc, store, pub, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Accept(ctx, acceptInput("t", "v1.mp4", "video/mp4", 6))
	if err != nil {
		t.Fatal(err)
	}

	oldKey := resp.StorageKey

	// 模拟已有派生缩略图
	var asset model.MediaAsset

	db.First(&asset, "id = ?", resp.AssetID)
	thumbKey := oldKey + ".thumb.jpg"
	store.objects[thumbKey] = []byte("jpg")
	asset.SetDerived(map[string]string{model.DerivedThumbnailKey: thumbKey})
	db.Model(&asset).Update("derived_json", asset.DerivedJSON)

	rep, err := svc.Replace(ctx, &service.ReplaceInput{
		TenantID: "t", AssetID: resp.AssetID,
		FileName: "v2.mp4", ContentType: "video/mp4",
		DeclaredSize: 6, Body: strings.NewReader("newv2!"),
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if rep.StorageKey == oldKey {
		t.Error("storage key not rotated")
	}

	if _, ok := store.objects[oldKey]; ok {
		t.Error("old raw object not removed")
	}

	if _, ok := store.objects[thumbKey]; ok {
		t.Error("old derived thumbnail not removed")
	}

	db.First(&asset, "id = ?", resp.AssetID)

	if asset.Generation != 2 {
		t.Errorf("generation = %d, want 2", asset.Generation)
	}

	if asset.Status != model.StatusUploaded {
		t.Errorf("status = %s, want uploaded", asset.Status)
	}

	if len(asset.Derived()) != 0 {
		t.Error("derived map not cleared on replace")
	}

	jobs := pub.published[queue.TopicMediaProcessRequested]
	if len(jobs) != 2 {
		t.Fatalf("process jobs = %d, want 2 (initial + replace)", len(jobs))
	}

	env, _ := queue.ParseProcessRequested(jobs[1])
	if env.Payload.Generation != 2 || env.Payload.StorageKey != rep.StorageKey {
		t.Errorf("replace job payload mismatch: %+v", env.Payload)
	}
}

func TestReplaceCleanupFailureEmitsReconciliation(t *testing.T) {
	svc, store, pub, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Accept(ctx, acceptInput("t", "v1.mp4", "video/mp4", 4))
	if err != nil {
		t.Fatal(err)
	}

	store.failRemove[resp.StorageKey] = true

	if _, err := svc.Replace(ctx, &service.ReplaceInput{
		TenantID: "t", AssetID: resp.AssetID,
		FileName: "v2.mp4", ContentType: "video/mp4",
		DeclaredSize: 4, Body: strings.NewReader("newv"),
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	events := pub.published[queue.TopicMediaCleanupFailed]
	if len(events) != 1 {
		t.Fatalf("cleanup events = %d, want 1", len(events))
	}

	env, err := queue.ParseWatermillMessage[queue.CleanupFailedPayload](events[0])
	if err != nil {
		t.Fatal(err)
	}

	if env.Payload.Operation != "replace" || len(env.Payload.OrphanedKeys) != 1 || env.Payload.OrphanedKeys[0] != resp.StorageKey {
		t.Errorf("reconciliation payload mismatch: %+v", env.Payload)
	}
}

func TestUpdateMetadataDoesNotEnqueue(t *testing.T) {
	svc, _, pub, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Accept(ctx, acceptInput("t", "clip.mp4", "video/mp4", 4))
	if err != nil {
		t.Fatal(err)
	}

	jobsBefore := len(pub.published[queue.TopicMediaProcessRequested])

	title := "Intro lecture"

	updated, err := svc.UpdateMetadata(ctx, "t", resp.AssetID, &types.UpdateAssetRequest{Title: &title})
	if err != nil {
		t.Fatalf("UpdateMetadata: %v", err)
	}

	if updated.StorageKey != resp.StorageKey {
		t.Error("metadata edit must not rotate storage key")
	}

	var asset model.MediaAsset

	db.First(&asset, "id = ?", resp.AssetID)

	if asset.Title != title {
		t.Errorf("title = %q, want %q", asset.Title, title)
	}

	if asset.Generation != 1 || asset.Status != model.StatusUploaded {
		t.Errorf("metadata edit mutated lifecycle: gen=%d status=%s", asset.Generation, asset.Status)
	}

	if len(pub.published[queue.TopicMediaProcessRequested]) != jobsBefore {
		t.Error("metadata-only edit enqueued a processing job")
	}
}

func TestDeleteRemovesRowAndObjects(t *testing.T) {
	svc, store, pub, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Accept(ctx, acceptInput("t", "gone.bin", "", 4))
	if err != nil {
		t.Fatal(err)
	}

	out, err := svc.Delete(ctx, "t", resp.AssetID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if !out.Deleted || len(out.OrphanedKeys) != 0 {
		t.Errorf("unexpected delete result: %+v", out)
	}

	if _, ok := store.objects[resp.StorageKey]; ok {
		t.Error("raw object still in store")
	}

	if _, err := svc.Get(ctx, "t", resp.AssetID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}

	var count int64

	db.Model(&model.MediaAsset{}).Where("id = ?", resp.AssetID).Count(&count)

	if count != 0 {
		t.Error("catalog row still visible after delete")
	}

	if len(pub.published[queue.TopicMediaDeleted]) != 1 {
		t.Error("deleted event not published")
	}
}

func TestDeleteMissingAssetNoSideEffects(t *testing.T) {
	svc, _, pub, _ := newTestService(t)

	_, err := svc.Delete(context.Background(), "t", "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if len(pub.published[queue.TopicMediaDeleted]) != 0 {
		t.Error("event published for missing asset")
	}
}

func TestDeleteKeepsRowGoneDespiteStorageFailure(t *testing.T) {
	svc, store, pub, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Accept(ctx, acceptInput("t", "stuck.bin", "", 4))
	if err != nil {
		t.Fatal(err)
	}

	store.failRemove[resp.StorageKey] = true

	out, err := svc.Delete(ctx, "t", resp.AssetID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(out.OrphanedKeys) != 1 {
		t.Errorf("orphaned keys = %v, want the raw key", out.OrphanedKeys)
	}

	// 目录前进优先于存储卫生
	if _, err := svc.Get(ctx, "t", resp.AssetID); !errors.Is(err, model.ErrNotFound) {
		t.Error("catalog row survived delete")
	}

	if len(pub.published[queue.TopicMediaCleanupFailed]) != 1 {
		t.Error("reconciliation event not published")
	}
}

func TestListPaginatedWithoutURLs(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	for i := range 5 {
		name := fmt.Sprintf("f%d.png", i)
		if _, err := svc.Accept(ctx, acceptInput("t", name, "image/png", 2)); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := svc.Accept(ctx, acceptInput("other", "x.png", "image/png", 2)); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.List(ctx, "t", &types.ListAssetsRequest{Page: 1, PageSize: 3})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if resp.Total != 5 || len(resp.Assets) != 3 {
		t.Errorf("total=%d len=%d, want 5/3", resp.Total, len(resp.Assets))
	}

	filtered, err := svc.List(ctx, "t", &types.ListAssetsRequest{MediaType: "video"})
	if err != nil {
		t.Fatal(err)
	}

	if filtered.Total != 0 {
		t.Errorf("video filter total = %d, want 0", filtered.Total)
	}
}
