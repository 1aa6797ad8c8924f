package service_test

import (
	"strings"
	"testing"

	"github.com/yeisme/mediavault/pkg/internal/service"
)

func TestBuildStorageKeyShape(t *testing.T) {
	key := service.BuildStorageKey("tenant-a", "lecture 01/intro.mp4")

	if !strings.HasPrefix(key, "tenants/tenant-a/media/") {
		t.Fatalf("unexpected prefix: %s", key)
	}

	// 路径分隔符与空格必须被清洗掉
	rest := strings.TrimPrefix(key, "tenants/tenant-a/media/")
	if strings.ContainsAny(rest, "/ ") {
		t.Errorf("unsanitized characters in key tail: %s", rest)
	}

	if !strings.HasSuffix(key, ".mp4") {
		t.Errorf("extension lost: %s", key)
	}
}

func TestBuildStorageKeyUnique(t *testing.T) {
	seen := map[string]bool{}

	for range 100 {
		key := service.BuildStorageKey("t", "same.bin")
		if seen[key] {
			t.Fatalf("duplicate key generated: %s", key)
		}

		seen[key] = true
	}
}

func TestBuildStorageKeyEmptyName(t *testing.T) {
	key := service.BuildStorageKey("t", "   ")
	if !strings.HasSuffix(key, "unnamed") {
		t.Errorf("empty name not defaulted: %s", key)
	}
}
