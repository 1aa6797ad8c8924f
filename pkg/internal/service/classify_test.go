package service_test

import (
	"errors"
	"testing"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/service"
)

func TestClassifyMIMEPrecedence(t *testing.T) {
	cases := []struct {
		mime, name string
		want       model.MediaType
	}{
		{"video/mp4", "whatever.txt", model.MediaTypeVideo},
		{"video/x-matroska", "no-extension", model.MediaTypeVideo},
		{"image/png", "clip.mp4", model.MediaTypeImage},
		{"audio/mpeg", "photo.jpg", model.MediaTypeAudio},
	}

	for _, c := range cases {
		got, err := service.Classify(c.mime, c.name, "")
		if err != nil {
			t.Fatalf("Classify(%q, %q): %v", c.mime, c.name, err)
		}

		if got != c.want {
			t.Errorf("Classify(%q, %q) = %s, want %s", c.mime, c.name, got, c.want)
		}
	}
}

func TestClassifyExtensionFallback(t *testing.T) {
	// 通用 MIME 下扩展名表接管
	got, err := service.Classify("application/octet-stream", "clip.mp4", "")
	if err != nil {
		t.Fatal(err)
	}

	if got != model.MediaTypeVideo {
		t.Errorf("got %s, want video", got)
	}

	got, _ = service.Classify("", "COVER.JPEG", "")
	if got != model.MediaTypeImage {
		t.Errorf("got %s, want image (case-insensitive extension)", got)
	}

	got, _ = service.Classify("", "track.flac", "")
	if got != model.MediaTypeAudio {
		t.Errorf("got %s, want audio", got)
	}
}

func TestClassifyDocumentFallbackTotality(t *testing.T) {
	cases := [][2]string{
		{"application/octet-stream", "data.bin"},
		{"", ""},
		{"x-invalid", "noext"},
		{"text/plain", "notes.txt"},
	}

	for _, c := range cases {
		got, err := service.Classify(c[0], c[1], "")
		if err != nil {
			t.Fatalf("Classify(%q, %q): %v", c[0], c[1], err)
		}

		if got != model.MediaTypeDocument {
			t.Errorf("Classify(%q, %q) = %s, want document", c[0], c[1], got)
		}
	}
}

func TestClassifyOverride(t *testing.T) {
	got, err := service.Classify("video/mp4", "clip.mp4", "document")
	if err != nil {
		t.Fatal(err)
	}

	if got != model.MediaTypeDocument {
		t.Errorf("override ignored: got %s", got)
	}

	if _, err := service.Classify("video/mp4", "clip.mp4", "hologram"); !errors.Is(err, model.ErrInvalidType) {
		t.Errorf("invalid override: got err %v, want ErrInvalidType", err)
	}
}
