package worker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Thumbnailer 从本地媒体文件生成封面图.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, srcPath, dstPath string, width, height int) error
}

// FFmpegThumbnailer 调用外部 ffmpeg 进程抽取单帧封面.
type FFmpegThumbnailer struct {
	// Path ffmpeg 可执行文件路径，空则依赖 PATH.
	Path string
}

// Thumbnail 抽取代表帧并缩放到固定尺寸，输出 JPEG.
func (f *FFmpegThumbnailer) Thumbnail(ctx context.Context, srcPath, dstPath string, width, height int) error {
	bin := f.Path
	if bin == "" {
		bin = "ffmpeg"
	}

	args := []string{
		"-y",
		"-i", srcPath,
		"-vf", fmt.Sprintf("thumbnail,scale=%d:%d", width, height),
		"-frames:v", "1",
		dstPath,
	}

	cmd := exec.CommandContext(ctx, bin, args...)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg thumbnail: %w: %s", err, stderr.String())
	}

	return nil
}
