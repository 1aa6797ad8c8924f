package service

import (
	"path/filepath"
	"strings"

	"github.com/yeisme/mediavault/pkg/internal/model"
)

// 扩展名到类别的固定表，MIME 无法判定时回退到这里.
var extensionSets = map[model.MediaType]map[string]struct{}{
	model.MediaTypeVideo: {
		".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".webm": {},
		".flv": {}, ".wmv": {}, ".m4v": {}, ".mpeg": {}, ".mpg": {},
	},
	model.MediaTypeImage: {
		".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
		".bmp": {}, ".svg": {}, ".tiff": {}, ".ico": {},
	},
	model.MediaTypeAudio: {
		".mp3": {}, ".wav": {}, ".ogg": {}, ".flac": {}, ".aac": {},
		".m4a": {}, ".wma": {}, ".opus": {},
	},
}

// Classify 解析媒体类别.
// 显式 override 优先，但必须是四个类别之一，否则视为校验错误；
// 无 override 时按 MIME 根 -> 扩展名表 -> document 三级回退，保证全覆盖.
func Classify(mimeType, fileName, override string) (model.MediaType, error) {
	if override != "" {
		t := model.MediaType(strings.ToLower(override))
		if !t.Valid() {
			return "", model.ErrInvalidType
		}

		return t, nil
	}

	return classifyByContent(mimeType, fileName), nil
}

// classifyByContent 三级回退分类，永不失败.
func classifyByContent(mimeType, fileName string) model.MediaType {
	root, _, _ := strings.Cut(strings.ToLower(mimeType), "/")
	switch root {
	case "video":
		return model.MediaTypeVideo
	case "image":
		return model.MediaTypeImage
	case "audio":
		return model.MediaTypeAudio
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	for mediaType, exts := range extensionSets {
		if _, ok := exts[ext]; ok {
			return mediaType
		}
	}

	return model.MediaTypeDocument
}
