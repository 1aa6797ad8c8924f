package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxKeyFileNameLen = 128

// BuildStorageKey 生成对象存储键：tenants/{tenantID}/media/{unixts}-{uuid}-{sanitizedName}.
// 时间戳加 UUID 保证全桶唯一且永不复用，替换内容时总是签发新键.
func BuildStorageKey(tenantID, fileName string) string {
	return fmt.Sprintf("tenants/%s/media/%d-%s-%s",
		tenantID, time.Now().Unix(), uuid.NewString(), sanitizeFileName(fileName))
}

// sanitizeFileName 清洗文件名中不适合出现在对象键里的字符.
// 路径分隔符与控制字符替换为下划线，超长截断.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unnamed"
	}

	var b strings.Builder

	b.Grow(len(name))

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	s := b.String()
	if len(s) > maxKeyFileNameLen {
		s = s[len(s)-maxKeyFileNameLen:]
	}

	return s
}
