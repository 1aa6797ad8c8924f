package model

import "errors"

// 领域错误哨兵，handler 层据此映射 HTTP 状态码.
var (
	// ErrNotFound 资产不存在或租户不匹配.
	ErrNotFound = errors.New("media asset not found")
	// ErrPayloadTooLarge 声明大小超出上传上限，未触碰存储.
	ErrPayloadTooLarge = errors.New("payload exceeds upload ceiling")
	// ErrInvalidType 显式类型覆盖不在四个类别之内.
	ErrInvalidType = errors.New("invalid media type override")
	// ErrStorageWrite 主路径对象写入失败，调用中止且不建目录行.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrStaleGeneration 工作进程提交时目录行已被更新的代际取代.
	ErrStaleGeneration = errors.New("stale processing generation")
)
