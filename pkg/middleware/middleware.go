// Package middleware 提供 Gin 中间件：依赖注入、认证、日志、指标、追踪与防护.
package middleware
