// Package log 提供 go-lightnode 统一日志接口
//
// 基于 go.uber.org/zap 封装，提供简洁的键值对日志 API：
//
//	var logger = log.Logger("protocol/filter")
//	logger.Debug("收到推送", "peerID", log.TruncateID(id, 8))
//
// 组件 logger 是懒加载的：每次调用时读取当前的默认 zap.Logger，
// 因此在运行时调用 SetDefault 可以切换所有组件的输出。
package log

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 日志级别常量（从 zapcore 导出，方便使用）
const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// 默认 logger
var defaultLogger atomic.Pointer[zap.Logger]

// SetDefault 设置默认 logger
//
// 传入 nil 等价于 zap.NewNop()。
func SetDefault(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	defaultLogger.Store(l)
}

// Default 返回默认 logger
func Default() *zap.Logger {
	return defaultLogger.Load()
}

// New 创建指定级别的生产格式 logger（JSON 输出到 stderr）
func New(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// NewDevelopment 创建开发格式 logger（彩色文本输出）
func NewDevelopment(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 每次日志调用时都从 Default() 获取最新的 logger，
// 支持在运行时动态切换日志输出目标。
type LazyLogger struct {
	component string
}

func (l *LazyLogger) sugar() *zap.SugaredLogger {
	return Default().Named(l.component).Sugar()
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.sugar().Debugw(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.sugar().Infow(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.sugar().Warnw(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.sugar().Errorw(msg, args...)
}

// DebugContext 带 context 的 Debug 日志
//
// context 被取消时仍然输出，context 只用于未来挂载 trace 信息。
func (l *LazyLogger) DebugContext(_ context.Context, msg string, args ...any) {
	l.sugar().Debugw(msg, args...)
}

// With 添加额外的属性
func (l *LazyLogger) With(args ...any) *zap.SugaredLogger {
	return l.sugar().With(args...)
}

// Enabled 检查指定级别是否会输出
func (l *LazyLogger) Enabled(level zapcore.Level) bool {
	return Default().Core().Enabled(level)
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

// ============================================================================
//                              工具函数
// ============================================================================

// TruncateID 安全截取 ID 用于日志显示
//
// 如果 ID 长度小于等于 maxLen，返回原 ID；
// 否则返回前 maxLen 个字符。
func TruncateID(id string, maxLen int) string {
	if len(id) <= maxLen {
		return id
	}
	return id[:maxLen]
}

// ============================================================================
//                              初始化
// ============================================================================

func init() {
	l, err := New(LevelInfo)
	if err != nil {
		l = zap.NewNop()
	}
	defaultLogger.Store(l)
}
