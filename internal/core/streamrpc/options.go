package streamrpc

import (
	"time"

	"github.com/dep2p/go-lightnode/internal/core/metrics"
)

// DefaultTimeout 默认调用超时
const DefaultTimeout = 30 * time.Second

// Config 调用配置
type Config struct {
	// Timeout context 没有截止时间时使用的超时；0 表示不设超时
	Timeout time.Duration

	// MaxFrameSize 单帧最大长度
	MaxFrameSize int

	// Metrics 指标（可选）
	Metrics *metrics.Metrics
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Timeout:      DefaultTimeout,
		MaxFrameSize: DefaultMaxFrameSize,
	}
}

// Option 配置选项
type Option func(*Config)

// WithTimeout 设置默认超时
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxFrameSize 设置最大帧长度
func WithMaxFrameSize(size int) Option {
	return func(c *Config) {
		c.MaxFrameSize = size
	}
}

// WithMetrics 设置指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}
