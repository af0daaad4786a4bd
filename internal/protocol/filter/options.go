package filter

import (
	"github.com/dep2p/go-lightnode/internal/core/metrics"
	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
)

// DefaultDedupCacheSize 推送去重缓存的默认容量
const DefaultDedupCacheSize = 1024

// Config Filter 服务配置
type Config struct {
	// PubsubTopic CreateSubscription 未指定 topic 时使用
	PubsubTopic string

	// Dedup 是否按消息哈希丢弃重复推送
	Dedup bool

	// DedupCacheSize 去重缓存容量
	DedupCacheSize int

	// MaxFrameSize 推送帧最大长度
	MaxFrameSize int

	// Metrics 指标（可选）
	Metrics *metrics.Metrics
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		PubsubTopic:    protocolids.DefaultPubsubTopic,
		DedupCacheSize: DefaultDedupCacheSize,
		MaxFrameSize:   streamrpc.DefaultMaxFrameSize,
	}
}

// Option 配置选项函数
type Option func(*Config)

// WithPubsubTopic 设置默认 pubsub topic
func WithPubsubTopic(topic string) Option {
	return func(c *Config) {
		c.PubsubTopic = topic
	}
}

// WithDedup 启用推送去重
func WithDedup(size int) Option {
	return func(c *Config) {
		c.Dedup = true
		if size > 0 {
			c.DedupCacheSize = size
		}
	}
}

// WithMaxFrameSize 设置推送帧最大长度
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
