package store

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-lightnode/internal/core/metrics"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// DefaultPageSize 默认页大小
const DefaultPageSize = 10

// Config Store 服务配置
type Config struct {
	// PubsubTopic 查询未指定 topic 时使用
	PubsubTopic string

	// PageSize 默认页大小
	PageSize uint64

	// Direction 默认翻页方向
	Direction types.PageDirection

	// Metrics 指标（可选）
	Metrics *metrics.Metrics

	// Clock 计算相对时间范围
	Clock clock.Clock
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		PubsubTopic: protocolids.DefaultPubsubTopic,
		PageSize:    DefaultPageSize,
		Direction:   types.PageBackward,
		Clock:       clock.New(),
	}
}

// Option 服务配置选项
type Option func(*Config)

// WithPubsubTopic 设置默认 pubsub topic
func WithPubsubTopic(topic string) Option {
	return func(c *Config) {
		c.PubsubTopic = topic
	}
}

// WithDefaultPageSize 设置默认页大小
func WithDefaultPageSize(size uint64) Option {
	return func(c *Config) {
		c.PageSize = size
	}
}

// WithDefaultDirection 设置默认翻页方向
func WithDefaultDirection(d types.PageDirection) Option {
	return func(c *Config) {
		c.Direction = d
	}
}

// WithMetrics 设置指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithClock 替换时钟（测试用）
func WithClock(clk clock.Clock) Option {
	return func(c *Config) {
		c.Clock = clk
	}
}

// ============================================================================
//                              查询选项
// ============================================================================

// queryParams 单次查询参数
type queryParams struct {
	peer        types.PeerID
	pubsubTopic string
	pageSize    uint64
	direction   types.PageDirection
	timeFilter  *types.TimeFilter
	window      time.Duration
	cursor      *types.Cursor
}

// QueryOption 查询选项
type QueryOption func(*queryParams)

// WithPeer 指定服务节点；未指定时由选择器挑选
func WithPeer(peerID types.PeerID) QueryOption {
	return func(q *queryParams) {
		q.peer = peerID
	}
}

// WithTopic 指定 pubsub topic
func WithTopic(topic string) QueryOption {
	return func(q *queryParams) {
		q.pubsubTopic = topic
	}
}

// WithPageSize 指定页大小，超过协议上限时按上限请求
func WithPageSize(size uint64) QueryOption {
	return func(q *queryParams) {
		q.pageSize = size
	}
}

// WithDirection 指定翻页方向
func WithDirection(d types.PageDirection) QueryOption {
	return func(q *queryParams) {
		q.direction = d
	}
}

// WithTimeFilter 只查询时间戳在 [start, end] 内的消息；零值表示不限
func WithTimeFilter(start, end time.Time) QueryOption {
	return func(q *queryParams) {
		q.timeFilter = &types.TimeFilter{Start: start, End: end}
	}
}

// WithLast 只查询最近 d 时间内的消息
func WithLast(d time.Duration) QueryOption {
	return func(q *queryParams) {
		q.window = d
	}
}

// WithCursor 从游标处开始（不含游标所指消息）
func WithCursor(c *types.Cursor) QueryOption {
	return func(q *queryParams) {
		q.cursor = c
	}
}

// toIndex 把游标转换为线上格式
func toIndex(c *types.Cursor) *waku.Index {
	if c == nil {
		return nil
	}
	return &waku.Index{
		Digest:       c.Digest,
		ReceiverTime: c.ReceiverTime,
		SenderTime:   c.SenderTime,
		PubsubTopic:  c.PubsubTopic,
	}
}

// fromIndex 把线上游标转换为 Cursor
func fromIndex(idx *waku.Index) *types.Cursor {
	if idx == nil {
		return nil
	}
	return &types.Cursor{
		Digest:       idx.Digest,
		PubsubTopic:  idx.PubsubTopic,
		SenderTime:   idx.SenderTime,
		ReceiverTime: idx.ReceiverTime,
	}
}
