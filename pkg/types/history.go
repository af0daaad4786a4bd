package types

import (
	"fmt"
	"time"
)

// ============================================================================
//                              PageDirection - 翻页方向
// ============================================================================

// PageDirection 历史查询的翻页方向
//
// 只影响页与页之间的顺序；页内消息总是从旧到新排列。
type PageDirection int

const (
	// PageBackward 最新的页优先（默认）
	PageBackward PageDirection = iota
	// PageForward 最旧的页优先
	PageForward
)

// String 返回方向的字符串表示
func (d PageDirection) String() string {
	switch d {
	case PageBackward:
		return "backward"
	case PageForward:
		return "forward"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// ParsePageDirection 解析方向字符串，空串表示默认的 backward
func ParsePageDirection(s string) (PageDirection, error) {
	switch s {
	case "", "backward":
		return PageBackward, nil
	case "forward":
		return PageForward, nil
	default:
		return PageBackward, fmt.Errorf("%w: %q", ErrInvalidPageDirection, s)
	}
}

// Validate 检查方向取值是否合法
func (d PageDirection) Validate() error {
	if d != PageBackward && d != PageForward {
		return ErrInvalidPageDirection
	}
	return nil
}

// ============================================================================
//                              TimeFilter - 时间范围
// ============================================================================

// TimeFilter 按消息时间戳过滤历史查询
type TimeFilter struct {
	// Start 开始时间（含）
	Start time.Time

	// End 结束时间（含）
	End time.Time
}

// Validate 检查时间范围
func (f TimeFilter) Validate() error {
	if !f.Start.IsZero() && !f.End.IsZero() && f.Start.After(f.End) {
		return ErrInvalidTimeFilter
	}
	return nil
}

// ============================================================================
//                              Cursor - 分页游标
// ============================================================================

// Cursor 历史分页位置
//
// 游标是排他的：游标所指的消息不会出现在下一页中。
// 游标只对产生它的 pubsub topic 有意义，不可跨 topic 比较或缓存。
type Cursor struct {
	// Digest SHA-256(contentTopic ‖ payload)
	Digest []byte

	// PubsubTopic 消息所在的 pubsub topic
	PubsubTopic string

	// SenderTime 发送方时间戳（纳秒）
	SenderTime int64

	// ReceiverTime 接收方时间戳（纳秒）
	ReceiverTime int64
}

// String 返回游标的简短描述，用于日志
func (c *Cursor) String() string {
	if c == nil {
		return "<nil>"
	}
	digest := Base58Encode(c.Digest)
	if len(digest) > 8 {
		digest = digest[:8]
	}
	return fmt.Sprintf("%s@%d(%s)", digest, c.SenderTime, c.PubsubTopic)
}
