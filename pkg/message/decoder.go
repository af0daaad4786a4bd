package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
)

var logger = log.Logger("message")

// 错误定义
var (
	// ErrEmptyContentTopic content topic 为空
	ErrEmptyContentTopic = errors.New("message: empty content topic")
	// ErrVersionMismatch 消息版本不是 0
	ErrVersionMismatch = errors.New("message: version mismatch")
	// ErrContentTopicMismatch 消息 content topic 与解码器不一致
	ErrContentTopicMismatch = errors.New("message: content topic mismatch")
)

// 编译期检查
var _ interfaces.Decoder = (*Decoder)(nil)

// Decoder version 0 明文解码器
type Decoder struct {
	contentTopic string
}

// NewDecoder 创建解码器
func NewDecoder(contentTopic string) (*Decoder, error) {
	if contentTopic == "" {
		return nil, ErrEmptyContentTopic
	}
	return &Decoder{contentTopic: contentTopic}, nil
}

// ContentTopic 返回解码器负责的 content topic
func (d *Decoder) ContentTopic() string {
	return d.contentTopic
}

// Decode 解码线上消息
//
// 缺失的 version 按 0 处理。
func (d *Decoder) Decode(_ context.Context, pubsubTopic string, msg *waku.WakuMessage) (interfaces.DecodedMessage, error) {
	if msg == nil {
		return nil, nil
	}
	if v := msg.GetVersion(); v != Version {
		logger.Debug("版本不匹配，丢弃消息", "expected", Version, "actual", v)
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrVersionMismatch, Version, v)
	}
	if msg.ContentTopic != d.contentTopic {
		return nil, fmt.Errorf("%w: %s", ErrContentTopicMismatch, msg.ContentTopic)
	}
	return New(pubsubTopic, msg), nil
}

// DecodeBytes 从线上字节解码
func (d *Decoder) DecodeBytes(ctx context.Context, pubsubTopic string, data []byte) (interfaces.DecodedMessage, error) {
	msg := &waku.WakuMessage{}
	if err := msg.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("message: unmarshal: %w", err)
	}
	return d.Decode(ctx, pubsubTopic, msg)
}
