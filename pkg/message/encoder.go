package message

import (
	"time"

	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
)

// Encoder version 0 明文编码器
//
// 客户端引擎本身不发送用户消息；Encoder 用于构造测试数据
// 和向 Store / Filter 服务端发布消息的外部组件。
type Encoder struct {
	contentTopic string
	ephemeral    bool
	now          func() time.Time
}

// EncoderOption 编码器选项
type EncoderOption func(*Encoder)

// WithEphemeral 标记消息为临时消息
func WithEphemeral(ephemeral bool) EncoderOption {
	return func(e *Encoder) {
		e.ephemeral = ephemeral
	}
}

// WithNow 替换时钟（测试用）
func WithNow(now func() time.Time) EncoderOption {
	return func(e *Encoder) {
		e.now = now
	}
}

// NewEncoder 创建编码器
func NewEncoder(contentTopic string, opts ...EncoderOption) (*Encoder, error) {
	if contentTopic == "" {
		return nil, ErrEmptyContentTopic
	}
	e := &Encoder{contentTopic: contentTopic, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ContentTopic 返回编码器的 content topic
func (e *Encoder) ContentTopic() string {
	return e.contentTopic
}

// ToProto 构造线上消息
//
// timestamp 为零值时使用当前时间；线上时间戳精度为毫秒，以纳秒表示。
func (e *Encoder) ToProto(payload []byte, timestamp time.Time) *waku.WakuMessage {
	if timestamp.IsZero() {
		timestamp = e.now()
	}
	version := Version
	ts := timestamp.UnixMilli() * int64(time.Millisecond)
	msg := &waku.WakuMessage{
		Payload:      payload,
		ContentTopic: e.contentTopic,
		Version:      &version,
		Timestamp:    &ts,
	}
	if e.ephemeral {
		eph := true
		msg.Ephemeral = &eph
	}
	return msg
}

// ToWire 编码为线上字节
func (e *Encoder) ToWire(payload []byte, timestamp time.Time) []byte {
	return e.ToProto(payload, timestamp).Marshal()
}
