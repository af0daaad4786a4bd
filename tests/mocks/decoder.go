package mocks

import (
	"context"

	"github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
)

// 确保实现接口
var _ interfaces.Decoder = (*StubDecoder)(nil)

// StubDecoder 用函数字段实现的解码器
//
// DecodeFunc 为 nil 时总是解码失败（返回 nil, nil）。
type StubDecoder struct {
	Topic      string
	DecodeFunc func(ctx context.Context, pubsubTopic string, msg *waku.WakuMessage) (interfaces.DecodedMessage, error)
}

// ContentTopic 返回 content topic
func (d *StubDecoder) ContentTopic() string {
	return d.Topic
}

// Decode 解码消息
func (d *StubDecoder) Decode(ctx context.Context, pubsubTopic string, msg *waku.WakuMessage) (interfaces.DecodedMessage, error) {
	if d.DecodeFunc != nil {
		return d.DecodeFunc(ctx, pubsubTopic, msg)
	}
	return nil, nil
}
