package message

import (
	"time"

	"github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
)

// Version 明文消息的版本号
const Version uint32 = 0

// 编译期检查
var _ interfaces.DecodedMessage = (*Message)(nil)

// Message 解码后的消息
type Message struct {
	pubsubTopic string
	proto       *waku.WakuMessage
}

// New 用线上消息构造解码结果
func New(pubsubTopic string, proto *waku.WakuMessage) *Message {
	return &Message{pubsubTopic: pubsubTopic, proto: proto}
}

// PubsubTopic 返回 pubsub topic
func (m *Message) PubsubTopic() string { return m.pubsubTopic }

// ContentTopic 返回 content topic
func (m *Message) ContentTopic() string { return m.proto.ContentTopic }

// Payload 返回负载
func (m *Message) Payload() []byte { return m.proto.Payload }

// Timestamp 返回发送时间
//
// 线上时间戳为纳秒，缺失时返回零值。
func (m *Message) Timestamp() time.Time {
	if m.proto.Timestamp == nil {
		return time.Time{}
	}
	return time.Unix(0, *m.proto.Timestamp)
}

// Ephemeral 返回是否为临时消息
func (m *Message) Ephemeral() bool { return m.proto.GetEphemeral() }

// Meta 返回元数据
func (m *Message) Meta() []byte { return m.proto.Meta }

// Version 返回消息版本
func (m *Message) Version() uint32 { return m.proto.GetVersion() }

// Proto 返回原始线上消息
func (m *Message) Proto() *waku.WakuMessage { return m.proto }
