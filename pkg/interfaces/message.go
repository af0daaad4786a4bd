package interfaces

import (
	"context"
	"time"

	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
)

// DecodedMessage 应用层消息
//
// 由 Decoder 从线上的 WakuMessage 解出，可能经过解密。
type DecodedMessage interface {
	// PubsubTopic 消息所在的 pubsub topic
	PubsubTopic() string

	// ContentTopic 消息的 content topic
	ContentTopic() string

	// Payload 消息负载（解密后）；缺失时为 nil
	Payload() []byte

	// Timestamp 发送时间；缺失时为零值
	Timestamp() time.Time

	// Ephemeral 是否为临时消息（不进入 Store）
	Ephemeral() bool

	// Meta 附加元数据
	Meta() []byte
}

// Decoder 定义消息解码能力
//
// 每个 Decoder 绑定一个 content topic。Decode 返回 (nil, nil) 或 error
// 都表示解码失败（如无法解密），引擎会丢弃该消息而不是中断订阅或分页。
type Decoder interface {
	// ContentTopic 返回解码器负责的 content topic
	ContentTopic() string

	// Decode 解码一条线上消息
	Decode(ctx context.Context, pubsubTopic string, msg *waku.WakuMessage) (DecodedMessage, error)
}

// Callback 推送消息回调
type Callback func(msg DecodedMessage)
