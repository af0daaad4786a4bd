package store

import (
	"fmt"
	"time"

	sha256 "github.com/minio/sha256-simd"

	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// CreateCursor 从已解码的消息生成游标
//
// digest = SHA-256(contentTopic ‖ payload)，发送时间与接收时间都取消息时间戳
// （毫秒精度，以纳秒表示）。pubsubTopic 为空时使用默认 topic。
//
// 线上编码无法区分空负载与缺失负载，两者都按空负载计算摘要。
func CreateCursor(msg pkgif.DecodedMessage, pubsubTopic string) (*types.Cursor, error) {
	if msg == nil {
		return nil, ErrInvalidMessage
	}
	ts := msg.Timestamp()
	contentTopic := msg.ContentTopic()
	switch {
	case ts.IsZero():
		return nil, fmt.Errorf("%w: timestamp", ErrInvalidMessage)
	case contentTopic == "":
		return nil, fmt.Errorf("%w: content topic", ErrInvalidMessage)
	}

	if pubsubTopic == "" {
		pubsubTopic = protocolids.DefaultPubsubTopic
	}

	h := sha256.New()
	h.Write([]byte(contentTopic))
	h.Write(msg.Payload())

	t := ts.UnixMilli() * int64(time.Millisecond)
	return &types.Cursor{
		Digest:       h.Sum(nil),
		PubsubTopic:  pubsubTopic,
		SenderTime:   t,
		ReceiverTime: t,
	}, nil
}
