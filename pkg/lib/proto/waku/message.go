package waku

import (
	"encoding/binary"

	"github.com/minio/sha256-simd"
	"google.golang.org/protobuf/encoding/protowire"
)

// WakuMessage 协议层原始消息
//
//	message WakuMessage {
//	  bytes payload = 1;
//	  string content_topic = 2;
//	  optional uint32 version = 3;
//	  optional sint64 timestamp = 10;
//	  optional bytes meta = 11;
//	  optional RateLimitProof rate_limit_proof = 21;
//	  optional bool ephemeral = 31;
//	}
//
// RateLimitProof 不在本库解释，按原始字节透传。
type WakuMessage struct {
	Payload        []byte
	ContentTopic   string
	Version        *uint32
	Timestamp      *int64 // 纳秒
	Meta           []byte
	RateLimitProof []byte
	Ephemeral      *bool
}

// GetVersion 返回版本号，未设置时为 0
func (m *WakuMessage) GetVersion() uint32 {
	if m == nil || m.Version == nil {
		return 0
	}
	return *m.Version
}

// GetTimestamp 返回纳秒时间戳，未设置时为 0
func (m *WakuMessage) GetTimestamp() int64 {
	if m == nil || m.Timestamp == nil {
		return 0
	}
	return *m.Timestamp
}

// GetEphemeral 返回 ephemeral 标志
func (m *WakuMessage) GetEphemeral() bool {
	if m == nil || m.Ephemeral == nil {
		return false
	}
	return *m.Ephemeral
}

// Marshal 编码消息
func (m *WakuMessage) Marshal() []byte {
	return m.appendTo(nil)
}

func (m *WakuMessage) appendTo(b []byte) []byte {
	if len(m.Payload) > 0 {
		b = appendBytes(b, 1, m.Payload)
	}
	if m.ContentTopic != "" {
		b = appendString(b, 2, m.ContentTopic)
	}
	if m.Version != nil {
		b = appendUvarint(b, 3, uint64(*m.Version))
	}
	if m.Timestamp != nil {
		b = appendSint64(b, 10, *m.Timestamp)
	}
	if m.Meta != nil {
		b = appendBytes(b, 11, m.Meta)
	}
	if m.RateLimitProof != nil {
		b = appendSubmessage(b, 21, m.RateLimitProof)
	}
	if m.Ephemeral != nil {
		b = appendBool(b, 31, *m.Ephemeral)
	}
	return b
}

// Unmarshal 解码消息
func (m *WakuMessage) Unmarshal(b []byte) error {
	*m = WakuMessage{}
	return consumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBytes(typ, b, &m.Payload)
		case 2:
			return consumeString(typ, b, &m.ContentTopic)
		case 3:
			var v uint64
			n, err := consumeUvarint(typ, b, &v)
			if err == nil && n > 0 {
				version := uint32(v)
				m.Version = &version
			}
			return n, err
		case 10:
			return consumeSint64(typ, b, &m.Timestamp)
		case 11:
			return consumeBytes(typ, b, &m.Meta)
		case 21:
			return consumeBytes(typ, b, &m.RateLimitProof)
		case 31:
			var v uint64
			n, err := consumeUvarint(typ, b, &v)
			if err == nil && n > 0 {
				e := protowire.DecodeBool(v)
				m.Ephemeral = &e
			}
			return n, err
		}
		return 0, nil
	})
}

// MessageHash 计算消息的确定性哈希
//
// sha256(pubsubTopic ‖ payload ‖ contentTopic ‖ meta ‖ timestamp(大端 8 字节))，
// 用于推送去重，不参与游标计算。
func MessageHash(pubsubTopic string, m *WakuMessage) [32]byte {
	h := sha256.New()
	h.Write([]byte(pubsubTopic))
	h.Write(m.Payload)
	h.Write([]byte(m.ContentTopic))
	h.Write(m.Meta)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(m.GetTimestamp()))
	h.Write(ts[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
