package waku

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// FilterSubscribeType 订阅请求类型
type FilterSubscribeType int32

const (
	FilterSubscriberPing FilterSubscribeType = 0
	FilterSubscribe      FilterSubscribeType = 1
	FilterUnsubscribe    FilterSubscribeType = 2
	FilterUnsubscribeAll FilterSubscribeType = 3
)

// String 返回请求类型名
func (t FilterSubscribeType) String() string {
	switch t {
	case FilterSubscriberPing:
		return "SUBSCRIBER_PING"
	case FilterSubscribe:
		return "SUBSCRIBE"
	case FilterUnsubscribe:
		return "UNSUBSCRIBE"
	case FilterUnsubscribeAll:
		return "UNSUBSCRIBE_ALL"
	default:
		return fmt.Sprintf("FilterSubscribeType(%d)", int32(t))
	}
}

// FilterSubscribeRequest 订阅侧请求
//
//	message FilterSubscribeRequest {
//	  string request_id = 1;
//	  FilterSubscribeType filter_subscribe_type = 2;
//	  optional string pubsub_topic = 10;
//	  repeated string content_topics = 11;
//	}
type FilterSubscribeRequest struct {
	RequestID     string
	Type          FilterSubscribeType
	PubsubTopic   *string
	ContentTopics []string
}

// GetPubsubTopic 返回 pubsub topic，未设置时为空串
func (r *FilterSubscribeRequest) GetPubsubTopic() string {
	if r == nil || r.PubsubTopic == nil {
		return ""
	}
	return *r.PubsubTopic
}

// Marshal 编码请求
func (r *FilterSubscribeRequest) Marshal() []byte {
	var b []byte
	if r.RequestID != "" {
		b = appendString(b, 1, r.RequestID)
	}
	if r.Type != 0 {
		b = appendUvarint(b, 2, uint64(r.Type))
	}
	if r.PubsubTopic != nil {
		b = appendString(b, 10, *r.PubsubTopic)
	}
	for _, ct := range r.ContentTopics {
		b = appendString(b, 11, ct)
	}
	return b
}

// Unmarshal 解码请求
func (r *FilterSubscribeRequest) Unmarshal(b []byte) error {
	*r = FilterSubscribeRequest{}
	return consumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &r.RequestID)
		case 2:
			var v uint64
			n, err := consumeUvarint(typ, b, &v)
			r.Type = FilterSubscribeType(v)
			return n, err
		case 10:
			return consumeOptString(typ, b, &r.PubsubTopic)
		case 11:
			var ct string
			n, err := consumeString(typ, b, &ct)
			if err == nil && n > 0 {
				r.ContentTopics = append(r.ContentTopics, ct)
			}
			return n, err
		}
		return 0, nil
	})
}

// FilterSubscribeResponse 订阅侧响应
//
//	message FilterSubscribeResponse {
//	  string request_id = 1;
//	  uint32 status_code = 10;
//	  optional string status_desc = 11;
//	}
type FilterSubscribeResponse struct {
	RequestID  string
	StatusCode uint32
	StatusDesc *string
}

// GetStatusDesc 返回状态描述，未设置时为空串
func (r *FilterSubscribeResponse) GetStatusDesc() string {
	if r == nil || r.StatusDesc == nil {
		return ""
	}
	return *r.StatusDesc
}

// IsSuccess 状态码是否为 2xx
func (r *FilterSubscribeResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Marshal 编码响应
func (r *FilterSubscribeResponse) Marshal() []byte {
	var b []byte
	if r.RequestID != "" {
		b = appendString(b, 1, r.RequestID)
	}
	if r.StatusCode != 0 {
		b = appendUvarint(b, 10, uint64(r.StatusCode))
	}
	if r.StatusDesc != nil {
		b = appendString(b, 11, *r.StatusDesc)
	}
	return b
}

// Unmarshal 解码响应
func (r *FilterSubscribeResponse) Unmarshal(b []byte) error {
	*r = FilterSubscribeResponse{}
	return consumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &r.RequestID)
		case 10:
			var v uint64
			n, err := consumeUvarint(typ, b, &v)
			r.StatusCode = uint32(v)
			return n, err
		case 11:
			return consumeOptString(typ, b, &r.StatusDesc)
		}
		return 0, nil
	})
}

// MessagePush 推送侧消息
//
//	message MessagePushV2 {
//	  WakuMessage waku_message = 1;
//	  optional string pubsub_topic = 2;
//	}
type MessagePush struct {
	WakuMessage *WakuMessage
	PubsubTopic *string
}

// GetPubsubTopic 返回 pubsub topic，未设置时为空串
func (p *MessagePush) GetPubsubTopic() string {
	if p == nil || p.PubsubTopic == nil {
		return ""
	}
	return *p.PubsubTopic
}

// Marshal 编码推送消息
func (p *MessagePush) Marshal() []byte {
	var b []byte
	if p.WakuMessage != nil {
		b = appendSubmessage(b, 1, p.WakuMessage.Marshal())
	}
	if p.PubsubTopic != nil {
		b = appendString(b, 2, *p.PubsubTopic)
	}
	return b
}

// Unmarshal 解码推送消息
func (p *MessagePush) Unmarshal(b []byte) error {
	*p = MessagePush{}
	return consumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeSubmessage(typ, b, func(v []byte) error {
				p.WakuMessage = &WakuMessage{}
				return p.WakuMessage.Unmarshal(v)
			})
		case 2:
			return consumeOptString(typ, b, &p.PubsubTopic)
		}
		return 0, nil
	})
}

// String 返回字符串指针，用于构造 optional 字段
func String(s string) *string {
	return &s
}

// Int64 返回 int64 指针，用于构造 optional 字段
func Int64(v int64) *int64 {
	return &v
}

// Uint64 返回 uint64 指针，用于构造 optional 字段
func Uint64(v uint64) *uint64 {
	return &v
}
