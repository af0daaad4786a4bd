package waku

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// MaxPageSize 服务端接受的最大页大小
const MaxPageSize = 100

// Index 分页游标
//
//	message Index {
//	  bytes digest = 1;
//	  sint64 receiver_time = 2;
//	  sint64 sender_time = 3;
//	  string pubsub_topic = 4;
//	}
type Index struct {
	Digest       []byte
	ReceiverTime int64
	SenderTime   int64
	PubsubTopic  string
}

func (x *Index) marshal() []byte {
	var b []byte
	if len(x.Digest) > 0 {
		b = appendBytes(b, 1, x.Digest)
	}
	if x.ReceiverTime != 0 {
		b = appendSint64(b, 2, x.ReceiverTime)
	}
	if x.SenderTime != 0 {
		b = appendSint64(b, 3, x.SenderTime)
	}
	if x.PubsubTopic != "" {
		b = appendString(b, 4, x.PubsubTopic)
	}
	return b
}

func (x *Index) unmarshal(b []byte) error {
	*x = Index{}
	return consumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBytes(typ, b, &x.Digest)
		case 2, 3:
			var v *int64
			n, err := consumeSint64(typ, b, &v)
			if err == nil && v != nil {
				if num == 2 {
					x.ReceiverTime = *v
				} else {
					x.SenderTime = *v
				}
			}
			return n, err
		case 4:
			return consumeString(typ, b, &x.PubsubTopic)
		}
		return 0, nil
	})
}

// PagingDirection 翻页方向
type PagingDirection int32

const (
	PagingBackward PagingDirection = 0
	PagingForward  PagingDirection = 1
)

// PagingInfo 分页信息
//
//	message PagingInfo {
//	  optional uint64 page_size = 1;
//	  optional Index cursor = 2;
//	  optional Direction direction = 3;
//	}
type PagingInfo struct {
	PageSize  *uint64
	Cursor    *Index
	Direction *PagingDirection
}

// GetPageSize 返回页大小，未设置时为 0
func (p *PagingInfo) GetPageSize() uint64 {
	if p == nil || p.PageSize == nil {
		return 0
	}
	return *p.PageSize
}

// GetCursor 返回游标
func (p *PagingInfo) GetCursor() *Index {
	if p == nil {
		return nil
	}
	return p.Cursor
}

// GetDirection 返回方向，未设置时为 BACKWARD
func (p *PagingInfo) GetDirection() PagingDirection {
	if p == nil || p.Direction == nil {
		return PagingBackward
	}
	return *p.Direction
}

func (p *PagingInfo) marshal() []byte {
	var b []byte
	if p.PageSize != nil {
		b = appendUvarint(b, 1, *p.PageSize)
	}
	if p.Cursor != nil {
		b = appendSubmessage(b, 2, p.Cursor.marshal())
	}
	if p.Direction != nil {
		b = appendUvarint(b, 3, uint64(*p.Direction))
	}
	return b
}

func (p *PagingInfo) unmarshal(b []byte) error {
	*p = PagingInfo{}
	return consumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			var v uint64
			n, err := consumeUvarint(typ, b, &v)
			if err == nil && n > 0 {
				p.PageSize = &v
			}
			return n, err
		case 2:
			return consumeSubmessage(typ, b, func(v []byte) error {
				p.Cursor = &Index{}
				return p.Cursor.unmarshal(v)
			})
		case 3:
			var v uint64
			n, err := consumeUvarint(typ, b, &v)
			if err == nil && n > 0 {
				d := PagingDirection(v)
				p.Direction = &d
			}
			return n, err
		}
		return 0, nil
	})
}

// HistoryQuery 历史查询
//
//	message HistoryQuery {
//	  // 字段 1 保留
//	  optional string pubsub_topic = 2;
//	  repeated ContentFilter content_filters = 3;   // ContentFilter { string content_topic = 1; }
//	  optional PagingInfo paging_info = 4;
//	  optional sint64 start_time = 5;
//	  optional sint64 end_time = 6;
//	}
type HistoryQuery struct {
	PubsubTopic   *string
	ContentTopics []string
	PagingInfo    *PagingInfo
	StartTime     *int64
	EndTime       *int64
}

// GetPubsubTopic 返回 pubsub topic，未设置时为空串
func (q *HistoryQuery) GetPubsubTopic() string {
	if q == nil || q.PubsubTopic == nil {
		return ""
	}
	return *q.PubsubTopic
}

func (q *HistoryQuery) marshal() []byte {
	var b []byte
	if q.PubsubTopic != nil {
		b = appendString(b, 2, *q.PubsubTopic)
	}
	for _, ct := range q.ContentTopics {
		var cf []byte
		if ct != "" {
			cf = appendString(cf, 1, ct)
		}
		b = appendSubmessage(b, 3, cf)
	}
	if q.PagingInfo != nil {
		b = appendSubmessage(b, 4, q.PagingInfo.marshal())
	}
	if q.StartTime != nil {
		b = appendSint64(b, 5, *q.StartTime)
	}
	if q.EndTime != nil {
		b = appendSint64(b, 6, *q.EndTime)
	}
	return b
}

func (q *HistoryQuery) unmarshal(b []byte) error {
	*q = HistoryQuery{}
	return consumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 2:
			return consumeOptString(typ, b, &q.PubsubTopic)
		case 3:
			return consumeSubmessage(typ, b, func(v []byte) error {
				var ct string
				err := consumeMessage(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					if num == 1 {
						return consumeString(typ, b, &ct)
					}
					return 0, nil
				})
				q.ContentTopics = append(q.ContentTopics, ct)
				return err
			})
		case 4:
			return consumeSubmessage(typ, b, func(v []byte) error {
				q.PagingInfo = &PagingInfo{}
				return q.PagingInfo.unmarshal(v)
			})
		case 5:
			return consumeSint64(typ, b, &q.StartTime)
		case 6:
			return consumeSint64(typ, b, &q.EndTime)
		}
		return 0, nil
	})
}

// HistoryError 历史响应错误码
type HistoryError int32

const (
	HistoryErrorNone               HistoryError = 0
	HistoryErrorInvalidCursor      HistoryError = 1
	HistoryErrorTooManyRequests    HistoryError = 429
	HistoryErrorServiceUnavailable HistoryError = 503
)

// String 返回错误码名
func (e HistoryError) String() string {
	switch e {
	case HistoryErrorNone:
		return "NONE"
	case HistoryErrorInvalidCursor:
		return "INVALID_CURSOR"
	case HistoryErrorTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case HistoryErrorServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return fmt.Sprintf("HistoryError(%d)", int32(e))
	}
}

// HistoryResponse 历史响应
//
//	message HistoryResponse {
//	  // 字段 1 保留
//	  repeated WakuMessage messages = 2;
//	  optional PagingInfo paging_info = 3;
//	  HistoryError error = 4;
//	}
//
// 页内消息从旧到新排列。
type HistoryResponse struct {
	Messages   []*WakuMessage
	PagingInfo *PagingInfo
	Error      HistoryError
}

func (r *HistoryResponse) marshal() []byte {
	var b []byte
	for _, m := range r.Messages {
		b = appendSubmessage(b, 2, m.Marshal())
	}
	if r.PagingInfo != nil {
		b = appendSubmessage(b, 3, r.PagingInfo.marshal())
	}
	if r.Error != HistoryErrorNone {
		b = appendUvarint(b, 4, uint64(r.Error))
	}
	return b
}

func (r *HistoryResponse) unmarshal(b []byte) error {
	*r = HistoryResponse{}
	return consumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 2:
			return consumeSubmessage(typ, b, func(v []byte) error {
				m := &WakuMessage{}
				if err := m.Unmarshal(v); err != nil {
					return err
				}
				r.Messages = append(r.Messages, m)
				return nil
			})
		case 3:
			return consumeSubmessage(typ, b, func(v []byte) error {
				r.PagingInfo = &PagingInfo{}
				return r.PagingInfo.unmarshal(v)
			})
		case 4:
			var v uint64
			n, err := consumeUvarint(typ, b, &v)
			r.Error = HistoryError(int32(v))
			return n, err
		}
		return 0, nil
	})
}

// HistoryRPC 历史查询的请求/响应信封
//
//	message HistoryRPC {
//	  string request_id = 1;
//	  optional HistoryQuery query = 2;
//	  optional HistoryResponse response = 3;
//	}
type HistoryRPC struct {
	RequestID string
	Query     *HistoryQuery
	Response  *HistoryResponse
}

// Marshal 编码
func (r *HistoryRPC) Marshal() []byte {
	var b []byte
	if r.RequestID != "" {
		b = appendString(b, 1, r.RequestID)
	}
	if r.Query != nil {
		b = appendSubmessage(b, 2, r.Query.marshal())
	}
	if r.Response != nil {
		b = appendSubmessage(b, 3, r.Response.marshal())
	}
	return b
}

// Unmarshal 解码
func (r *HistoryRPC) Unmarshal(b []byte) error {
	*r = HistoryRPC{}
	return consumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &r.RequestID)
		case 2:
			return consumeSubmessage(typ, b, func(v []byte) error {
				r.Query = &HistoryQuery{}
				return r.Query.unmarshal(v)
			})
		case 3:
			return consumeSubmessage(typ, b, func(v []byte) error {
				r.Response = &HistoryResponse{}
				return r.Response.unmarshal(v)
			})
		}
		return 0, nil
	})
}
