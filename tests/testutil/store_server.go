package testutil

import (
	"encoding/binary"
	"sync"

	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
	"github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
	"github.com/dep2p/go-lightnode/tests/mocks"
)

// StoreServer Store 服务节点替身
//
// 未设置 RespondFunc 时按 Messages 分页作答：Messages 从旧到新排列，
// 游标的 digest 为消息下标，响应的 page_size 等于本页实际条数。
type StoreServer struct {
	Host interfaces.Host

	// Messages 历史消息（从旧到新）
	Messages []*waku.WakuMessage

	// RespondFunc 自定义响应；返回 nil 时不写任何帧
	RespondFunc func(query *waku.HistoryQuery) *waku.HistoryResponse

	mu      sync.Mutex
	queries []*waku.HistoryQuery
}

// NewStoreServer 在网络中创建服务节点并注册 Store 协议处理器
func NewStoreServer(net *mocks.Network, id types.PeerID) *StoreServer {
	return ServeStore(net.AddHost(id))
}

// ServeStore 在已有主机上注册 Store 协议处理器
func ServeStore(h interfaces.Host) *StoreServer {
	s := &StoreServer{Host: h}
	h.SetStreamHandler(protocolids.Store, s.handle)
	return s
}

// ID 返回服务节点 ID
func (s *StoreServer) ID() types.PeerID {
	return s.Host.ID()
}

// Queries 返回已收到的查询快照
func (s *StoreServer) Queries() []*waku.HistoryQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*waku.HistoryQuery(nil), s.queries...)
}

func (s *StoreServer) handle(st interfaces.Stream) {
	fr := streamrpc.NewFrameReader(st, streamrpc.DefaultMaxFrameSize)
	frame, err := fr.Next()
	if err != nil {
		_ = st.Reset()
		return
	}

	rpc := &waku.HistoryRPC{}
	if err := rpc.Unmarshal(frame); err != nil || rpc.Query == nil {
		_ = st.Reset()
		return
	}

	s.mu.Lock()
	s.queries = append(s.queries, rpc.Query)
	s.mu.Unlock()

	var resp *waku.HistoryResponse
	if s.RespondFunc != nil {
		resp = s.RespondFunc(rpc.Query)
	} else {
		resp = s.page(rpc.Query)
	}
	if resp == nil {
		_ = st.Close()
		return
	}

	out := &waku.HistoryRPC{RequestID: rpc.RequestID, Response: resp}
	if err := streamrpc.WriteFrame(st, out.Marshal()); err != nil {
		_ = st.Reset()
		return
	}
	_ = st.Close()
}

// page 按游标和方向切出一页
func (s *StoreServer) page(q *waku.HistoryQuery) *waku.HistoryResponse {
	size := int(q.PagingInfo.GetPageSize())
	if size == 0 {
		size = 10
	}
	cursor := q.PagingInfo.GetCursor()

	var start, end, next int
	next = -1
	total := len(s.Messages)

	if q.PagingInfo.GetDirection() == waku.PagingForward {
		start = 0
		if cursor != nil {
			start = CursorIndex(cursor) + 1
		}
		end = min(total, start+size)
		if end < total {
			next = end - 1
		}
	} else {
		end = total
		if cursor != nil {
			end = CursorIndex(cursor)
		}
		start = max(0, end-size)
		if start > 0 {
			next = start
		}
	}
	if start > end {
		start = end
	}

	resp := &waku.HistoryResponse{
		Messages:   s.Messages[start:end],
		PagingInfo: &waku.PagingInfo{PageSize: waku.Uint64(uint64(end - start))},
	}
	if next >= 0 {
		resp.PagingInfo.Cursor = IndexCursor(next)
	}
	return resp
}

// IndexCursor 用消息下标构造游标
func IndexCursor(i int) *waku.Index {
	digest := binary.BigEndian.AppendUint32(nil, uint32(i))
	return &waku.Index{Digest: digest, ReceiverTime: int64(i), SenderTime: int64(i)}
}

// CursorIndex 从游标取回消息下标
func CursorIndex(idx *waku.Index) int {
	if len(idx.Digest) != 4 {
		return 0
	}
	return int(binary.BigEndian.Uint32(idx.Digest))
}
