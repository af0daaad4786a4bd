package testutil

import (
	"context"
	"sync"

	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
	"github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
	"github.com/dep2p/go-lightnode/tests/mocks"
)

// FilterServer Filter 服务节点替身
type FilterServer struct {
	Host interfaces.Host

	// StatusFunc 决定响应状态码，默认 200
	StatusFunc func(req *waku.FilterSubscribeRequest) (uint32, string)

	// Silent 为 true 时读取请求后直接关闭流，不写响应
	Silent bool

	mu       sync.Mutex
	requests []*waku.FilterSubscribeRequest
}

// NewFilterServer 在网络中创建服务节点并注册订阅协议处理器
func NewFilterServer(net *mocks.Network, id types.PeerID) *FilterServer {
	return ServeFilter(net.AddHost(id))
}

// ServeFilter 在已有主机上注册订阅协议处理器
func ServeFilter(h interfaces.Host) *FilterServer {
	s := &FilterServer{Host: h}
	h.SetStreamHandler(protocolids.FilterSubscribe, s.handle)
	return s
}

// ID 返回服务节点 ID
func (s *FilterServer) ID() types.PeerID {
	return s.Host.ID()
}

// Requests 返回已收到的请求快照
func (s *FilterServer) Requests() []*waku.FilterSubscribeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*waku.FilterSubscribeRequest(nil), s.requests...)
}

// RequestCount 返回已收到的请求数
func (s *FilterServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *FilterServer) handle(st interfaces.Stream) {
	fr := streamrpc.NewFrameReader(st, streamrpc.DefaultMaxFrameSize)
	frame, err := fr.Next()
	if err != nil {
		_ = st.Reset()
		return
	}

	req := &waku.FilterSubscribeRequest{}
	if err := req.Unmarshal(frame); err != nil {
		_ = st.Reset()
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	// UNSUBSCRIBE 没有响应
	if req.Type == waku.FilterUnsubscribe || s.Silent {
		_ = st.Close()
		return
	}

	code, desc := uint32(200), "OK"
	if s.StatusFunc != nil {
		code, desc = s.StatusFunc(req)
	}
	resp := &waku.FilterSubscribeResponse{
		RequestID:  req.RequestID,
		StatusCode: code,
		StatusDesc: waku.String(desc),
	}
	if err := streamrpc.WriteFrame(st, resp.Marshal()); err != nil {
		_ = st.Reset()
		return
	}
	_ = st.Close()
}

// Push 向客户端推送一条消息
func (s *FilterServer) Push(ctx context.Context, client types.PeerID, pubsubTopic string, msg *waku.WakuMessage) error {
	push := &waku.MessagePush{WakuMessage: msg}
	if pubsubTopic != "" {
		push.PubsubTopic = waku.String(pubsubTopic)
	}
	return s.PushFrames(ctx, client, push.Marshal())
}

// PushFrames 在一条 PUSH 流上依次写入原始帧
func (s *FilterServer) PushFrames(ctx context.Context, client types.PeerID, frames ...[]byte) error {
	st, err := s.Host.NewStream(ctx, client, protocolids.FilterPush)
	if err != nil {
		return err
	}
	for _, f := range frames {
		if err := streamrpc.WriteFrame(st, f); err != nil {
			_ = st.Reset()
			return err
		}
	}
	return st.Close()
}
