package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/dep2p/go-lightnode/internal/core/peerstore"
	"github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/types"
)

var (
	// ErrPeerUnreachable 对端不在网络中
	ErrPeerUnreachable = errors.New("mocks: peer unreachable")

	// ErrProtocolNotSupported 对端没有注册该协议的处理器
	ErrProtocolNotSupported = errors.New("mocks: protocol not supported")

	// ErrHostClosed 主机已关闭
	ErrHostClosed = errors.New("mocks: host closed")
)

// 确保实现接口
var _ interfaces.Host = (*MockHost)(nil)

// MockHost 模拟 Host 接口实现
//
// 所有 XxxFunc 字段都是可选的。未设置 NewStreamFunc 时，
// 若主机属于某个 Network，则在对端打开 PipeStream 并调用对端处理器；
// 否则返回 ErrPeerUnreachable。
type MockHost struct {
	// 基本属性
	IDValue        types.PeerID
	PeerstoreValue *peerstore.Peerstore

	// 可覆盖的方法
	NewStreamFunc           func(ctx context.Context, peerID types.PeerID, protocolIDs ...types.ProtocolID) (interfaces.Stream, error)
	SetStreamHandlerFunc    func(protocolID types.ProtocolID, handler interfaces.StreamHandler)
	RemoveStreamHandlerFunc func(protocolID types.ProtocolID)
	CloseFunc               func() error

	network *Network

	mu       sync.Mutex
	handlers map[types.ProtocolID]interfaces.StreamHandler
	closed   bool

	// 调用记录（用于验证）
	NewStreamCalls []NewStreamCall
}

// NewStreamCall 记录 NewStream 调用参数
type NewStreamCall struct {
	PeerID      types.PeerID
	ProtocolIDs []types.ProtocolID
}

// NewMockHost 创建带有默认值的 MockHost
func NewMockHost(id types.PeerID) *MockHost {
	return &MockHost{
		IDValue:        id,
		PeerstoreValue: peerstore.NewPeerstore(),
		handlers:       make(map[types.ProtocolID]interfaces.StreamHandler),
	}
}

// ID 返回主机 ID
func (h *MockHost) ID() types.PeerID {
	return h.IDValue
}

// NewStream 创建新流
func (h *MockHost) NewStream(ctx context.Context, peerID types.PeerID, protocolIDs ...types.ProtocolID) (interfaces.Stream, error) {
	h.mu.Lock()
	h.NewStreamCalls = append(h.NewStreamCalls, NewStreamCall{
		PeerID:      peerID,
		ProtocolIDs: append([]types.ProtocolID(nil), protocolIDs...),
	})
	closed := h.closed
	h.mu.Unlock()

	if h.NewStreamFunc != nil {
		return h.NewStreamFunc(ctx, peerID, protocolIDs...)
	}
	if closed {
		return nil, ErrHostClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.network == nil {
		return nil, ErrPeerUnreachable
	}
	return h.network.dial(h.IDValue, peerID, protocolIDs)
}

// StreamCount 返回 NewStream 的调用次数
//
// protocolID 为空时统计全部协议。
func (h *MockHost) StreamCount(protocolID types.ProtocolID) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, call := range h.NewStreamCalls {
		for _, p := range call.ProtocolIDs {
			if protocolID == "" || p == protocolID {
				n++
				break
			}
		}
	}
	return n
}

// SetStreamHandler 设置流处理器
func (h *MockHost) SetStreamHandler(protocolID types.ProtocolID, handler interfaces.StreamHandler) {
	if h.SetStreamHandlerFunc != nil {
		h.SetStreamHandlerFunc(protocolID, handler)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.handlers == nil {
		h.handlers = make(map[types.ProtocolID]interfaces.StreamHandler)
	}
	h.handlers[protocolID] = handler
}

// RemoveStreamHandler 移除流处理器
func (h *MockHost) RemoveStreamHandler(protocolID types.ProtocolID) {
	if h.RemoveStreamHandlerFunc != nil {
		h.RemoveStreamHandlerFunc(protocolID)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.handlers, protocolID)
}

// Handler 返回已注册的处理器
func (h *MockHost) Handler(protocolID types.ProtocolID) (interfaces.StreamHandler, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handler, ok := h.handlers[protocolID]
	return handler, ok
}

// Peerstore 返回节点存储
func (h *MockHost) Peerstore() interfaces.Peerstore {
	return h.PeerstoreValue
}

// Close 关闭主机
func (h *MockHost) Close() error {
	if h.CloseFunc != nil {
		return h.CloseFunc()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// ============================================================================
//                              Network
// ============================================================================

// Network 内存网络
type Network struct {
	mu    sync.RWMutex
	hosts map[types.PeerID]*MockHost
}

// NewNetwork 创建内存网络
func NewNetwork() *Network {
	return &Network{hosts: make(map[types.PeerID]*MockHost)}
}

// AddHost 创建并加入一个主机
func (n *Network) AddHost(id types.PeerID) *MockHost {
	h := NewMockHost(id)
	h.network = n

	n.mu.Lock()
	n.hosts[id] = h
	n.mu.Unlock()
	return h
}

// RemoveHost 把主机移出网络，之后对它的拨号失败
func (n *Network) RemoveHost(id types.PeerID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.hosts, id)
}

// dial 在对端打开流，处理器在独立 goroutine 中运行
func (n *Network) dial(from, to types.PeerID, protocolIDs []types.ProtocolID) (interfaces.Stream, error) {
	n.mu.RLock()
	remote, ok := n.hosts[to]
	n.mu.RUnlock()
	if !ok {
		return nil, ErrPeerUnreachable
	}

	for _, proto := range protocolIDs {
		handler, ok := remote.Handler(proto)
		if !ok {
			continue
		}
		local, peer := NewStreamPair(from, to, proto)
		go handler(peer)
		return local, nil
	}
	return nil, ErrProtocolNotSupported
}
