package peerstore

import (
	"sync"

	"github.com/dep2p/go-lightnode/internal/core/peerstore/protobook"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/types"
)

var logger = log.Logger("core/peerstore")

// 确保实现了接口
var _ pkgif.Peerstore = (*Peerstore)(nil)

// Peerstore 内存节点信息存储
type Peerstore struct {
	*protobook.ProtoBook

	mu     sync.RWMutex
	peers  map[types.PeerID]struct{}
	closed bool
}

// NewPeerstore 创建新的 Peerstore
func NewPeerstore() *Peerstore {
	return &Peerstore{
		ProtoBook: protobook.New(),
		peers:     make(map[types.PeerID]struct{}),
	}
}

// AddPeer 登记节点及其支持的协议
func (ps *Peerstore) AddPeer(peerID types.PeerID, protocols ...types.ProtocolID) error {
	if peerID.IsEmpty() {
		return types.ErrEmptyPeerID
	}

	ps.mu.Lock()
	if ps.closed {
		ps.mu.Unlock()
		return ErrClosed
	}
	ps.peers[peerID] = struct{}{}
	ps.mu.Unlock()

	logger.Debug("登记节点", "peerID", log.TruncateID(string(peerID), 8), "protocols", len(protocols))
	return ps.ProtoBook.AddProtocols(peerID, protocols...)
}

// AddProtocols 添加协议，节点随之成为已知节点
func (ps *Peerstore) AddProtocols(peerID types.PeerID, protocols ...types.ProtocolID) error {
	return ps.AddPeer(peerID, protocols...)
}

// SetProtocols 设置协议（覆盖），节点随之成为已知节点
func (ps *Peerstore) SetProtocols(peerID types.PeerID, protocols ...types.ProtocolID) error {
	if err := ps.AddPeer(peerID); err != nil {
		return err
	}
	return ps.ProtoBook.SetProtocols(peerID, protocols...)
}

// HasPeer 检查节点是否已知
func (ps *Peerstore) HasPeer(peerID types.PeerID) bool {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	_, ok := ps.peers[peerID]
	return ok
}

// Peers 返回所有已知节点 ID
func (ps *Peerstore) Peers() []types.PeerID {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	result := make([]types.PeerID, 0, len(ps.peers))
	for peerID := range ps.peers {
		result = append(result, peerID)
	}
	return result
}

// RemovePeer 移除节点及其协议
func (ps *Peerstore) RemovePeer(peerID types.PeerID) {
	ps.mu.Lock()
	delete(ps.peers, peerID)
	ps.mu.Unlock()

	ps.ProtoBook.RemovePeer(peerID)
}

// Close 关闭存储
func (ps *Peerstore) Close() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.closed = true
	return nil
}
