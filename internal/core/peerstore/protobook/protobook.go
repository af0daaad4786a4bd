package protobook

import (
	"sync"

	"github.com/dep2p/go-lightnode/pkg/types"
)

// protoSet 节点的协议集合
type protoSet map[types.ProtocolID]struct{}

// ProtoBook 协议簿
type ProtoBook struct {
	mu sync.RWMutex

	// protocols 协议映射
	protocols map[types.PeerID]protoSet
}

// New 创建协议簿
func New() *ProtoBook {
	return &ProtoBook{
		protocols: make(map[types.PeerID]protoSet),
	}
}

// GetProtocols 获取协议
//
// 返回副本，顺序不保证。
func (pb *ProtoBook) GetProtocols(peerID types.PeerID) ([]types.ProtocolID, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	set := pb.protocols[peerID]
	if len(set) == 0 {
		return nil, nil
	}

	result := make([]types.ProtocolID, 0, len(set))
	for proto := range set {
		result = append(result, proto)
	}
	return result, nil
}

// AddProtocols 添加协议
func (pb *ProtoBook) AddProtocols(peerID types.PeerID, protocols ...types.ProtocolID) error {
	if peerID.IsEmpty() {
		return types.ErrEmptyPeerID
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()

	set := pb.protocols[peerID]
	if set == nil {
		set = make(protoSet, len(protocols))
		pb.protocols[peerID] = set
	}
	for _, proto := range protocols {
		set[proto] = struct{}{}
	}
	return nil
}

// SetProtocols 设置协议（覆盖）
func (pb *ProtoBook) SetProtocols(peerID types.PeerID, protocols ...types.ProtocolID) error {
	if peerID.IsEmpty() {
		return types.ErrEmptyPeerID
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()

	set := make(protoSet, len(protocols))
	for _, proto := range protocols {
		set[proto] = struct{}{}
	}
	pb.protocols[peerID] = set
	return nil
}

// RemoveProtocols 移除协议
func (pb *ProtoBook) RemoveProtocols(peerID types.PeerID, protocols ...types.ProtocolID) error {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	set := pb.protocols[peerID]
	for _, proto := range protocols {
		delete(set, proto)
	}
	return nil
}

// SupportsProtocols 查询支持的协议
//
// 按参数顺序返回交集。
func (pb *ProtoBook) SupportsProtocols(peerID types.PeerID, protocols ...types.ProtocolID) ([]types.ProtocolID, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	set := pb.protocols[peerID]
	var supported []types.ProtocolID
	for _, proto := range protocols {
		if _, ok := set[proto]; ok {
			supported = append(supported, proto)
		}
	}
	return supported, nil
}

// FirstSupportedProtocol 返回首个支持的协议
func (pb *ProtoBook) FirstSupportedProtocol(peerID types.PeerID, protocols ...types.ProtocolID) (types.ProtocolID, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	set := pb.protocols[peerID]
	for _, proto := range protocols {
		if _, ok := set[proto]; ok {
			return proto, nil
		}
	}
	return "", nil
}

// PeersSupporting 返回声明支持指定协议的全部节点
func (pb *ProtoBook) PeersSupporting(protocol types.ProtocolID) []types.PeerID {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	var peers []types.PeerID
	for peerID, set := range pb.protocols {
		if _, ok := set[protocol]; ok {
			peers = append(peers, peerID)
		}
	}
	return peers
}

// RemovePeer 移除节点协议
func (pb *ProtoBook) RemovePeer(peerID types.PeerID) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	delete(pb.protocols, peerID)
}
