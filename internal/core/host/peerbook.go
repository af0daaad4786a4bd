package host

import (
	"slices"

	"github.com/libp2p/go-libp2p/core/peer"
	lppeerstore "github.com/libp2p/go-libp2p/core/peerstore"
	"github.com/libp2p/go-libp2p/core/protocol"

	"github.com/dep2p/go-lightnode/internal/core/peerstore"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// 确保实现接口
var _ pkgif.Peerstore = (*peerBook)(nil)

// peerBook 合并登记的节点与 libp2p identify 学到的节点
//
// 写操作只作用于登记表。读操作先查登记表，登记表没有该节点或协议时
// 再查 libp2p peerstore。
type peerBook struct {
	*peerstore.Peerstore

	self peer.ID
	lp   lppeerstore.Peerstore
}

func newPeerBook(ps *peerstore.Peerstore, self peer.ID, lp lppeerstore.Peerstore) *peerBook {
	return &peerBook{Peerstore: ps, self: self, lp: lp}
}

// Peers 返回两处已知节点的并集（不含自身）
func (b *peerBook) Peers() []types.PeerID {
	peers := b.Peerstore.Peers()
	for _, pid := range b.lp.Peers() {
		if pid == b.self {
			continue
		}
		id := types.PeerID(pid.String())
		if !slices.Contains(peers, id) {
			peers = append(peers, id)
		}
	}
	return peers
}

// GetProtocols 获取节点支持的协议
func (b *peerBook) GetProtocols(peerID types.PeerID) ([]types.ProtocolID, error) {
	protos, err := b.Peerstore.GetProtocols(peerID)
	if err == nil && len(protos) > 0 {
		return protos, nil
	}
	pid, ok := b.decode(peerID)
	if !ok {
		return protos, err
	}
	lpProtos, lpErr := b.lp.GetProtocols(pid)
	if lpErr != nil || len(lpProtos) == 0 {
		return protos, err
	}
	return fromLibp2p(lpProtos), nil
}

// SupportsProtocols 检查节点是否支持指定协议
func (b *peerBook) SupportsProtocols(peerID types.PeerID, protocols ...types.ProtocolID) ([]types.ProtocolID, error) {
	supported, err := b.Peerstore.SupportsProtocols(peerID, protocols...)
	if err == nil && len(supported) > 0 {
		return supported, nil
	}
	pid, ok := b.decode(peerID)
	if !ok {
		return supported, err
	}
	lpSupported, lpErr := b.lp.SupportsProtocols(pid, toLibp2p(protocols)...)
	if lpErr != nil || len(lpSupported) == 0 {
		return supported, err
	}
	return fromLibp2p(lpSupported), nil
}

// FirstSupportedProtocol 返回首个支持的协议
func (b *peerBook) FirstSupportedProtocol(peerID types.PeerID, protocols ...types.ProtocolID) (types.ProtocolID, error) {
	supported, err := b.SupportsProtocols(peerID, protocols...)
	if err != nil {
		return "", err
	}
	for _, p := range protocols {
		if slices.Contains(supported, p) {
			return p, nil
		}
	}
	return "", nil
}

func (b *peerBook) decode(peerID types.PeerID) (peer.ID, bool) {
	pid, err := peer.Decode(string(peerID))
	if err != nil || pid == b.self {
		return "", false
	}
	return pid, true
}

func toLibp2p(protocols []types.ProtocolID) []protocol.ID {
	out := make([]protocol.ID, len(protocols))
	for i, p := range protocols {
		out[i] = protocol.ID(p)
	}
	return out
}

func fromLibp2p(protocols []protocol.ID) []types.ProtocolID {
	out := make([]types.ProtocolID, len(protocols))
	for i, p := range protocols {
		out[i] = types.ProtocolID(p)
	}
	return out
}
