package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/libp2p/go-libp2p"
	lphost "github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	lppeerstore "github.com/libp2p/go-libp2p/core/peerstore"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/dep2p/go-lightnode/internal/core/peerstore"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/types"
)

var logger = log.Logger("core/host")

var (
	// ErrHostClosed 主机已关闭
	ErrHostClosed = errors.New("host: closed")

	// ErrInvalidPeerID 无法解析的节点 ID
	ErrInvalidPeerID = errors.New("host: invalid peer id")

	// ErrInvalidAddr 无法解析的地址
	ErrInvalidAddr = errors.New("host: invalid address")
)

// 确保实现接口
var _ pkgif.Host = (*Host)(nil)

// Host libp2p 主机适配器
type Host struct {
	lh        lphost.Host
	peerstore *peerstore.Peerstore
	book      *peerBook

	mu     sync.Mutex
	closed bool
}

// New 创建 Host
//
// 未通过 WithLibp2pHost 提供 libp2p Host 时按配置新建一个。
func New(opts ...Option) (*Host, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	lh := cfg.Libp2p
	if lh == nil {
		var err error
		lh, err = libp2p.New(cfg.libp2pOptions()...)
		if err != nil {
			return nil, fmt.Errorf("host: create libp2p host: %w", err)
		}
	}

	ps := peerstore.NewPeerstore()
	h := &Host{
		lh:        lh,
		peerstore: ps,
		book:      newPeerBook(ps, lh.ID(), lh.Peerstore()),
	}

	logger.Info("主机已创建",
		"peerID", log.TruncateID(lh.ID().String(), 8),
		"addrs", len(lh.Addrs()))
	return h, nil
}

// ID 返回主机 ID
func (h *Host) ID() types.PeerID {
	return types.PeerID(h.lh.ID().String())
}

// Libp2p 返回底层 libp2p Host
func (h *Host) Libp2p() lphost.Host {
	return h.lh
}

// Addrs 返回带 /p2p 后缀的完整监听地址
func (h *Host) Addrs() []ma.Multiaddr {
	info := peer.AddrInfo{ID: h.lh.ID(), Addrs: h.lh.Addrs()}
	addrs, err := peer.AddrInfoToP2pAddrs(&info)
	if err != nil {
		return nil
	}
	return addrs
}

// NewStream 创建到指定节点的新流
func (h *Host) NewStream(ctx context.Context, peerID types.PeerID, protocolIDs ...types.ProtocolID) (pkgif.Stream, error) {
	if h.isClosed() {
		return nil, ErrHostClosed
	}
	pid, err := peer.Decode(string(peerID))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPeerID, peerID, err)
	}

	protos := make([]protocol.ID, len(protocolIDs))
	for i, p := range protocolIDs {
		protos[i] = protocol.ID(p)
	}

	s, err := h.lh.NewStream(ctx, pid, protos...)
	if err != nil {
		return nil, err
	}
	return wrapStream(s), nil
}

// SetStreamHandler 设置流处理器
func (h *Host) SetStreamHandler(protocolID types.ProtocolID, handler pkgif.StreamHandler) {
	h.lh.SetStreamHandler(protocol.ID(protocolID), func(s network.Stream) {
		handler(wrapStream(s))
	})
	logger.Debug("注册流处理器", "protocol", protocolID)
}

// RemoveStreamHandler 移除流处理器
func (h *Host) RemoveStreamHandler(protocolID types.ProtocolID) {
	h.lh.RemoveStreamHandler(protocol.ID(protocolID))
}

// Peerstore 返回节点存储
//
// 包含 AddPeer 登记的节点，以及 libp2p identify 发现了协议的已连接节点。
func (h *Host) Peerstore() pkgif.Peerstore {
	return h.book
}

// AddPeer 登记服务节点
//
// addr 必须以 /p2p/<id> 结尾。protocols 为节点支持的协议，用于节点选择。
func (h *Host) AddPeer(addr ma.Multiaddr, protocols ...types.ProtocolID) (types.PeerID, error) {
	info, err := peer.AddrInfoFromP2pAddr(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidAddr, addr, err)
	}
	peerID := types.PeerID(info.ID.String())
	if err := h.addPeer(info.ID, info.Addrs, protocols); err != nil {
		return "", err
	}
	return peerID, nil
}

// AddPeerString 解析字符串地址后登记服务节点
func (h *Host) AddPeerString(addr string, protocols ...types.ProtocolID) (types.PeerID, error) {
	m, err := ma.NewMultiaddr(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidAddr, addr, err)
	}
	return h.AddPeer(m, protocols...)
}

// AddPeerInfo 用节点 ID 和不含 /p2p 后缀的地址登记服务节点
func (h *Host) AddPeerInfo(peerID types.PeerID, addrs []string, protocols ...types.ProtocolID) error {
	pid, err := peer.Decode(string(peerID))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPeerID, peerID, err)
	}
	mas := make([]ma.Multiaddr, 0, len(addrs))
	for _, a := range addrs {
		m, err := ma.NewMultiaddr(a)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidAddr, a, err)
		}
		mas = append(mas, m)
	}
	return h.addPeer(pid, mas, protocols)
}

func (h *Host) addPeer(pid peer.ID, addrs []ma.Multiaddr, protocols []types.ProtocolID) error {
	if h.isClosed() {
		return ErrHostClosed
	}
	h.lh.Peerstore().AddAddrs(pid, addrs, lppeerstore.PermanentAddrTTL)
	if err := h.peerstore.AddPeer(types.PeerID(pid.String()), protocols...); err != nil {
		return err
	}
	logger.Debug("登记服务节点",
		"peerID", log.TruncateID(pid.String(), 8),
		"addrs", len(addrs),
		"protocols", protocols)
	return nil
}

// Close 关闭主机
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	err := errors.Join(h.lh.Close(), h.peerstore.Close())
	logger.Info("主机已关闭", "peerID", log.TruncateID(h.lh.ID().String(), 8))
	return err
}

func (h *Host) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
