package interfaces

import (
	"github.com/dep2p/go-lightnode/pkg/types"
)

// Peerstore 定义节点信息存储接口
//
// 协议引擎只读取节点列表和协议支持信息，用于选择服务节点。
type Peerstore interface {
	ProtoBook

	// Peers 返回所有已知节点 ID
	Peers() []types.PeerID
}

// ProtoBook 定义协议簿接口
type ProtoBook interface {
	// GetProtocols 获取节点支持的协议
	GetProtocols(peerID types.PeerID) ([]types.ProtocolID, error)

	// AddProtocols 添加节点支持的协议
	AddProtocols(peerID types.PeerID, protocols ...types.ProtocolID) error

	// SetProtocols 设置节点支持的协议（覆盖）
	SetProtocols(peerID types.PeerID, protocols ...types.ProtocolID) error

	// RemoveProtocols 移除节点支持的协议
	RemoveProtocols(peerID types.PeerID, protocols ...types.ProtocolID) error

	// SupportsProtocols 检查节点是否支持指定协议
	SupportsProtocols(peerID types.PeerID, protocols ...types.ProtocolID) ([]types.ProtocolID, error)

	// FirstSupportedProtocol 返回首个支持的协议
	FirstSupportedProtocol(peerID types.PeerID, protocols ...types.ProtocolID) (types.ProtocolID, error)

	// RemovePeer 移除节点协议
	RemovePeer(peerID types.PeerID)
}
