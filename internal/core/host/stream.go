package host

import (
	"github.com/libp2p/go-libp2p/core/network"

	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// 确保实现接口
var _ pkgif.Stream = (*stream)(nil)

// stream 包装 libp2p 流
type stream struct {
	network.Stream
}

func wrapStream(s network.Stream) *stream {
	return &stream{Stream: s}
}

// Protocol 返回流使用的协议 ID
func (s *stream) Protocol() types.ProtocolID {
	return types.ProtocolID(s.Stream.Protocol())
}

// RemotePeer 返回对端节点 ID
func (s *stream) RemotePeer() types.PeerID {
	return types.PeerID(s.Conn().RemotePeer().String())
}
