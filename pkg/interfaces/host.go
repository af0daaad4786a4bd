package interfaces

import (
	"context"
	"io"
	"time"

	"github.com/dep2p/go-lightnode/pkg/types"
)

// Host 定义 P2P 主机接口
//
// Host 负责按协议打开出站流、为入站流注册处理器，并持有节点簿。
// 连接建立、多路复用与地址管理都在 Host 之下完成，对协议引擎透明。
type Host interface {
	// ID 返回主机的 PeerID
	ID() types.PeerID

	// NewStream 创建到指定节点的新流
	//
	// 每次调用都打开一条独立的流，调用方负责关闭。
	NewStream(ctx context.Context, peerID types.PeerID, protocolIDs ...types.ProtocolID) (Stream, error)

	// SetStreamHandler 为指定协议设置流处理器
	//
	// 每条入站流在独立的 goroutine 中调用 handler。
	SetStreamHandler(protocolID types.ProtocolID, handler StreamHandler)

	// RemoveStreamHandler 移除指定协议的流处理器
	RemoveStreamHandler(protocolID types.ProtocolID)

	// Peerstore 返回节点存储
	Peerstore() Peerstore

	// Close 关闭主机
	Close() error
}

// StreamHandler 定义流处理函数类型
type StreamHandler func(Stream)

// Stream 定义双向流接口
type Stream interface {
	io.Reader
	io.Writer

	// Close 关闭流
	Close() error

	// CloseWrite 关闭写端（半关闭）
	//
	// 关闭后无法继续写入，但仍可读取。
	// 发送 FIN 信号告知对方"我已发送完毕"。
	CloseWrite() error

	// Reset 重置流（异常关闭）
	Reset() error

	// SetDeadline 设置读写超时
	//
	// 超时后，Read 和 Write 会返回错误。
	// 传入零值 time.Time{} 表示不超时。
	SetDeadline(t time.Time) error

	// Protocol 返回流使用的协议 ID
	Protocol() types.ProtocolID

	// RemotePeer 返回对端节点 ID
	RemotePeer() types.PeerID
}
