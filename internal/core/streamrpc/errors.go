package streamrpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/dep2p/go-lightnode/pkg/types"
)

var (
	// ErrTransport 流打开、写入或读取失败
	ErrTransport = errors.New("streamrpc: transport failure")

	// ErrTimeout 调用超时
	ErrTimeout = errors.New("streamrpc: timeout")

	// ErrFrameTooLarge 帧长度超过上限
	ErrFrameTooLarge = errors.New("streamrpc: frame too large")

	// ErrNilHost 未提供 Host
	ErrNilHost = errors.New("streamrpc: nil host")
)

// TransportError 传输失败
type TransportError struct {
	// Op 失败的步骤：open / write / read
	Op string

	// Peer 对端节点
	Peer types.PeerID

	// Protocol 协议 ID
	Protocol types.ProtocolID

	// Timeout 是否因超时失败
	Timeout bool

	// Err 底层错误
	Err error
}

// Error 实现 error 接口
func (e *TransportError) Error() string {
	kind := "failed"
	if e.Timeout {
		kind = "timed out"
	}
	return fmt.Sprintf("streamrpc: %s %s to %s %s: %v", e.Op, e.Protocol, e.Peer.ShortString(), kind, e.Err)
}

// Unwrap 返回错误链
//
// 总是包含 ErrTransport；超时时还包含 ErrTimeout 和 context.DeadlineExceeded。
func (e *TransportError) Unwrap() []error {
	errs := []error{ErrTransport, e.Err}
	if e.Timeout {
		errs = append(errs, ErrTimeout, context.DeadlineExceeded)
	}
	return errs
}
