package streamrpc

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/dep2p/go-lightnode/internal/core/metrics"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/types"
)

var logger = log.Logger("core/streamrpc")

// Client 流调用客户端
//
// Client 本身无状态，可被多个协议引擎并发共享。
type Client struct {
	host pkgif.Host
	cfg  Config
}

// NewClient 创建客户端
func NewClient(host pkgif.Host, opts ...Option) (*Client, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{host: host, cfg: cfg}, nil
}

// Host 返回底层 Host
func (c *Client) Host() pkgif.Host {
	return c.host
}

// Config 返回当前配置
func (c *Client) Config() Config {
	return c.cfg
}

// Call 发送请求并读取完整响应
//
// 写入请求帧后半关闭写端，随后读取响应帧直到对端关闭流。
// 多个响应帧按顺序拼接；对端不返回任何帧时响应为 nil。
func (c *Client) Call(ctx context.Context, peerID types.PeerID, protocol types.ProtocolID, request []byte) (resp []byte, err error) {
	done := c.cfg.Metrics.StartRPC(protocol)
	defer func() { done(outcome(err)) }()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	s, err := c.open(ctx, peerID, protocol)
	if err != nil {
		return nil, err
	}
	defer func() { release(s, err) }()
	stop := context.AfterFunc(ctx, func() { _ = s.Reset() })
	defer stop()

	if err := WriteFrame(s, request); err != nil {
		return nil, c.fail(ctx, "write", peerID, protocol, err)
	}
	if err := s.CloseWrite(); err != nil {
		return nil, c.fail(ctx, "write", peerID, protocol, err)
	}

	fr := NewFrameReader(s, c.cfg.MaxFrameSize)
	for {
		frame, err := fr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, c.fail(ctx, "read", peerID, protocol, err)
		}
		resp = append(resp, frame...)
	}

	logger.Debug("调用完成",
		"peerID", log.TruncateID(string(peerID), 8),
		"protocol", protocol,
		"respBytes", len(resp))
	return resp, nil
}

// Send 只写入请求，不等待响应
func (c *Client) Send(ctx context.Context, peerID types.PeerID, protocol types.ProtocolID, request []byte) (err error) {
	done := c.cfg.Metrics.StartRPC(protocol)
	defer func() { done(outcome(err)) }()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	s, err := c.open(ctx, peerID, protocol)
	if err != nil {
		return err
	}
	defer func() { release(s, err) }()
	stop := context.AfterFunc(ctx, func() { _ = s.Reset() })
	defer stop()

	if err := WriteFrame(s, request); err != nil {
		return c.fail(ctx, "write", peerID, protocol, err)
	}
	if err := s.CloseWrite(); err != nil {
		return c.fail(ctx, "write", peerID, protocol, err)
	}
	return nil
}

// open 打开流并设置截止时间
func (c *Client) open(ctx context.Context, peerID types.PeerID, protocol types.ProtocolID) (pkgif.Stream, error) {
	s, err := c.host.NewStream(ctx, peerID, protocol)
	if err != nil {
		return nil, c.fail(ctx, "open", peerID, protocol, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.SetDeadline(deadline); err != nil {
			logger.Debug("设置流截止时间失败", "error", err)
		}
	}
	return s, nil
}

// withTimeout 在 context 没有截止时间时套用默认超时
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

// fail 构造 TransportError
func (c *Client) fail(ctx context.Context, op string, peerID types.PeerID, protocol types.ProtocolID, err error) error {
	ctxErr := ctx.Err()
	timeout := errors.Is(ctxErr, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded)
	if ctxErr != nil && !errors.Is(err, ctxErr) {
		err = errors.Join(ctxErr, err)
	}

	logger.Debug("调用失败",
		"op", op,
		"peerID", log.TruncateID(string(peerID), 8),
		"protocol", protocol,
		"timeout", timeout,
		"error", err)

	return &TransportError{
		Op:       op,
		Peer:     peerID,
		Protocol: protocol,
		Timeout:  timeout,
		Err:      err,
	}
}

// release 释放流：成功时正常关闭，失败时 Reset
func release(s pkgif.Stream, err error) {
	if err != nil {
		_ = s.Reset()
		return
	}
	_ = s.Close()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrTimeout):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeError
	}
}
