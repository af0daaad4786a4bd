package mocks

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// ErrStreamReset 流被 Reset
var ErrStreamReset = errors.New("mocks: stream reset")

// ============================================================================
//                              MockStream
// ============================================================================

// 确保实现接口
var _ interfaces.Stream = (*MockStream)(nil)

// MockStream 模拟 Stream 接口实现
type MockStream struct {
	mu sync.Mutex

	// 数据存储
	ReadData  []byte // 用于 Read 的预设数据
	WriteData []byte // 写入的数据会追加到这里
	ReadPos   int    // 当前读取位置

	// 状态
	Closed      bool
	WriteClosed bool
	ResetCalled bool
	Deadline    time.Time
	ProtocolID  types.ProtocolID
	RemoteID    types.PeerID

	// 可覆盖的方法
	ReadFunc        func(p []byte) (n int, err error)
	WriteFunc       func(p []byte) (n int, err error)
	CloseFunc       func() error
	CloseWriteFunc  func() error
	ResetFunc       func() error
	SetDeadlineFunc func(t time.Time) error
}

// NewMockStream 创建带有默认值的 MockStream
func NewMockStream() *MockStream {
	return &MockStream{
		WriteData:  make([]byte, 0),
		ProtocolID: "/test/1.0.0",
	}
}

// NewMockStreamWithData 创建带有预设读取数据的 MockStream
func NewMockStreamWithData(data []byte) *MockStream {
	s := NewMockStream()
	s.ReadData = data
	return s
}

// Read 读取数据
func (m *MockStream) Read(p []byte) (n int, err error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ResetCalled {
		return 0, ErrStreamReset
	}
	if m.Closed || m.ReadPos >= len(m.ReadData) {
		return 0, io.EOF
	}
	n = copy(p, m.ReadData[m.ReadPos:])
	m.ReadPos += n
	return n, nil
}

// Write 写入数据
func (m *MockStream) Write(p []byte) (n int, err error) {
	if m.WriteFunc != nil {
		return m.WriteFunc(p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Closed || m.WriteClosed {
		return 0, io.ErrClosedPipe
	}
	m.WriteData = append(m.WriteData, p...)
	return len(p), nil
}

// Written 返回已写入数据的副本
func (m *MockStream) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.WriteData...)
}

// Close 关闭流
func (m *MockStream) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// CloseWrite 关闭写端
func (m *MockStream) CloseWrite() error {
	if m.CloseWriteFunc != nil {
		return m.CloseWriteFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteClosed = true
	return nil
}

// Reset 重置流
func (m *MockStream) Reset() error {
	if m.ResetFunc != nil {
		return m.ResetFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalled = true
	m.Closed = true
	return nil
}

// SetDeadline 设置截止时间
func (m *MockStream) SetDeadline(t time.Time) error {
	if m.SetDeadlineFunc != nil {
		return m.SetDeadlineFunc(t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deadline = t
	return nil
}

// Protocol 返回协议 ID
func (m *MockStream) Protocol() types.ProtocolID {
	return m.ProtocolID
}

// RemotePeer 返回对端节点
func (m *MockStream) RemotePeer() types.PeerID {
	return m.RemoteID
}

// IsReset 是否被 Reset
func (m *MockStream) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ResetCalled
}

// IsClosed 是否已关闭
func (m *MockStream) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Closed
}

// ============================================================================
//                              PipeStream
// ============================================================================

// 确保实现接口
var _ interfaces.Stream = (*PipeStream)(nil)

// PipeStream 基于 io.Pipe 的双向流
//
// 写入是同步的：Write 在对端读完之前阻塞。
// CloseWrite 让对端读到 io.EOF；Reset 让两端读写都返回 ErrStreamReset；
// 截止时间到达时两端返回 os.ErrDeadlineExceeded。
type PipeStream struct {
	local    types.PeerID
	remote   types.PeerID
	protocol types.ProtocolID

	r *io.PipeReader
	w *io.PipeWriter

	mu    sync.Mutex
	timer *time.Timer
	reset bool
}

// NewStreamPair 创建一对相连的流
//
// 第一个返回值属于 local，第二个属于 remote。
func NewStreamPair(local, remote types.PeerID, protocol types.ProtocolID) (*PipeStream, *PipeStream) {
	r1, w1 := io.Pipe() // local → remote
	r2, w2 := io.Pipe() // remote → local

	a := &PipeStream{local: local, remote: remote, protocol: protocol, r: r2, w: w1}
	b := &PipeStream{local: remote, remote: local, protocol: protocol, r: r1, w: w2}
	return a, b
}

// Read 读取数据
func (s *PipeStream) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Write 写入数据
func (s *PipeStream) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// CloseWrite 关闭写端
func (s *PipeStream) CloseWrite() error {
	return s.w.Close()
}

// Close 关闭流
func (s *PipeStream) Close() error {
	s.stopTimer()
	s.w.Close()
	return s.r.Close()
}

// Reset 重置流
func (s *PipeStream) Reset() error {
	s.stopTimer()
	s.mu.Lock()
	s.reset = true
	s.mu.Unlock()
	s.w.CloseWithError(ErrStreamReset)
	return s.r.CloseWithError(ErrStreamReset)
}

// IsReset 是否被 Reset
func (s *PipeStream) IsReset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reset
}

// SetDeadline 设置截止时间
func (s *PipeStream) SetDeadline(t time.Time) error {
	s.stopTimer()
	if t.IsZero() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = time.AfterFunc(time.Until(t), func() {
		s.w.CloseWithError(os.ErrDeadlineExceeded)
		s.r.CloseWithError(os.ErrDeadlineExceeded)
	})
	return nil
}

func (s *PipeStream) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Protocol 返回协议 ID
func (s *PipeStream) Protocol() types.ProtocolID {
	return s.protocol
}

// RemotePeer 返回对端节点
func (s *PipeStream) RemotePeer() types.PeerID {
	return s.remote
}
