package lightnode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-lightnode/config"
	"github.com/dep2p/go-lightnode/internal/core/host"
	"github.com/dep2p/go-lightnode/internal/protocol/filter"
	"github.com/dep2p/go-lightnode/internal/protocol/store"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
)

var logger = log.Logger("lightnode")

// ════════════════════════════════════════════════════════════════════════════
//                              节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点状态
type NodeState int

const (
	// StateIdle 已创建，未启动
	StateIdle NodeState = iota

	// StateRunning 运行中
	StateRunning

	// StateClosed 已关闭，不可重新启动
	StateClosed
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const (
	// startTimeout 启动超时（Fx App Start）
	startTimeout = 30 * time.Second

	// stopTimeout 关闭超时
	stopTimeout = 10 * time.Second
)

// Node 轻节点
//
// Node 是用户与服务节点交互的主入口，聚合 Host、Filter 与 Store。
// 所有方法可被并发调用。
type Node struct {
	config *config.Config
	app    *fx.App

	host   *host.Host
	filter *filter.Filter
	store  *store.Store

	mu    sync.Mutex
	state NodeState
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造函数
// ════════════════════════════════════════════════════════════════════════════

// New 创建新节点
//
// 创建节点但不启动，需要调用 Start() 启动。Host 在此时创建并开始监听。
func New(_ context.Context, opts ...Option) (*Node, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if o.logger != nil {
		log.SetDefault(o.logger)
	}

	node := &Node{config: o.config}

	app, err := buildFxApp(o, node)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	node.app = app

	logger.Info("节点已创建", "peerID", log.TruncateID(string(node.ID()), 8))
	return node, nil
}

// Start 快捷启动函数
//
// 等价于 New() + Start()。
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	node, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := node.Start(ctx); err != nil {
		_ = node.Close()
		return nil, fmt.Errorf("start node: %w", err)
	}
	return node, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动节点
//
// 注册推送处理器后节点才能接收订阅消息。
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateClosed:
		return ErrNodeClosed
	case StateRunning:
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := n.app.Start(startCtx); err != nil {
		logger.Error("节点启动失败", "error", err)
		return fmt.Errorf("start fx app: %w", err)
	}

	n.state = StateRunning
	logger.Info("节点已启动",
		"peerID", log.TruncateID(string(n.ID()), 8),
		"addrs", n.Addrs())
	return nil
}

// Close 关闭节点并释放所有资源
//
// 已登记的订阅不会被自动取消；服务节点会在推送失败后自行清理。
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == StateClosed {
		return nil
	}
	wasRunning := n.state == StateRunning
	n.state = StateClosed

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	var err error
	if wasRunning {
		err = n.app.Stop(ctx)
	} else if n.host != nil {
		// 未启动时 OnStop 钩子不会执行
		err = n.host.Close()
	}
	if err != nil {
		logger.Warn("关闭节点出错", "error", err)
		return fmt.Errorf("close node: %w", err)
	}
	logger.Info("节点已关闭")
	return nil
}

// State 返回节点状态
func (n *Node) State() NodeState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// IsRunning 节点是否运行中
func (n *Node) IsRunning() bool {
	return n.State() == StateRunning
}

// checkRunning 检查节点是否可用
func (n *Node) checkRunning() error {
	switch n.State() {
	case StateIdle:
		return ErrNotStarted
	case StateClosed:
		return ErrNodeClosed
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              基本信息
// ════════════════════════════════════════════════════════════════════════════

// ID 返回节点 ID
func (n *Node) ID() PeerID {
	if n.host == nil {
		return ""
	}
	return n.host.ID()
}

// Addrs 返回带 /p2p 后缀的完整监听地址
func (n *Node) Addrs() []string {
	if n.host == nil {
		return nil
	}
	addrs := n.host.Addrs()
	result := make([]string, len(addrs))
	for i, a := range addrs {
		result[i] = a.String()
	}
	return result
}

// Host 返回底层 Host
func (n *Node) Host() pkgif.Host {
	return n.host
}

// Config 返回生效配置的副本
func (n *Node) Config() *config.Config {
	return config.CloneConfig(n.config)
}

// AddPeer 登记服务节点
//
// addr 必须以 /p2p/<id> 结尾；protocols 为空时视为支持全部 Filter/Store 协议。
func (n *Node) AddPeer(addr string, protocols ...types.ProtocolID) (PeerID, error) {
	if n.State() == StateClosed {
		return "", ErrNodeClosed
	}
	if len(protocols) == 0 {
		protocols = protocolids.All()
	}
	return n.host.AddPeerString(addr, protocols...)
}
