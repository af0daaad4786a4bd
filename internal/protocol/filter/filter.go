package filter

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-lightnode/internal/core/selector"
	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
)

var logger = log.Logger("protocol/filter")

// Filter Filter 协议客户端
type Filter struct {
	host     pkgif.Host
	rpc      *streamrpc.Client
	selector *selector.Selector
	cfg      *Config

	mu      sync.RWMutex
	started bool
	ctx     context.Context
	cancel  context.CancelFunc

	// subscriptions 活跃订阅注册表，键为 "<pubsubTopic>_<peerID>"
	subsMu        sync.RWMutex
	subscriptions map[string]*Subscription

	dedup *lru.Cache[[32]byte, struct{}]
}

// New 创建 Filter 服务
func New(rpc *streamrpc.Client, sel *selector.Selector, opts ...Option) (*Filter, error) {
	if rpc == nil || rpc.Host() == nil {
		return nil, ErrNilHost
	}
	if sel == nil {
		return nil, fmt.Errorf("%w: selector is nil", ErrConfig)
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	f := &Filter{
		host:          rpc.Host(),
		rpc:           rpc,
		selector:      sel,
		cfg:           cfg,
		subscriptions: make(map[string]*Subscription),
	}

	if cfg.Dedup {
		cache, err := lru.New[[32]byte, struct{}](cfg.DedupCacheSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		f.dedup = cache
	}

	return f, nil
}

// Start 启动服务，注册 PUSH 协议处理器
func (f *Filter) Start(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started {
		return ErrAlreadyStarted
	}

	f.ctx, f.cancel = context.WithCancel(context.Background())
	f.host.SetStreamHandler(protocolids.FilterPush, f.handlePushStream)
	f.started = true

	logger.Info("Filter 服务已启动",
		"pubsubTopic", f.cfg.PubsubTopic,
		"dedup", f.cfg.Dedup)
	return nil
}

// Stop 停止服务
//
// 注册表中的订阅保留，但不再接收推送。
func (f *Filter) Stop(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return ErrNotStarted
	}

	f.host.RemoveStreamHandler(protocolids.FilterPush)
	if f.cancel != nil {
		f.cancel()
	}
	f.started = false

	logger.Info("Filter 服务已停止")
	return nil
}

// IsStarted 服务是否运行中
func (f *Filter) IsStarted() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.started
}

// CreateSubscription 获取或创建 (pubsubTopic, peer) 对应的订阅
//
// pubsubTopic 为空时使用配置的默认 topic；peerID 为空时由选择器挑选
// 支持订阅协议的节点。此操作不产生网络流量。
func (f *Filter) CreateSubscription(ctx context.Context, pubsubTopic string, peerID types.PeerID) (*Subscription, error) {
	if !f.IsStarted() {
		return nil, ErrNotStarted
	}

	topic := f.resolveTopic(pubsubTopic)

	peer, err := f.selector.SelectPeer(ctx, peerID, protocolids.FilterSubscribe)
	if err != nil {
		return nil, err
	}

	key := subscriptionKey(topic, peer)

	f.subsMu.Lock()
	sub, ok := f.subscriptions[key]
	if !ok {
		sub = newSubscription(f, topic, peer)
		f.subscriptions[key] = sub
	}
	n := len(f.subscriptions)
	f.subsMu.Unlock()

	if !ok {
		f.cfg.Metrics.SetFilterSubscriptions(n)
		logger.Debug("创建订阅",
			"pubsubTopic", topic,
			"peerID", log.TruncateID(string(peer), 8))
	}
	return sub, nil
}

// Subscriptions 返回注册表快照
func (f *Filter) Subscriptions() []*Subscription {
	f.subsMu.RLock()
	defer f.subsMu.RUnlock()

	subs := make([]*Subscription, 0, len(f.subscriptions))
	for _, sub := range f.subscriptions {
		subs = append(subs, sub)
	}
	return subs
}

// lookup 查找订阅
func (f *Filter) lookup(pubsubTopic string, peerID types.PeerID) (*Subscription, bool) {
	f.subsMu.RLock()
	defer f.subsMu.RUnlock()
	sub, ok := f.subscriptions[subscriptionKey(pubsubTopic, peerID)]
	return sub, ok
}

func (f *Filter) resolveTopic(pubsubTopic string) string {
	if pubsubTopic != "" {
		return pubsubTopic
	}
	if f.cfg.PubsubTopic != "" {
		return f.cfg.PubsubTopic
	}
	return protocolids.DefaultPubsubTopic
}

func subscriptionKey(pubsubTopic string, peerID types.PeerID) string {
	return pubsubTopic + "_" + string(peerID)
}
