package lightnode

import (
	"context"
	"iter"
	"sync"

	"github.com/dep2p/go-lightnode/pkg/lib/log"
)

// DefaultChannelBuffer SubscribeChannel 的默认通道容量
const DefaultChannelBuffer = 64

// Unsubscribe 取消订阅函数
type Unsubscribe func(ctx context.Context) error

// SubscribeOption 订阅选项
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	peer        PeerID
	pubsubTopic string
	buffer      int
}

// SubscribePeer 指定服务节点
func SubscribePeer(peerID PeerID) SubscribeOption {
	return func(o *subscribeOptions) {
		o.peer = peerID
	}
}

// SubscribeTopic 指定 pubsub topic
func SubscribeTopic(topic string) SubscribeOption {
	return func(o *subscribeOptions) {
		o.pubsubTopic = topic
	}
}

// SubscribeBuffer 设置 SubscribeChannel 的通道容量
func SubscribeBuffer(n int) SubscribeOption {
	return func(o *subscribeOptions) {
		o.buffer = n
	}
}

// CreateSubscription 获取 (pubsub topic, 服务节点) 上的订阅
//
// 同一对参数返回同一个 Subscription。
func (n *Node) CreateSubscription(ctx context.Context, opts ...SubscribeOption) (*Subscription, error) {
	if err := n.checkRunning(); err != nil {
		return nil, err
	}
	o := subscribeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return n.filter.CreateSubscription(ctx, o.pubsubTopic, o.peer)
}

// Subscriptions 返回当前全部订阅
func (n *Node) Subscriptions() []*Subscription {
	if n.filter == nil {
		return nil
	}
	return n.filter.Subscriptions()
}

// Subscribe 订阅并把推送消息交给 callback
//
// 返回的 Unsubscribe 只取消 decoders 涉及的 content topic。
// callback 在推送流的 goroutine 中调用，不应长时间阻塞。
func (n *Node) Subscribe(ctx context.Context, decoders []Decoder, callback Callback, opts ...SubscribeOption) (Unsubscribe, error) {
	sub, err := n.CreateSubscription(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := sub.Subscribe(ctx, decoders, callback); err != nil {
		return nil, err
	}

	topics := contentTopics(decoders)
	logger.Debug("订阅已建立",
		"peerID", log.TruncateID(string(sub.Peer()), 8),
		"pubsubTopic", sub.PubsubTopic(),
		"contentTopics", topics)

	return func(ctx context.Context) error {
		return sub.Unsubscribe(ctx, topics)
	}, nil
}

// SubscribeChannel 订阅并通过通道接收推送消息
//
// 通道满时新消息被丢弃。调用 Unsubscribe 后通道关闭。
func (n *Node) SubscribeChannel(ctx context.Context, decoders []Decoder, opts ...SubscribeOption) (<-chan DecodedMessage, Unsubscribe, error) {
	o := subscribeOptions{buffer: DefaultChannelBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	if o.buffer < 0 {
		o.buffer = 0
	}

	r := newChannelReceiver(o.buffer)
	unsubscribe, err := n.Subscribe(ctx, decoders, r.deliver, opts...)
	if err != nil {
		r.close()
		return nil, nil, err
	}

	return r.ch, func(ctx context.Context) error {
		defer r.close()
		return unsubscribe(ctx)
	}, nil
}

// SubscribeSeq 订阅并以迭代器形式返回推送消息
//
// 迭代在 ctx 结束或调用方 break 时停止，并自动取消订阅。
func (n *Node) SubscribeSeq(ctx context.Context, decoders []Decoder, opts ...SubscribeOption) (iter.Seq[DecodedMessage], error) {
	ch, unsubscribe, err := n.SubscribeChannel(ctx, decoders, opts...)
	if err != nil {
		return nil, err
	}
	return func(yield func(DecodedMessage) bool) {
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
			defer cancel()
			if err := unsubscribe(stopCtx); err != nil {
				logger.Debug("取消订阅失败", "error", err)
			}
		}()
		for {
			select {
			case msg, ok := <-ch:
				if !ok || !yield(msg) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}, nil
}

// contentTopics 按首次出现顺序返回去重后的 content topic
func contentTopics(decoders []Decoder) []string {
	seen := make(map[string]struct{}, len(decoders))
	topics := make([]string, 0, len(decoders))
	for _, dec := range decoders {
		if dec == nil {
			continue
		}
		topic := dec.ContentTopic()
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	return topics
}

// ════════════════════════════════════════════════════════════════════════════
//                              通道接收器
// ════════════════════════════════════════════════════════════════════════════

// channelReceiver 把回调转换为通道，关闭后丢弃迟到的消息
type channelReceiver struct {
	mu     sync.RWMutex
	ch     chan DecodedMessage
	closed bool
}

func newChannelReceiver(buffer int) *channelReceiver {
	return &channelReceiver{ch: make(chan DecodedMessage, buffer)}
}

func (r *channelReceiver) deliver(msg DecodedMessage) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}
	select {
	case r.ch <- msg:
	default:
		logger.Warn("订阅通道已满，丢弃消息", "contentTopic", msg.ContentTopic())
	}
}

func (r *channelReceiver) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.closed {
		r.closed = true
		close(r.ch)
	}
}
