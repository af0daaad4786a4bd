package filter

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dep2p/go-lightnode/internal/core/metrics"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// subscriptionCallback 一个 content topic 的解码器与回调
type subscriptionCallback struct {
	decoders []pkgif.Decoder
	callback pkgif.Callback
}

// Subscription 一个 (pubsub topic, 服务节点) 上的订阅
type Subscription struct {
	filter      *Filter
	pubsubTopic string
	peer        types.PeerID

	// mutation 串行化订阅变更，在网络请求期间持有
	mutation sync.Mutex

	mu        sync.RWMutex
	callbacks map[string]*subscriptionCallback
}

func newSubscription(f *Filter, pubsubTopic string, peer types.PeerID) *Subscription {
	return &Subscription{
		filter:      f,
		pubsubTopic: pubsubTopic,
		peer:        peer,
		callbacks:   make(map[string]*subscriptionCallback),
	}
}

// PubsubTopic 返回订阅的 pubsub topic
func (s *Subscription) PubsubTopic() string {
	return s.pubsubTopic
}

// Peer 返回服务节点
func (s *Subscription) Peer() types.PeerID {
	return s.peer
}

// ContentTopics 返回已订阅的 content topic（已排序）
func (s *Subscription) ContentTopics() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topics := make([]string, 0, len(s.callbacks))
	for topic := range s.callbacks {
		topics = append(topics, topic)
	}
	slices.Sort(topics)
	return topics
}

// Subscribe 订阅一组 content topic
//
// 解码器按 content topic 分组，同一 topic 可以有多个解码器。
// 只有服务节点返回 2xx 后才登记回调；已存在的 topic 被覆盖。
func (s *Subscription) Subscribe(ctx context.Context, decoders []pkgif.Decoder, callback pkgif.Callback) error {
	if callback == nil {
		return fmt.Errorf("%w: callback is nil", ErrConfig)
	}
	grouped, topics, err := groupDecoders(decoders)
	if err != nil {
		return err
	}

	s.mutation.Lock()
	defer s.mutation.Unlock()

	req := &waku.FilterSubscribeRequest{
		RequestID:     uuid.NewString(),
		Type:          waku.FilterSubscribe,
		PubsubTopic:   waku.String(s.pubsubTopic),
		ContentTopics: topics,
	}
	if err := s.request(ctx, req); err != nil {
		return err
	}

	s.mu.Lock()
	for topic, decs := range grouped {
		s.callbacks[topic] = &subscriptionCallback{decoders: decs, callback: callback}
	}
	s.mu.Unlock()

	logger.Debug("订阅成功",
		"pubsubTopic", s.pubsubTopic,
		"peerID", log.TruncateID(string(s.peer), 8),
		"contentTopics", topics)
	return nil
}

// Unsubscribe 取消订阅一组 content topic
//
// 请求只写不读：写入成功即移除本地回调，不等待服务节点确认。
func (s *Subscription) Unsubscribe(ctx context.Context, contentTopics []string) error {
	if len(contentTopics) == 0 {
		return fmt.Errorf("%w: no content topics", ErrConfig)
	}

	s.mutation.Lock()
	defer s.mutation.Unlock()

	req := &waku.FilterSubscribeRequest{
		RequestID:     uuid.NewString(),
		Type:          waku.FilterUnsubscribe,
		PubsubTopic:   waku.String(s.pubsubTopic),
		ContentTopics: contentTopics,
	}

	err := s.filter.rpc.Send(ctx, s.peer, protocolids.FilterSubscribe, req.Marshal())
	s.filter.cfg.Metrics.FilterRequest(req.Type.String(), err)
	if err != nil {
		logger.Warn("取消订阅失败",
			"peerID", log.TruncateID(string(s.peer), 8),
			"error", err)
		return err
	}

	s.mu.Lock()
	for _, topic := range contentTopics {
		delete(s.callbacks, topic)
	}
	s.mu.Unlock()
	return nil
}

// Ping 检查服务节点上的订阅是否仍然有效
func (s *Subscription) Ping(ctx context.Context) error {
	req := &waku.FilterSubscribeRequest{
		RequestID: uuid.NewString(),
		Type:      waku.FilterSubscriberPing,
	}

	resp, err := s.roundTrip(ctx, req)
	if err != nil {
		return &PingError{RequestID: req.RequestID, Err: err}
	}
	if !resp.IsSuccess() {
		logger.Warn("Ping 失败",
			"peerID", log.TruncateID(string(s.peer), 8),
			"statusCode", resp.StatusCode,
			"statusDesc", resp.GetStatusDesc())
		return &PingError{
			RequestID:  req.RequestID,
			StatusCode: resp.StatusCode,
			StatusDesc: resp.GetStatusDesc(),
		}
	}
	return nil
}

// UnsubscribeAll 取消该 pubsub topic 上的全部订阅
//
// 成功后清空回调表；订阅对象本身仍留在注册表中，可继续 Subscribe。
func (s *Subscription) UnsubscribeAll(ctx context.Context) error {
	s.mutation.Lock()
	defer s.mutation.Unlock()

	req := &waku.FilterSubscribeRequest{
		RequestID:   uuid.NewString(),
		Type:        waku.FilterUnsubscribeAll,
		PubsubTopic: waku.String(s.pubsubTopic),
	}
	if err := s.request(ctx, req); err != nil {
		return err
	}

	s.mu.Lock()
	clear(s.callbacks)
	s.mu.Unlock()

	logger.Debug("已取消全部订阅",
		"pubsubTopic", s.pubsubTopic,
		"peerID", log.TruncateID(string(s.peer), 8))
	return nil
}

// request 发送请求，失败时返回 *SubscribeRequestError
func (s *Subscription) request(ctx context.Context, req *waku.FilterSubscribeRequest) error {
	resp, err := s.roundTrip(ctx, req)
	if err != nil {
		return &SubscribeRequestError{RequestID: req.RequestID, Type: req.Type, Err: err}
	}
	if !resp.IsSuccess() {
		logger.Warn("订阅请求被拒绝",
			"type", req.Type,
			"peerID", log.TruncateID(string(s.peer), 8),
			"statusCode", resp.StatusCode,
			"statusDesc", resp.GetStatusDesc())
		return &SubscribeRequestError{
			RequestID:  req.RequestID,
			Type:       req.Type,
			StatusCode: resp.StatusCode,
			StatusDesc: resp.GetStatusDesc(),
		}
	}
	return nil
}

// roundTrip 发送请求并解析响应
func (s *Subscription) roundTrip(ctx context.Context, req *waku.FilterSubscribeRequest) (resp *waku.FilterSubscribeResponse, err error) {
	defer func() {
		if err == nil && !resp.IsSuccess() {
			s.filter.cfg.Metrics.FilterRequest(req.Type.String(), ErrSubscribeRequest)
			return
		}
		s.filter.cfg.Metrics.FilterRequest(req.Type.String(), err)
	}()

	data, err := s.filter.rpc.Call(ctx, s.peer, protocolids.FilterSubscribe, req.Marshal())
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyResponse
	}

	resp = &waku.FilterSubscribeResponse{}
	if err := resp.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("filter: decode response: %w", err)
	}
	return resp, nil
}

// ============================================================================
//                              推送分发
// ============================================================================

// processMessage 将一条推送消息交给对应 content topic 的回调
//
// 返回值为指标中的推送结果。
func (s *Subscription) processMessage(ctx context.Context, msg *waku.WakuMessage) string {
	s.mu.RLock()
	entry, ok := s.callbacks[msg.ContentTopic]
	s.mu.RUnlock()
	if !ok {
		logger.Debug("未订阅的 content topic",
			"pubsubTopic", s.pubsubTopic,
			"contentTopic", msg.ContentTopic)
		return metrics.PushUnsupported
	}

	decoded, err := decodeFirst(ctx, s.pubsubTopic, entry.decoders, msg)
	if err != nil {
		logger.Warn("推送消息解码失败",
			"pubsubTopic", s.pubsubTopic,
			"contentTopic", msg.ContentTopic,
			"error", err)
		return metrics.PushDecodeFail
	}

	invokeCallback(entry.callback, decoded)
	return metrics.PushDelivered
}

// invokeCallback 调用用户回调，回调 panic 不影响推送循环
func invokeCallback(cb pkgif.Callback, msg pkgif.DecodedMessage) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("订阅回调 panic",
				"contentTopic", msg.ContentTopic(),
				"panic", r)
		}
	}()
	cb(msg)
}

// groupDecoders 按 content topic 分组，返回分组和按首次出现排序的 topic 列表
func groupDecoders(decoders []pkgif.Decoder) (map[string][]pkgif.Decoder, []string, error) {
	if len(decoders) == 0 {
		return nil, nil, fmt.Errorf("%w: no decoders", ErrConfig)
	}

	grouped := make(map[string][]pkgif.Decoder)
	var topics []string
	for _, dec := range decoders {
		if dec == nil {
			return nil, nil, fmt.Errorf("%w: nil decoder", ErrConfig)
		}
		topic := dec.ContentTopic()
		if topic == "" {
			return nil, nil, fmt.Errorf("%w: empty content topic", ErrConfig)
		}
		if _, ok := grouped[topic]; !ok {
			topics = append(topics, topic)
		}
		grouped[topic] = append(grouped[topic], dec)
	}
	return grouped, topics, nil
}
