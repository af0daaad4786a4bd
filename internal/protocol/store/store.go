package store

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-lightnode/internal/core/selector"
	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
)

var logger = log.Logger("protocol/store")

// Store Store 协议客户端
//
// Store 不持有连接或查询状态，可被并发调用。
type Store struct {
	rpc      *streamrpc.Client
	selector *selector.Selector
	cfg      *Config
}

// New 创建 Store 客户端
func New(rpc *streamrpc.Client, sel *selector.Selector, opts ...Option) (*Store, error) {
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
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if err := cfg.Direction.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	return &Store{rpc: rpc, selector: sel, cfg: cfg}, nil
}

// QueryGenerator 创建分页器
//
// 参数校验和节点选择在此完成，不产生网络活动；
// 第一次查询在第一次调用 Next 时发出。
func (s *Store) QueryGenerator(ctx context.Context, decoders []pkgif.Decoder, opts ...QueryOption) (*Paginator, error) {
	params := queryParams{
		pubsubTopic: s.cfg.PubsubTopic,
		pageSize:    s.cfg.PageSize,
		direction:   s.cfg.Direction,
	}
	for _, opt := range opts {
		opt(&params)
	}

	byTopic, topics, err := mapDecoders(decoders)
	if err != nil {
		return nil, err
	}
	if err := params.direction.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	query := &waku.HistoryQuery{ContentTopics: topics}

	if params.pubsubTopic == "" {
		params.pubsubTopic = protocolids.DefaultPubsubTopic
	}
	query.PubsubTopic = waku.String(params.pubsubTopic)

	if params.window > 0 {
		now := s.cfg.Clock.Now()
		params.timeFilter = &types.TimeFilter{Start: now.Add(-params.window), End: now}
	}
	if tf := params.timeFilter; tf != nil {
		if err := tf.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		if !tf.Start.IsZero() {
			query.StartTime = waku.Int64(tf.Start.UnixNano())
		}
		if !tf.End.IsZero() {
			query.EndTime = waku.Int64(tf.End.UnixNano())
		}
	}

	if params.pageSize == 0 {
		params.pageSize = DefaultPageSize
	}
	if params.pageSize > waku.MaxPageSize {
		logger.Debug("页大小超过上限，按上限请求",
			"requested", params.pageSize,
			"max", waku.MaxPageSize)
		params.pageSize = waku.MaxPageSize
	}

	peer, err := s.selector.SelectPeer(ctx, params.peer, protocolids.Store)
	if err != nil {
		return nil, err
	}

	logger.Debug("创建历史查询",
		"peerID", log.TruncateID(string(peer), 8),
		"pubsubTopic", params.pubsubTopic,
		"contentTopics", topics,
		"pageSize", params.pageSize,
		"direction", params.direction)

	return &Paginator{
		store:     s,
		peer:      peer,
		decoders:  byTopic,
		query:     query,
		pageSize:  params.pageSize,
		direction: params.direction,
		cursor:    toIndex(params.cursor),
	}, nil
}

// Pages 以迭代器形式返回全部页
//
// 参数错误或查询失败时迭代器产出一次 (nil, err) 后结束。
func (s *Store) Pages(ctx context.Context, decoders []pkgif.Decoder, opts ...QueryOption) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		p, err := s.QueryGenerator(ctx, decoders, opts...)
		if err != nil {
			yield(nil, err)
			return
		}
		for p.Next(ctx) {
			if !yield(p.Page(), nil) {
				return
			}
		}
		if err := p.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// QueryOrderedCallback 按顺序逐条回调历史消息
//
// 每页等待全部解码完成并丢弃解码失败的消息；BACKWARD 方向下页内顺序反转，
// 因此整体从新到旧。callback 返回 true 时停止，不再发出后续查询。
func (s *Store) QueryOrderedCallback(ctx context.Context, decoders []pkgif.Decoder, callback func(pkgif.DecodedMessage) bool, opts ...QueryOption) error {
	if callback == nil {
		return fmt.Errorf("%w: callback is nil", ErrConfig)
	}
	p, err := s.QueryGenerator(ctx, decoders, opts...)
	if err != nil {
		return err
	}

	for p.Next(ctx) {
		msgs, err := p.Page().Messages(ctx)
		if err != nil {
			return err
		}
		if p.Direction() == types.PageBackward {
			slices.Reverse(msgs)
		}
		for _, msg := range msgs {
			if callback(msg) {
				return nil
			}
		}
	}
	return p.Err()
}

// QueryCallbackOnPromise 不等待解码即交出每条消息
//
// 每条消息的 callback 在独立 goroutine 中调用，callback 必须可以并发调用，
// 完成顺序也不保证与页内顺序一致。
// 一页的 callback 全部返回后才取下一页；任一 callback 返回 true 时，
// 本页尚未开始的 callback 被跳过，也不再发出后续查询。
func (s *Store) QueryCallbackOnPromise(ctx context.Context, decoders []pkgif.Decoder, callback func(*Pending) bool, opts ...QueryOption) error {
	if callback == nil {
		return fmt.Errorf("%w: callback is nil", ErrConfig)
	}
	p, err := s.QueryGenerator(ctx, decoders, opts...)
	if err != nil {
		return err
	}

	var abort atomic.Bool
	for !abort.Load() && p.Next(ctx) {
		var wg sync.WaitGroup
		for _, pending := range p.Page().Pending() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if abort.Load() {
					return
				}
				if callback(pending) {
					abort.Store(true)
				}
			}()
		}
		wg.Wait()
	}
	return p.Err()
}

// mapDecoders 建立 content topic → 解码器映射，同一 topic 只允许一个解码器
func mapDecoders(decoders []pkgif.Decoder) (map[string]pkgif.Decoder, []string, error) {
	byTopic := make(map[string]pkgif.Decoder, len(decoders))
	topics := make([]string, 0, len(decoders))
	for _, dec := range decoders {
		if dec == nil {
			return nil, nil, fmt.Errorf("%w: nil decoder", ErrConfig)
		}
		topic := dec.ContentTopic()
		if _, dup := byTopic[topic]; dup {
			return nil, nil, fmt.Errorf("%w: multiple decoders for content topic %q", ErrConfig, topic)
		}
		byTopic[topic] = dec
		topics = append(topics, topic)
	}
	return byTopic, topics, nil
}
