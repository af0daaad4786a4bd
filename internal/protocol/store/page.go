package store

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-lightnode/internal/core/metrics"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
)

// Pending 一条消息的解码结果，解码完成前不可读
type Pending struct {
	raw  *waku.WakuMessage
	done chan struct{}
	msg  pkgif.DecodedMessage
}

// Raw 返回线上消息
func (p *Pending) Raw() *waku.WakuMessage {
	return p.raw
}

// Done 解码完成时关闭
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Await 等待解码完成
//
// 没有匹配解码器或解码失败时返回 (nil, nil)。
func (p *Pending) Await(ctx context.Context) (pkgif.DecodedMessage, error) {
	select {
	case <-p.done:
		return p.msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Page 一页历史消息，顺序与服务节点返回的一致（从旧到新）
type Page struct {
	items []*Pending
	done  chan struct{}
}

// newPage 为每条消息启动解码
func newPage(ctx context.Context, pubsubTopic string, decoders map[string]pkgif.Decoder, raws []*waku.WakuMessage, m *metrics.Metrics) *Page {
	page := &Page{
		items: make([]*Pending, len(raws)),
		done:  make(chan struct{}),
	}

	var (
		g       errgroup.Group
		decoded atomic.Int64
	)
	for i, raw := range raws {
		pending := &Pending{raw: raw, done: make(chan struct{})}
		page.items[i] = pending

		dec, ok := decoders[raw.ContentTopic]
		if !ok {
			close(pending.done)
			continue
		}
		g.Go(func() error {
			defer close(pending.done)
			pending.msg = decode(ctx, pubsubTopic, dec, raw)
			if pending.msg != nil {
				decoded.Add(1)
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		n := int(decoded.Load())
		m.StorePage(n, len(raws)-n)
		close(page.done)
	}()

	return page
}

// Len 返回本页消息数（含解码失败的）
func (p *Page) Len() int {
	return len(p.items)
}

// Pending 返回每条消息的解码结果句柄
func (p *Page) Pending() []*Pending {
	return p.items
}

// Results 等待全部解码完成，按位置返回结果，失败的位置为 nil
func (p *Page) Results(ctx context.Context) ([]pkgif.DecodedMessage, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	results := make([]pkgif.DecodedMessage, len(p.items))
	for i, item := range p.items {
		results[i] = item.msg
	}
	return results, nil
}

// Messages 等待全部解码完成，返回解码成功的消息
func (p *Page) Messages(ctx context.Context) ([]pkgif.DecodedMessage, error) {
	results, err := p.Results(ctx)
	if err != nil {
		return nil, err
	}
	msgs := make([]pkgif.DecodedMessage, 0, len(results))
	for _, msg := range results {
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

// decode 运行解码器，失败返回 nil
func decode(ctx context.Context, pubsubTopic string, dec pkgif.Decoder, raw *waku.WakuMessage) (msg pkgif.DecodedMessage) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("解码器 panic", "contentTopic", raw.ContentTopic, "panic", r)
			msg = nil
		}
	}()

	msg, err := dec.Decode(ctx, pubsubTopic, raw)
	if err != nil {
		logger.Debug("历史消息解码失败", "contentTopic", raw.ContentTopic, "error", err)
		return nil
	}
	return msg
}
