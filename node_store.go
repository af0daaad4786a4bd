package lightnode

import (
	"context"
	"iter"
)

// QueryGenerator 创建历史查询分页器
//
// 第一次查询在第一次调用 Next 时发出。
func (n *Node) QueryGenerator(ctx context.Context, decoders []Decoder, opts ...QueryOption) (*Paginator, error) {
	if err := n.checkRunning(); err != nil {
		return nil, err
	}
	return n.store.QueryGenerator(ctx, decoders, opts...)
}

// Pages 以迭代器形式返回历史查询的全部页
func (n *Node) Pages(ctx context.Context, decoders []Decoder, opts ...QueryOption) iter.Seq2[*Page, error] {
	if err := n.checkRunning(); err != nil {
		return func(yield func(*Page, error) bool) {
			yield(nil, err)
		}
	}
	return n.store.Pages(ctx, decoders, opts...)
}

// QueryOrderedCallback 按顺序逐条回调历史消息，callback 返回 true 时停止
func (n *Node) QueryOrderedCallback(ctx context.Context, decoders []Decoder, callback func(DecodedMessage) bool, opts ...QueryOption) error {
	if err := n.checkRunning(); err != nil {
		return err
	}
	return n.store.QueryOrderedCallback(ctx, decoders, callback, opts...)
}

// QueryCallbackOnPromise 不等待解码即交出每条历史消息，callback 返回 true 时停止
func (n *Node) QueryCallbackOnPromise(ctx context.Context, decoders []Decoder, callback func(*Pending) bool, opts ...QueryOption) error {
	if err := n.checkRunning(); err != nil {
		return err
	}
	return n.store.QueryCallbackOnPromise(ctx, decoders, callback, opts...)
}
