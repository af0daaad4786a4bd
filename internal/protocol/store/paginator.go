package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// Paginator 单次查询的分页器
//
// 只能前进一遍，不能并发使用。结束后可以用 Cursor 返回的游标
// 通过 WithCursor 发起新的查询继续。
type Paginator struct {
	store     *Store
	peer      types.PeerID
	decoders  map[string]pkgif.Decoder
	query     *waku.HistoryQuery
	pageSize  uint64
	direction types.PageDirection

	cursor *waku.Index
	page   *Page
	pages  int
	done   bool
	err    error
}

// Peer 返回被查询的服务节点
func (p *Paginator) Peer() types.PeerID {
	return p.peer
}

// Direction 返回翻页方向
func (p *Paginator) Direction() types.PageDirection {
	return p.direction
}

// PageSize 返回请求的页大小
func (p *Paginator) PageSize() uint64 {
	return p.pageSize
}

// Page 返回最近一次 Next 取得的页
func (p *Paginator) Page() *Page {
	return p.page
}

// Cursor 返回下一次查询将使用的游标；没有时返回 nil
func (p *Paginator) Cursor() *types.Cursor {
	return fromIndex(p.cursor)
}

// Err 返回导致分页失败的错误；正常结束时为 nil
func (p *Paginator) Err() error {
	return p.err
}

// Next 取下一页
//
// 返回 false 表示分页结束，此时应检查 Err。
// ctx 取消后不再发出查询，已交付的页不受影响。
func (p *Paginator) Next(ctx context.Context) bool {
	if p.done {
		return false
	}
	p.page = nil

	if err := ctx.Err(); err != nil {
		return p.fail(err)
	}

	requestID := uuid.NewString()
	resp, err := p.roundTrip(ctx, requestID)
	p.store.cfg.Metrics.StoreQuery(err)
	if err != nil {
		return p.fail(err)
	}

	// 1. 没有响应体
	if resp == nil {
		logger.Debug("响应缺少 response 字段，停止分页", "requestID", requestID)
		return p.finish()
	}

	// 2. 错误码
	if resp.Error != waku.HistoryErrorNone {
		logger.Warn("历史查询返回错误",
			"peerID", log.TruncateID(string(p.peer), 8),
			"requestID", requestID,
			"code", resp.Error)
		return p.fail(&HistoryProtocolError{RequestID: requestID, Code: resp.Error})
	}

	// 3. 空页
	if len(resp.Messages) == 0 {
		logger.Debug("响应没有消息，停止分页", "requestID", requestID)
		return p.finish()
	}

	// 4. 交付本页
	p.page = newPage(ctx, p.query.GetPubsubTopic(), p.decoders, resp.Messages, p.store.cfg.Metrics)
	p.pages++

	logger.Debug("取得历史页",
		"page", p.pages,
		"messages", len(resp.Messages))

	// 5. 没有下一页游标
	next := resp.PagingInfo.GetCursor()
	if next == nil {
		logger.Debug("响应缺少游标，停止分页", "requestID", requestID)
		p.done = true
		return true
	}

	// 6. 页大小小于请求值
	p.cursor = next
	echoed := resp.PagingInfo.GetPageSize()
	if echoed > 0 && p.pageSize > 0 && echoed < p.pageSize {
		p.done = true
	}
	return true
}

// roundTrip 发送查询并解析响应，没有响应体时返回 (nil, nil)
func (p *Paginator) roundTrip(ctx context.Context, requestID string) (*waku.HistoryResponse, error) {
	dir := waku.PagingBackward
	if p.direction == types.PageForward {
		dir = waku.PagingForward
	}

	query := *p.query
	query.PagingInfo = &waku.PagingInfo{
		PageSize:  waku.Uint64(p.pageSize),
		Cursor:    p.cursor,
		Direction: &dir,
	}
	req := &waku.HistoryRPC{RequestID: requestID, Query: &query}

	data, err := p.store.rpc.Call(ctx, p.peer, protocolids.Store, req.Marshal())
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var reply waku.HistoryRPC
	if err := reply.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("store: decode response: %w", err)
	}
	return reply.Response, nil
}

func (p *Paginator) finish() bool {
	p.done = true
	return false
}

func (p *Paginator) fail(err error) bool {
	p.done = true
	p.err = err
	if !errors.Is(err, context.Canceled) {
		logger.Debug("分页失败",
			"peerID", log.TruncateID(string(p.peer), 8),
			"pages", p.pages,
			"error", err)
	}
	return false
}
