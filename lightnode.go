package lightnode

import (
	"github.com/dep2p/go-lightnode/internal/protocol/filter"
	"github.com/dep2p/go-lightnode/internal/protocol/store"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "go-lightnode " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// DecodedMessage 应用层消息
	DecodedMessage = pkgif.DecodedMessage

	// Decoder 消息解码器
	Decoder = pkgif.Decoder

	// Callback 推送消息回调
	Callback = pkgif.Callback

	// PeerID 节点 ID
	PeerID = types.PeerID

	// Cursor 历史分页游标
	Cursor = types.Cursor

	// PageDirection 翻页方向
	PageDirection = types.PageDirection

	// Subscription 一个 (pubsub topic, 服务节点) 上的订阅
	Subscription = filter.Subscription

	// Paginator 历史查询分页器
	Paginator = store.Paginator

	// Page 一页历史消息
	Page = store.Page

	// Pending 一条尚未解码完成的历史消息
	Pending = store.Pending

	// QueryOption 历史查询选项
	QueryOption = store.QueryOption
)

// 翻页方向
const (
	PageBackward = types.PageBackward
	PageForward  = types.PageForward
)

// 历史查询选项
var (
	QueryPeer       = store.WithPeer
	QueryTopic      = store.WithTopic
	QueryPageSize   = store.WithPageSize
	QueryDirection  = store.WithDirection
	QueryTimeFilter = store.WithTimeFilter
	QueryLast       = store.WithLast
	QueryCursor     = store.WithCursor
)

// CreateCursor 由消息计算分页游标
//
// pubsubTopic 为空时使用默认 topic。
func CreateCursor(msg DecodedMessage, pubsubTopic string) (*Cursor, error) {
	return store.CreateCursor(msg, pubsubTopic)
}
