package lightnode

import (
	"errors"

	"github.com/dep2p/go-lightnode/config"
	"github.com/dep2p/go-lightnode/internal/core/selector"
	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
	"github.com/dep2p/go-lightnode/internal/protocol/filter"
	"github.com/dep2p/go-lightnode/internal/protocol/store"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 节点生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 节点未启动
	ErrNotStarted = errors.New("node not started")

	// ErrAlreadyStarted 节点已启动
	ErrAlreadyStarted = errors.New("node already started")

	// ErrNodeClosed 节点已关闭
	ErrNodeClosed = errors.New("node closed")

	// ────────────────────────────────────────────────────────────────────────
	// 配置与参数错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = config.ErrInvalidConfig

	// ErrFilterConfig Filter 调用参数无效
	ErrFilterConfig = filter.ErrConfig

	// ErrStoreConfig Store 调用参数无效
	ErrStoreConfig = store.ErrConfig

	// ────────────────────────────────────────────────────────────────────────
	// 网络相关错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNoPeerAvailable 没有可用的服务节点
	ErrNoPeerAvailable = selector.ErrNoPeerAvailable

	// ErrTransport 流打开、写入或读取失败
	ErrTransport = streamrpc.ErrTransport

	// ErrTimeout 调用超时
	ErrTimeout = streamrpc.ErrTimeout

	// ────────────────────────────────────────────────────────────────────────
	// 协议错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrSubscribeRequest 订阅请求被服务节点拒绝
	ErrSubscribeRequest = filter.ErrSubscribeRequest

	// ErrPing 订阅心跳失败
	ErrPing = filter.ErrPing

	// ErrHistoryProtocol 历史查询返回错误码
	ErrHistoryProtocol = store.ErrHistoryProtocol

	// ErrInvalidMessage 消息缺少计算游标所需的字段
	ErrInvalidMessage = store.ErrInvalidMessage
)

type (
	// SubscribeRequestError 带状态码的订阅请求失败
	SubscribeRequestError = filter.SubscribeRequestError

	// PingError 带状态码的心跳失败
	PingError = filter.PingError

	// HistoryProtocolError 带错误码的历史查询失败
	HistoryProtocolError = store.HistoryProtocolError
)
