package protocolids

import (
	"fmt"
	"strings"

	"github.com/dep2p/go-lightnode/pkg/types"
)

// WakuPrefix 所有 waku 协议 ID 的公共前缀
const WakuPrefix = "/vac/waku/"

// ----------------------------------------------------------------------------
// Filter 协议
// ----------------------------------------------------------------------------

// FilterSubscribe 订阅方向协议：SUBSCRIBE / UNSUBSCRIBE / PING / UNSUBSCRIBE_ALL
const FilterSubscribe types.ProtocolID = "/vac/waku/filter-subscribe/2.0.0-beta1"

// FilterPush 推送方向协议：服务端主动打开流推送消息
const FilterPush types.ProtocolID = "/vac/waku/filter-push/2.0.0-beta1"

// ----------------------------------------------------------------------------
// Store 协议
// ----------------------------------------------------------------------------

// Store 历史查询协议
const Store types.ProtocolID = "/vac/waku/store/2.0.0-beta4"

// ----------------------------------------------------------------------------
// Topic
// ----------------------------------------------------------------------------

// DefaultPubsubTopic 未指定 pubsub topic 时使用的默认值
const DefaultPubsubTopic = "/waku/2/default-waku/proto"

// All 返回本包定义的全部协议 ID
func All() []types.ProtocolID {
	return []types.ProtocolID{FilterSubscribe, FilterPush, Store}
}

// IsWaku 判断协议 ID 是否属于 waku 协议族
func IsWaku(id types.ProtocolID) bool {
	return strings.HasPrefix(string(id), WakuPrefix)
}

// Validate 检查协议 ID 格式
//
// 格式: /vac/waku/{name}/{version}
func Validate(id types.ProtocolID) error {
	if id.IsEmpty() {
		return types.ErrEmptyProtocolID
	}
	if !IsWaku(id) {
		return fmt.Errorf("protocolids: %q is not a waku protocol", id)
	}
	rest := strings.TrimPrefix(string(id), WakuPrefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("protocolids: %q must be %s{name}/{version}", id, WakuPrefix)
	}
	return nil
}
