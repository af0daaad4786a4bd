package store

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
)

// 错误定义
var (
	// ErrNilHost Host 为 nil
	ErrNilHost = errors.New("store: host is nil")

	// ErrConfig 查询参数无效
	ErrConfig = errors.New("store: invalid query configuration")

	// ErrHistoryProtocol 服务节点返回了错误码
	ErrHistoryProtocol = errors.New("store: history protocol error")

	// ErrInvalidMessage 消息缺少生成游标所需的字段
	ErrInvalidMessage = errors.New("store: message is missing required fields")
)

// HistoryProtocolError 历史响应中的错误码
type HistoryProtocolError struct {
	RequestID string
	Code      waku.HistoryError
}

// Error 实现 error 接口
func (e *HistoryProtocolError) Error() string {
	return fmt.Sprintf("store: history response %s contains error %s", e.RequestID, e.Code)
}

// Unwrap 返回 ErrHistoryProtocol
func (e *HistoryProtocolError) Unwrap() error {
	return ErrHistoryProtocol
}
