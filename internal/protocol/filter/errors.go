package filter

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
)

// 错误定义
var (
	// ErrNotStarted 服务未启动
	ErrNotStarted = errors.New("filter: service not started")

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = errors.New("filter: service already started")

	// ErrNilHost Host 为 nil
	ErrNilHost = errors.New("filter: host is nil")

	// ErrConfig 调用参数无效
	ErrConfig = errors.New("filter: invalid configuration")

	// ErrSubscribeRequest 订阅侧请求失败
	ErrSubscribeRequest = errors.New("filter: subscribe request failed")

	// ErrPing Ping 失败
	ErrPing = errors.New("filter: ping failed")

	// ErrEmptyResponse 对端没有返回响应
	ErrEmptyResponse = errors.New("filter: empty response")

	// ErrDecodeFailed 解码器没有返回消息
	ErrDecodeFailed = errors.New("filter: decode failed")
)

// SubscribeRequestError 订阅侧请求失败
//
// 状态码不在 [200,300) 时 StatusCode 非零；传输或解析失败时 Err 非空。
type SubscribeRequestError struct {
	RequestID  string
	Type       waku.FilterSubscribeType
	StatusCode uint32
	StatusDesc string
	Err        error
}

// Error 实现 error 接口
func (e *SubscribeRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("filter: %s request %s failed: %v", e.Type, e.RequestID, e.Err)
	}
	return fmt.Sprintf("filter: %s request %s failed with status code %d: %s",
		e.Type, e.RequestID, e.StatusCode, e.StatusDesc)
}

// Unwrap 返回错误链
func (e *SubscribeRequestError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSubscribeRequest, e.Err}
	}
	return []error{ErrSubscribeRequest}
}

// PingError Ping 失败
type PingError struct {
	RequestID  string
	StatusCode uint32
	StatusDesc string
	Err        error
}

// Error 实现 error 接口
func (e *PingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("filter: ping request %s failed: %v", e.RequestID, e.Err)
	}
	return fmt.Sprintf("filter: ping request %s failed with status code %d: %s",
		e.RequestID, e.StatusCode, e.StatusDesc)
}

// Unwrap 返回错误链
func (e *PingError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrPing, e.Err}
	}
	return []error{ErrPing}
}
