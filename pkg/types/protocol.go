package types

import (
	"strings"
)

// ProtocolID 协议标识符（codec 字符串）
//
// 格式: /<namespace>/<name>/<version>，如 /vac/waku/store/2.0.0-beta4
type ProtocolID string

// String 返回协议 ID 的字符串表示
func (p ProtocolID) String() string {
	return string(p)
}

// IsEmpty 检查协议 ID 是否为空
func (p ProtocolID) IsEmpty() bool {
	return p == ""
}

// Version 返回协议版本
func (p ProtocolID) Version() string {
	s := string(p)
	idx := strings.LastIndex(s, "/")
	if idx < 0 {
		return ""
	}
	return s[idx+1:]
}

// Name 返回协议名称（不含版本）
func (p ProtocolID) Name() string {
	s := string(p)
	lastSlash := strings.LastIndex(s, "/")
	if lastSlash > 0 {
		return s[:lastSlash]
	}
	return s
}
