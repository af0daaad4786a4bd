package peerstore

import "errors"

var (
	// ErrNotFound 节点未找到
	ErrNotFound = errors.New("peerstore: peer not found")

	// ErrClosed 存储已关闭
	ErrClosed = errors.New("peerstore: closed")
)
