// Package types 定义 go-lightnode 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 与 pkg/lib/proto 的区别
//
// pkg/types 定义 Go 内部数据结构（内存结构），
// pkg/lib/proto/waku 定义网络协议消息（wire format）。
//
// # 文件组织
//
//   - ids.go      - PeerID
//   - protocol.go - ProtocolID
//   - base58.go   - Base58 编解码
//   - history.go  - PageDirection, TimeFilter, Cursor
//   - errors.go   - 公共错误定义
package types
