// Package interfaces 定义 go-lightnode 公共接口
//
// 协议引擎只依赖本包中的接口：
//
//   - Host / Stream / Peerstore：流传输与节点簿，由 internal/core/host 绑定到 libp2p
//   - Decoder / DecodedMessage：应用层消息解码能力，参考实现见 pkg/message
//
// 接口保持最小化，只包含 Filter / Store 客户端真正用到的方法，
// 便于在测试中用 tests/mocks 替换。
package interfaces
