// Package mocks 提供统一的测试 Mock 实现
//
// # 核心 Mock
//
//   - MockHost: 模拟 interfaces.Host，所有方法都可以通过 XxxFunc 字段覆盖
//   - MockStream: 模拟 interfaces.Stream，支持预设读取数据
//   - PipeStream: 基于 io.Pipe 的真实双向流，支持半关闭与截止时间
//   - Network: 内存网络，把多个 MockHost 连接起来，NewStream 会在对端触发处理器
//
// # 消息 Mock
//
//   - MockDecoder: mockgen 生成的 interfaces.Decoder
//   - StubDecoder: 用函数字段实现的 interfaces.Decoder
//
// # 设计原则
//
// 1. 函数式注入: 每个 Mock 都支持通过 XxxFunc 字段注入自定义行为
// 2. 调用记录: 关键 Mock 记录调用历史，便于验证测试行为
//
// # 使用示例
//
//	net := mocks.NewNetwork()
//	client := net.AddHost("client")
//	server := net.AddHost("server")
//	server.SetStreamHandler(protocolids.Store, func(s interfaces.Stream) { ... })
//
//	client.Peerstore().AddProtocols("server", protocolids.Store)
//
//	// 注入故障
//	client.NewStreamFunc = func(ctx context.Context, p types.PeerID, ids ...types.ProtocolID) (interfaces.Stream, error) {
//	    return nil, errors.New("connection refused")
//	}
package mocks
