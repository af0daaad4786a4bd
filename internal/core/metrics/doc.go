// Package metrics 提供 Filter / Store 客户端的 Prometheus 指标
//
// 指标分三组：
//   - RPC：每次流调用的耗时与结果（按协议）
//   - Filter：订阅请求结果、推送处理结果、活跃订阅数
//   - Store：查询次数、页数、消息数
//
// # 快速开始
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//
//	done := m.StartRPC(protocolids.Store)
//	// ... 调用 ...
//	done(err)
//
// New(nil) 返回的指标不注册到任何 Registry，适合测试和禁用指标的场景。
// 所有方法都可以在 nil *Metrics 上调用。
//
// # 并发安全
//
// prometheus 指标本身并发安全，本包不再加锁。
package metrics
