// Package filter 实现 Filter 协议客户端
//
// Filter 让轻节点向服务节点登记感兴趣的 content topic，
// 服务节点在收到匹配消息时主动打开 PUSH 流推送给本节点。
//
// # 订阅模型
//
// 每个 (pubsub topic, 服务节点) 对应一个 Subscription，登记在 Filter 持有的注册表中，
// 键为 "<pubsubTopic>_<peerID>"。同一对参数重复调用 CreateSubscription 返回同一实例；
// UnsubscribeAll 只清空回调表，注册表条目保留并会被后续调用复用。
//
// Subscription 内部维护 content topic → (解码器集合, 回调) 的映射：
//
//	sub, _ := f.CreateSubscription(ctx, "", "")
//	err := sub.Subscribe(ctx, []interfaces.Decoder{dec}, func(msg interfaces.DecodedMessage) {
//	    fmt.Println(string(msg.Payload()))
//	})
//
// # 请求语义
//
//   - Subscribe / Ping / UnsubscribeAll：请求-响应，状态码 2xx 视为成功
//   - Unsubscribe：只写请求，写入成功后立即移除本地回调
//
// 同一 Subscription 上的变更串行执行（一次只有一个请求在途），
// 不同 Subscription 之间互不影响。失败的请求不会修改本地状态。
//
// # 推送处理
//
// 每条 PUSH 流上的帧按到达顺序逐个处理；多条流之间并发、无序。
// 对每条消息，所有登记的解码器并发解码，第一个成功的结果交给回调，
// 其余结果被丢弃。单条消息解码失败只记录日志，不会关闭流或订阅。
package filter
