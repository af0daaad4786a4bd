// Package store 实现 Store 协议客户端
//
// Store 以游标分页的方式从服务节点取回历史消息。每一页是一次独立的
// 请求-响应调用；下一页的游标只能从上一页的响应中得到，因此一次查询
// 内部严格串行，最多只有一个请求在途。不同查询之间相互独立。
//
// # 状态机
//
//	INIT → QUERYING → (PAGE_READY → QUERYING | DONE | FAILED)
//
// INIT 阶段校验参数（同一 content topic 只能有一个解码器、时间范围合法），
// 在任何网络活动之前失败。每次响应后按顺序判断：
//
//  1. 没有响应体：结束
//  2. 错误码不是 NONE：以 HistoryProtocolError 失败
//  3. 没有消息：结束
//  4. 交付本页
//  5. 没有下一页游标：结束
//  6. 响应回显的页大小小于请求的页大小：结束；否则继续
//
// # 使用方式
//
//	p, err := s.QueryGenerator(ctx, decoders, store.WithPageSize(20))
//	for p.Next(ctx) {
//	    msgs, _ := p.Page().Messages(ctx)
//	    ...
//	}
//	if err := p.Err(); err != nil { ... }
//
// QueryOrderedCallback 按时间顺序（BACKWARD 时从新到旧）逐条回调；
// QueryCallbackOnPromise 不等待解码完成即交出每条消息的 Pending，
// 适合解码代价高的场景。
//
// 页内解码并发执行；没有匹配解码器或解码失败的消息结果为 nil，不会中断分页。
package store
