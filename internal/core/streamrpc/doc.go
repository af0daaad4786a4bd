// Package streamrpc 实现基于流的请求/响应调用
//
// 每次调用都打开一条新流（不做连接池），写入一个 varint 长度前缀帧，
// 半关闭写端后读取响应帧直到对端关闭流，并把所有帧拼接为完整响应。
// 单向请求（如取消订阅）只写不读。
//
// # 帧格式
//
//	+----------------+------------------+
//	| uvarint length | protobuf payload |
//	+----------------+------------------+
//
// # 错误
//
// 打开、写入、读取失败统一返回 *TransportError，
// 可以用 errors.Is(err, ErrTransport) 判断；超时另外满足 ErrTimeout
// 和 context.DeadlineExceeded。调用失败不会自动重试。
//
// # 超时
//
// context 没有截止时间时使用 Config.Timeout；截止时间同时设置到流上，
// context 被取消时流被 Reset，阻塞中的读写立即返回。
package streamrpc
