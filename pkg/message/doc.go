// Package message 提供 version 0（明文）消息的参考 Decoder / Encoder
//
// version 0 消息的 payload 不加密，Decoder 只校验版本号和 content topic。
// 需要加密的应用可以实现自己的 interfaces.Decoder，
// Filter 与 Store 引擎对两者一视同仁。
package message
