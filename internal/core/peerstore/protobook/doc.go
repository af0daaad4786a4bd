// Package protobook 实现协议簿
//
// 协议簿记录每个已知节点声明支持的协议 ID，
// 节点选择器据此挑选 Filter / Store 服务节点。
package protobook
