// Package peerstore 实现内存节点信息存储
//
// Peerstore 记录已知节点及其声明支持的协议，是节点选择的数据来源。
// 地址管理与连接建立由传输层负责，不在此处保存。
//
// # 使用示例
//
//	ps := peerstore.NewPeerstore()
//	ps.AddPeer("16Uiu2...", protocolids.Store, protocolids.FilterSubscribe)
//
//	// 选择器按协议过滤
//	supported, _ := ps.SupportsProtocols(peerID, protocolids.Store)
package peerstore
