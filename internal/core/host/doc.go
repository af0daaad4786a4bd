// Package host 把 libp2p Host 适配为轻节点使用的 Host 接口
//
// 协议引擎只依赖 pkg/interfaces 中的 Host/Stream/Peerstore，
// 本包负责把它们绑定到真实的 libp2p 传输上。
//
// # 节点簿
//
// 地址保存在 libp2p 自带的 Peerstore 中，用于拨号；
// 协议支持信息保存在轻节点自己的 Peerstore 中，用于服务节点选择。
// AddPeer 同时写入两者：
//
//	h.AddPeer(addr, protocolids.FilterSubscribe, protocolids.Store)
//	  ├─> libp2p Peerstore.AddAddrs()   // 拨号地址
//	  └─> Peerstore.AddPeer()           // 协议能力
//
// # 使用示例
//
//	h, err := host.New(host.WithListenAddrs("/ip4/0.0.0.0/tcp/0"))
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	if err := h.AddPeerString("/ip4/1.2.3.4/tcp/60000/p2p/16Uiu2...", protocolids.Store); err != nil {
//	    return err
//	}
package host
