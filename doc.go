// Package lightnode 提供 Waku 风格网络的轻客户端
//
// 轻节点不参与 relay，只通过两个请求/响应协议与服务节点交互：
//
//   - Filter: 向服务节点订阅 content topic，服务节点主动推送匹配的消息
//   - Store: 按游标分页查询服务节点保存的历史消息
//
// # 快速开始
//
//	node, err := lightnode.Start(ctx,
//	    lightnode.WithKnownPeer("16Uiu2...", []string{"/ip4/1.2.3.4/tcp/60000"}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close()
//
//	dec, _ := message.NewDecoder("/my-app/1/chat/proto")
//
//	// 订阅实时消息
//	unsubscribe, err := node.Subscribe(ctx, []lightnode.Decoder{dec}, func(msg lightnode.DecodedMessage) {
//	    fmt.Println(string(msg.Payload()))
//	})
//	defer unsubscribe(ctx)
//
//	// 查询历史（BACKWARD 方向下从新到旧）
//	err = node.QueryOrderedCallback(ctx, []lightnode.Decoder{dec}, func(msg lightnode.DecodedMessage) bool {
//	    fmt.Println(string(msg.Payload()))
//	    return false
//	})
//
// # 架构
//
// Node 是门面，内部组件由 fx 组装：
//
//	Host (libp2p) → streamrpc.Client → filter.Filter / store.Store
//	             └→ selector.Selector ┘
//
// 协议引擎只依赖 pkg/interfaces 中的 Host 接口，测试时可以替换为内存网络。
package lightnode
