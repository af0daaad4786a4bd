// Package proto 定义轻节点使用的网络协议消息（wire format）
//
// # 子包
//
//   - waku: Filter 订阅/推送与 Store 历史查询消息
//
// # 与 pkg/types 的区别
//
// pkg/lib/proto 定义网络协议消息（wire format），
// pkg/types 定义 Go 内部数据结构（内存结构）。
// 两者之间的转换由使用方完成，例如 store 包在 types.Cursor 与 waku.Index 之间转换。
//
// # 使用示例
//
//	import "github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
//
//	req := &waku.FilterSubscribeRequest{
//	    RequestID:     uuid.NewString(),
//	    Type:          waku.FilterSubscribe,
//	    PubsubTopic:   waku.String(topic),
//	    ContentTopics: []string{"/my-app/1/chat/proto"},
//	}
//	data := req.Marshal()
package proto
