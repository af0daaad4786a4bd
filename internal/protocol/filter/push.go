package filter

import (
	"context"
	"io"

	"github.com/dep2p/go-lightnode/internal/core/metrics"
	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// handlePushStream 处理服务节点打开的 PUSH 流
//
// 帧按顺序处理。单帧解析或分发失败只丢弃该帧，
// 只有分帧/读取错误才结束这条流的读循环。
func (f *Filter) handlePushStream(s pkgif.Stream) {
	remote := s.RemotePeer()
	ctx := f.serviceContext()

	logger.Debug("收到推送流", "peerID", log.TruncateID(string(remote), 8))

	fr := streamrpc.NewFrameReader(s, f.cfg.MaxFrameSize)
	for {
		if ctx.Err() != nil {
			_ = s.Reset()
			return
		}

		frame, err := fr.Next()
		if err == io.EOF {
			_ = s.Close()
			return
		}
		if err != nil {
			logger.Debug("读取推送流失败",
				"peerID", log.TruncateID(string(remote), 8),
				"error", err)
			_ = s.Reset()
			return
		}

		result := f.processPush(ctx, remote, frame)
		f.cfg.Metrics.FilterPush(result)
	}
}

// processPush 处理一帧推送，返回推送结果
func (f *Filter) processPush(ctx context.Context, remote types.PeerID, frame []byte) string {
	var push waku.MessagePush
	if err := push.Unmarshal(frame); err != nil {
		logger.Warn("推送帧解析失败",
			"peerID", log.TruncateID(string(remote), 8),
			"error", err)
		return metrics.PushMalformed
	}
	if push.WakuMessage == nil {
		logger.Warn("推送缺少消息", "peerID", log.TruncateID(string(remote), 8))
		return metrics.PushMalformed
	}
	if push.PubsubTopic == nil {
		logger.Warn("推送缺少 pubsub topic", "peerID", log.TruncateID(string(remote), 8))
		return metrics.PushMalformed
	}

	topic := push.GetPubsubTopic()
	sub, ok := f.lookup(topic, remote)
	if !ok {
		logger.Debug("没有匹配的订阅",
			"pubsubTopic", topic,
			"peerID", log.TruncateID(string(remote), 8))
		return metrics.PushNoRoute
	}

	if f.dedup == nil {
		return sub.processMessage(ctx, push.WakuMessage)
	}

	hash := waku.MessageHash(topic, push.WakuMessage)
	if found, _ := f.dedup.ContainsOrAdd(hash, struct{}{}); found {
		return metrics.PushDuplicate
	}
	result := sub.processMessage(ctx, push.WakuMessage)
	if result != metrics.PushDelivered {
		// 未投递的消息允许重新推送
		f.dedup.Remove(hash)
	}
	return result
}

// serviceContext 返回服务生命周期 context
func (f *Filter) serviceContext() context.Context {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.ctx == nil {
		return context.Background()
	}
	return f.ctx
}
