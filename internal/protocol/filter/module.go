package filter

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-lightnode/config"
	"github.com/dep2p/go-lightnode/internal/core/metrics"
	"github.com/dep2p/go-lightnode/internal/core/selector"
	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
)

// Module 返回 Fx 模块
var Module = fx.Module("protocol/filter",
	fx.Provide(ProvideService),
	fx.Invoke(registerLifecycle),
)

// ModuleInput Fx 输入参数
type ModuleInput struct {
	fx.In
	RPC        *streamrpc.Client
	Selector   *selector.Selector
	Metrics    *metrics.Metrics `optional:"true"`
	UnifiedCfg *config.Config   `optional:"true"`
}

// ConfigFromUnified 从统一配置创建 Filter 选项
func ConfigFromUnified(cfg *config.Config) []Option {
	if cfg == nil {
		return nil
	}
	opts := []Option{
		WithPubsubTopic(cfg.PubsubTopic),
		WithMaxFrameSize(cfg.MaxFrameSize),
	}
	if cfg.Filter.EnableDedup {
		opts = append(opts, WithDedup(cfg.Filter.DedupCacheSize))
	}
	return opts
}

// ProvideService 提供 Filter 服务
func ProvideService(input ModuleInput) (*Filter, error) {
	opts := ConfigFromUnified(input.UnifiedCfg)
	if input.Metrics != nil {
		opts = append(opts, WithMetrics(input.Metrics))
	}
	return New(input.RPC, input.Selector, opts...)
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, f *Filter) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return f.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return f.Stop(ctx)
		},
	})
}
