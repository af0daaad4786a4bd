package store

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-lightnode/config"
	"github.com/dep2p/go-lightnode/internal/core/metrics"
	"github.com/dep2p/go-lightnode/internal/core/selector"
	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
)

// Module 返回 Fx 模块
var Module = fx.Module("protocol/store",
	fx.Provide(ProvideService),
)

// ModuleInput Fx 输入参数
type ModuleInput struct {
	fx.In
	RPC        *streamrpc.Client
	Selector   *selector.Selector
	Metrics    *metrics.Metrics `optional:"true"`
	UnifiedCfg *config.Config   `optional:"true"`
}

// ConfigFromUnified 从统一配置创建 Store 选项
func ConfigFromUnified(cfg *config.Config) []Option {
	if cfg == nil {
		return nil
	}
	return []Option{
		WithPubsubTopic(cfg.PubsubTopic),
		WithDefaultPageSize(cfg.Store.PageSize),
		WithDefaultDirection(cfg.Store.PageDirection()),
	}
}

// ProvideService 提供 Store 客户端
func ProvideService(input ModuleInput) (*Store, error) {
	opts := ConfigFromUnified(input.UnifiedCfg)
	if input.Metrics != nil {
		opts = append(opts, WithMetrics(input.Metrics))
	}
	return New(input.RPC, input.Selector, opts...)
}
