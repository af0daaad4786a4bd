package streamrpc

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-lightnode/config"
	"github.com/dep2p/go-lightnode/internal/core/metrics"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
)

// Module 返回 Fx 模块
var Module = fx.Module("core/streamrpc",
	fx.Provide(ProvideClient),
)

// ModuleInput Fx 输入参数
type ModuleInput struct {
	fx.In
	Host       pkgif.Host
	Metrics    *metrics.Metrics `optional:"true"`
	UnifiedCfg *config.Config   `optional:"true"`
}

// ProvideClient 提供流调用客户端
func ProvideClient(input ModuleInput) (*Client, error) {
	var opts []Option
	if cfg := input.UnifiedCfg; cfg != nil {
		opts = append(opts,
			WithTimeout(cfg.Timeout.Duration()),
			WithMaxFrameSize(cfg.MaxFrameSize))
	}
	if input.Metrics != nil {
		opts = append(opts, WithMetrics(input.Metrics))
	}
	return NewClient(input.Host, opts...)
}
