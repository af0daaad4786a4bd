package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-lightnode/config"
)

// Module 返回 Fx 模块
var Module = fx.Module("core/metrics",
	fx.Provide(ProvideMetrics),
)

// ModuleInput Fx 输入参数
type ModuleInput struct {
	fx.In
	Registerer prometheus.Registerer `optional:"true"`
	UnifiedCfg *config.Config        `optional:"true"`
}

// ProvideMetrics 提供指标
//
// 未启用指标时返回 nil，所有记录方法对 nil 安全。
// 未注入 Registerer 时注册到 prometheus.DefaultRegisterer。
func ProvideMetrics(input ModuleInput) *Metrics {
	if input.UnifiedCfg == nil || !input.UnifiedCfg.Metrics.Enabled {
		return nil
	}
	reg := input.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return New(reg)
}
