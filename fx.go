package lightnode

import (
	"fmt"

	lphost "github.com/libp2p/go-libp2p/core/host"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/dep2p/go-lightnode/internal/core/host"
	"github.com/dep2p/go-lightnode/internal/core/metrics"
	"github.com/dep2p/go-lightnode/internal/core/selector"
	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
	"github.com/dep2p/go-lightnode/internal/protocol/filter"
	"github.com/dep2p/go-lightnode/internal/protocol/store"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. Core Layer: Metrics → Host → StreamRPC → Selector
//  2. Protocol Layer: Filter → Store
func buildFxApp(o *options, node *Node) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(o.config),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 外部注入（可选）
	// ════════════════════════════════════════════════════════════════════════
	if reg := o.registerer; reg != nil {
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}
	if lh := o.libp2p; lh != nil {
		modules = append(modules, fx.Provide(func() lphost.Host { return lh }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. Core Layer
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		metrics.Module,
		host.Module,
		streamrpc.Module,
		selector.Module,
	)

	// ════════════════════════════════════════════════════════════════════════
	// 4. Protocol Layer
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		filter.Module,
		store.Module,
	)

	// ════════════════════════════════════════════════════════════════════════
	// 5. 组件注入与用户扩展
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(injectNodeComponents(node)))
	modules = append(modules, o.fxOptions...)

	// Fx 事件以 debug 级别写入全局日志
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log.Default().Named("fx")}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
	)

	return fx.New(modules...), nil
}

// nodeInjectParams Node 组件注入参数
type nodeInjectParams struct {
	fx.In

	Host   *host.Host
	Filter *filter.Filter
	Store  *store.Store
}

// injectNodeComponents 创建 Node 组件注入函数
func injectNodeComponents(node *Node) interface{} {
	return func(params nodeInjectParams) {
		node.host = params.Host
		node.filter = params.Filter
		node.store = params.Store
	}
}
