package selector

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
)

// Module 返回 Fx 模块
var Module = fx.Module("core/selector",
	fx.Provide(ProvideSelector),
)

// ProvideSelector 基于 Host 的 Peerstore 提供选择器
func ProvideSelector(host pkgif.Host) (*Selector, error) {
	return New(host.Peerstore())
}
