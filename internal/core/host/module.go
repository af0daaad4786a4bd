package host

import (
	"context"
	"fmt"

	lphost "github.com/libp2p/go-libp2p/core/host"
	"go.uber.org/fx"

	"github.com/dep2p/go-lightnode/config"
	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// Module 返回 Fx 模块
var Module = fx.Module("core/host",
	fx.Provide(ProvideHost),
	fx.Invoke(registerLifecycle),
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`

	// 外部提供的 libp2p Host（测试或嵌入场景）
	Libp2p lphost.Host `optional:"true"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Host      *Host
	Interface pkgif.Host
}

// ConfigFromUnified 从统一配置创建 Host 选项
func ConfigFromUnified(cfg *config.Config) []Option {
	if cfg == nil || len(cfg.ListenAddrs) == 0 {
		return nil
	}
	return []Option{WithListenAddrs(cfg.ListenAddrs...)}
}

// ProvideHost 提供 Host 服务
func ProvideHost(input ModuleInput) (ModuleOutput, error) {
	opts := ConfigFromUnified(input.UnifiedCfg)
	if input.Libp2p != nil {
		opts = append(opts, WithLibp2pHost(input.Libp2p))
	}

	h, err := New(opts...)
	if err != nil {
		return ModuleOutput{}, err
	}

	if input.UnifiedCfg != nil {
		if err := RegisterKnownPeers(h, input.UnifiedCfg.KnownPeers); err != nil {
			_ = h.Close()
			return ModuleOutput{}, err
		}
	}
	return ModuleOutput{Host: h, Interface: h}, nil
}

// RegisterKnownPeers 登记配置中的已知服务节点
//
// 未声明协议的节点视为支持全部协议。
func RegisterKnownPeers(h *Host, peers []config.KnownPeer) error {
	for i, p := range peers {
		protocols := protocolids.All()
		if len(p.Protocols) > 0 {
			protocols = make([]types.ProtocolID, len(p.Protocols))
			for j, proto := range p.Protocols {
				protocols[j] = types.ProtocolID(proto)
			}
		}
		if err := h.AddPeerInfo(types.PeerID(p.PeerID), p.Addrs, protocols...); err != nil {
			return fmt.Errorf("known_peers[%d]: %w", i, err)
		}
	}
	return nil
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, h *Host) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return h.Close()
		},
	})
}
