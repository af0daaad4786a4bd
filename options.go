package lightnode

import (
	"fmt"
	"time"

	lphost "github.com/libp2p/go-libp2p/core/host"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dep2p/go-lightnode/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 统一配置，所有模块从这里读取
	config *config.Config

	// 指标注册器；非 nil 时启用指标
	registerer prometheus.Registerer

	// 外部提供的 libp2p Host
	libp2p lphost.Host

	// 日志
	logger *zap.Logger

	// 用户附加的 fx 选项
	fxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{config: config.NewConfig()}
}

// WithConfig 使用完整配置
//
// 配置会被复制，之后的选项在副本上继续修改。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidConfig)
		}
		o.config = config.CloneConfig(cfg)
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithPubsubTopic 设置默认 pubsub topic
func WithPubsubTopic(topic string) Option {
	return func(o *options) error {
		o.config.PubsubTopic = topic
		return nil
	}
}

// WithTimeout 设置单次流调用超时
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.config.Timeout = config.Duration(d)
		return nil
	}
}

// WithMaxFrameSize 设置单帧最大长度
func WithMaxFrameSize(size int) Option {
	return func(o *options) error {
		o.config.MaxFrameSize = size
		return nil
	}
}

// WithListenAddrs 设置监听地址
//
// 服务节点需要回连才能推送消息，因此默认监听全部接口的随机端口。
func WithListenAddrs(addrs ...string) Option {
	return func(o *options) error {
		o.config.ListenAddrs = append([]string(nil), addrs...)
		return nil
	}
}

// WithKnownPeer 添加已知服务节点
//
// protocols 为空时视为支持全部 Filter/Store 协议。
func WithKnownPeer(peerID string, addrs []string, protocols ...string) Option {
	return func(o *options) error {
		o.config.KnownPeers = append(o.config.KnownPeers, config.KnownPeer{
			PeerID:    peerID,
			Addrs:     append([]string(nil), addrs...),
			Protocols: append([]string(nil), protocols...),
		})
		return nil
	}
}

// WithDedup 启用推送去重
func WithDedup(cacheSize int) Option {
	return func(o *options) error {
		o.config.Filter.EnableDedup = true
		o.config.Filter.DedupCacheSize = cacheSize
		return nil
	}
}

// WithStorePageSize 设置历史查询默认页大小
func WithStorePageSize(size uint64) Option {
	return func(o *options) error {
		o.config.Store.PageSize = size
		return nil
	}
}

// WithStoreDirection 设置历史查询默认方向
func WithStoreDirection(d PageDirection) Option {
	return func(o *options) error {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		o.config.Store.Direction = d.String()
		return nil
	}
}

// WithMetrics 启用指标并注册到 reg
//
// reg 为 nil 时使用 prometheus.DefaultRegisterer。
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		o.config.Metrics.Enabled = true
		o.registerer = reg
		return nil
	}
}

// WithLibp2pHost 使用已有的 libp2p Host
//
// 节点关闭时会一并关闭该 Host。
func WithLibp2pHost(h lphost.Host) Option {
	return func(o *options) error {
		if h == nil {
			return fmt.Errorf("%w: nil libp2p host", ErrInvalidConfig)
		}
		o.libp2p = h
		return nil
	}
}

// WithLogger 设置全局日志
func WithLogger(l *zap.Logger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// WithFxOptions 追加自定义 fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
