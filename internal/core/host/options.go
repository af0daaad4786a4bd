package host

import (
	"github.com/libp2p/go-libp2p"
	lphost "github.com/libp2p/go-libp2p/core/host"
)

// Option Host 构造选项类型
type Option func(*Config)

// WithListenAddrs 设置监听地址
func WithListenAddrs(addrs ...string) Option {
	return func(c *Config) {
		c.ListenAddrs = addrs
	}
}

// WithUserAgent 设置客户端标识
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithLibp2pHost 使用已有的 libp2p Host
//
// 传入的 Host 由调用方创建，但 Close 时会一并关闭。
func WithLibp2pHost(h lphost.Host) Option {
	return func(c *Config) {
		c.Libp2p = h
	}
}

// WithLibp2pOptions 追加 libp2p 构造选项
func WithLibp2pOptions(opts ...libp2p.Option) Option {
	return func(c *Config) {
		c.ExtraOptions = append(c.ExtraOptions, opts...)
	}
}
