package host

import (
	"github.com/libp2p/go-libp2p"
	lphost "github.com/libp2p/go-libp2p/core/host"
)

// Config Host 配置
type Config struct {
	// ListenAddrs 监听地址；轻节点只发起出站流，但推送需要对端能回连
	ListenAddrs []string

	// UserAgent identify 协议上报的客户端标识
	UserAgent string

	// Libp2p 已有的 libp2p Host；设置后不再创建新的
	Libp2p lphost.Host

	// ExtraOptions 传给 libp2p.New 的附加选项
	ExtraOptions []libp2p.Option
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		ListenAddrs: []string{
			"/ip4/0.0.0.0/tcp/0",
			"/ip6/::/tcp/0",
		},
		UserAgent: "go-lightnode/" + Version,
	}
}

// Version 客户端版本
const Version = "0.1.0"

// libp2pOptions 把配置转换为 libp2p 选项
func (c *Config) libp2pOptions() []libp2p.Option {
	var opts []libp2p.Option
	if len(c.ListenAddrs) > 0 {
		opts = append(opts, libp2p.ListenAddrStrings(c.ListenAddrs...))
	} else {
		opts = append(opts, libp2p.NoListenAddrs)
	}
	if c.UserAgent != "" {
		opts = append(opts, libp2p.UserAgent(c.UserAgent))
	}
	return append(opts, c.ExtraOptions...)
}
