// Package config 提供轻节点的统一配置
//
// 主 Config 结构体嵌入各协议的子配置，子配置在独立文件中定义，
// 支持从 JSON 加载：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Filter.EnableDedup = true
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
//
//	// 从文件加载
//	cfg, err := config.LoadFile("lightnode.json")
package config

import (
	"fmt"
	"time"

	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
)

// 默认值
const (
	// DefaultTimeout 单次流调用的默认超时
	DefaultTimeout = 30 * time.Second

	// DefaultMaxFrameSize 单帧最大长度（1 MiB 消息 + 协议开销）
	DefaultMaxFrameSize = 1<<20 + 64<<10
)

// KnownPeer 已知服务节点
//
// 启动时登记到 Peerstore，供节点选择器使用。
type KnownPeer struct {
	// PeerID 节点 ID
	PeerID string `json:"peer_id"`

	// Addrs multiaddr 格式的地址列表，例如 "/ip4/1.2.3.4/tcp/60000"
	Addrs []string `json:"addrs"`

	// Protocols 节点支持的协议；为空时视为支持全部 Filter/Store 协议
	Protocols []string `json:"protocols,omitempty"`
}

// Config 轻节点完整配置
type Config struct {
	// PubsubTopic 默认 pubsub topic
	PubsubTopic string `json:"pubsub_topic"`

	// Timeout 单次流调用超时；调用方 context 已带截止时间时以调用方为准
	Timeout Duration `json:"timeout"`

	// MaxFrameSize 单帧最大长度（字节）
	MaxFrameSize int `json:"max_frame_size"`

	// Filter Filter 协议配置
	Filter FilterConfig `json:"filter"`

	// Store Store 协议配置
	Store StoreConfig `json:"store"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// ListenAddrs 监听地址；为空时使用 Host 默认值
	ListenAddrs []string `json:"listen_addrs,omitempty"`

	// KnownPeers 已知服务节点
	KnownPeers []KnownPeer `json:"known_peers,omitempty"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		PubsubTopic:  protocolids.DefaultPubsubTopic,
		Timeout:      Duration(DefaultTimeout),
		MaxFrameSize: DefaultMaxFrameSize,
		Filter:       DefaultFilterConfig(),
		Store:        DefaultStoreConfig(),
		Metrics:      DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.PubsubTopic == "" {
		return fmt.Errorf("%w: pubsub topic is empty", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be non-negative", ErrInvalidConfig)
	}
	if c.MaxFrameSize <= 0 {
		return fmt.Errorf("%w: max frame size must be positive", ErrInvalidConfig)
	}
	if err := c.Filter.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	for i, p := range c.KnownPeers {
		if err := types.PeerID(p.PeerID).Validate(); err != nil {
			return fmt.Errorf("%w: known_peers[%d]: %v", ErrInvalidConfig, i, err)
		}
		for _, proto := range p.Protocols {
			if err := protocolids.Validate(types.ProtocolID(proto)); err != nil {
				return fmt.Errorf("%w: known_peers[%d]: %v", ErrInvalidConfig, i, err)
			}
		}
	}
	return nil
}
