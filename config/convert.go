package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值：
//
//	{
//	  "pubsub_topic": "/waku/2/rs/1/0",
//	  "timeout": "10s",
//	  "store": {"page_size": 50, "direction": "forward"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return FromJSON(data)
}

// ToJSON 将配置序列化为带缩进的 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// CloneConfig 克隆配置
func CloneConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	cloned := *cfg
	cloned.ListenAddrs = append([]string(nil), cfg.ListenAddrs...)
	if cfg.KnownPeers != nil {
		cloned.KnownPeers = make([]KnownPeer, len(cfg.KnownPeers))
		for i, p := range cfg.KnownPeers {
			cloned.KnownPeers[i] = KnownPeer{
				PeerID:    p.PeerID,
				Addrs:     append([]string(nil), p.Addrs...),
				Protocols: append([]string(nil), p.Protocols...),
			}
		}
	}
	return &cloned
}
