package config

import "fmt"

// FilterConfig Filter 协议配置
type FilterConfig struct {
	// EnableDedup 按消息哈希丢弃重复推送
	//
	// 同一消息可能经由多个服务节点推送到达。
	EnableDedup bool `json:"enable_dedup"`

	// DedupCacheSize 去重缓存容量
	DedupCacheSize int `json:"dedup_cache_size"`
}

// DefaultFilterConfig 返回默认 Filter 配置
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		EnableDedup:    false,
		DedupCacheSize: 1024,
	}
}

// Validate 验证 Filter 配置
func (c FilterConfig) Validate() error {
	if c.EnableDedup && c.DedupCacheSize <= 0 {
		return fmt.Errorf("%w: filter dedup cache size must be positive", ErrInvalidConfig)
	}
	return nil
}
