package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig 配置无效
var ErrInvalidConfig = errors.New("config: invalid configuration")

// ValidateAll 验证整个配置，nil 视为无效
func ValidateAll(c *Config) error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	return c.Validate()
}

// ValidateAndFix 修复可自动修复的问题后再验证
//
//   - 空 pubsub topic 使用默认值
//   - 负超时使用默认值
//   - 非法帧长度使用默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	defaults := NewConfig()
	if c.PubsubTopic == "" {
		c.PubsubTopic = defaults.PubsubTopic
	}
	if c.Timeout < 0 {
		c.Timeout = defaults.Timeout
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = defaults.MaxFrameSize
	}
	if c.Store.PageSize == 0 {
		c.Store.PageSize = defaults.Store.PageSize
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustValidate 验证配置，失败时 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
