package config

import (
	"fmt"

	"github.com/dep2p/go-lightnode/pkg/types"
)

// StoreConfig Store 协议配置
type StoreConfig struct {
	// PageSize 每页消息数，超过协议上限时按上限请求
	PageSize uint64 `json:"page_size"`

	// Direction 翻页方向："backward"（默认）或 "forward"
	Direction string `json:"direction"`
}

// DefaultStoreConfig 返回默认 Store 配置
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		PageSize:  10,
		Direction: types.PageBackward.String(),
	}
}

// PageDirection 返回解析后的翻页方向
func (c StoreConfig) PageDirection() types.PageDirection {
	d, err := types.ParsePageDirection(c.Direction)
	if err != nil {
		return types.PageBackward
	}
	return d
}

// Validate 验证 Store 配置
func (c StoreConfig) Validate() error {
	if c.PageSize == 0 {
		return fmt.Errorf("%w: store page size must be positive", ErrInvalidConfig)
	}
	if _, err := types.ParsePageDirection(c.Direction); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
