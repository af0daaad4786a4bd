package types

import "errors"

// ============================================================================
//                              ID 相关错误
// ============================================================================

var (
	// ErrEmptyPeerID 空节点 ID
	ErrEmptyPeerID = errors.New("empty peer ID")

	// ErrInvalidPeerID 无效的节点 ID
	ErrInvalidPeerID = errors.New("invalid peer ID")

	// ErrEmptyProtocolID 空协议 ID
	ErrEmptyProtocolID = errors.New("empty protocol ID")

	// ErrInvalidBase58Char 无效的 Base58 字符
	ErrInvalidBase58Char = errors.New("invalid base58 character")
)

// ============================================================================
//                              历史查询相关错误
// ============================================================================

var (
	// ErrInvalidTimeFilter 时间范围无效（开始时间晚于结束时间）
	ErrInvalidTimeFilter = errors.New("invalid time filter: start after end")

	// ErrInvalidPageDirection 未知的翻页方向
	ErrInvalidPageDirection = errors.New("invalid page direction")
)
