package types

import (
	"github.com/mr-tron/base58"
)

// Base58Encode 将字节切片编码为 Base58 字符串（Bitcoin 字母表）
func Base58Encode(input []byte) string {
	if len(input) == 0 {
		return ""
	}
	return base58.Encode(input)
}

// Base58Decode 将 Base58 字符串解码为字节切片
func Base58Decode(input string) ([]byte, error) {
	if input == "" {
		return []byte{}, nil
	}
	b, err := base58.Decode(input)
	if err != nil {
		return nil, ErrInvalidBase58Char
	}
	return b, nil
}
