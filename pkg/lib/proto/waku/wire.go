// Package waku 定义 Filter / Store 协议的 protobuf 线格式消息
//
// 消息直接使用 google.golang.org/protobuf/encoding/protowire 编解码，
// 字段编号与上游 .proto 定义保持一致（见各类型注释）。
// 解码时跳过未知字段；proto3 非 optional 标量在零值时不写出。
package waku

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrWireType 字段的线类型与定义不符
var ErrWireType = errors.New("waku: unexpected wire type")

// fieldFunc 处理单个字段，返回消费的字节数。
// 返回 0 表示未识别的字段，由调用方跳过。
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// consumeMessage 遍历消息的全部字段
func consumeMessage(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}

func consumeBytes(typ protowire.Type, b []byte, dst *[]byte) (int, error) {
	if typ != protowire.BytesType {
		return 0, ErrWireType
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	*dst = append([]byte(nil), v...)
	return n, nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, ErrWireType
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return n, nil
	}
	*dst = v
	return n, nil
}

func consumeOptString(typ protowire.Type, b []byte, dst **string) (int, error) {
	var s string
	n, err := consumeString(typ, b, &s)
	if err == nil && n > 0 {
		*dst = &s
	}
	return n, err
}

func consumeUvarint(typ protowire.Type, b []byte, dst *uint64) (int, error) {
	if typ != protowire.VarintType {
		return 0, ErrWireType
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return n, nil
	}
	*dst = v
	return n, nil
}

func consumeSint64(typ protowire.Type, b []byte, dst **int64) (int, error) {
	var v uint64
	n, err := consumeUvarint(typ, b, &v)
	if err == nil && n > 0 {
		s := protowire.DecodeZigZag(v)
		*dst = &s
	}
	return n, err
}

// consumeSubmessage 取出嵌套消息的字节，交给 decode 解析
func consumeSubmessage(typ protowire.Type, b []byte, decode func([]byte) error) (int, error) {
	if typ != protowire.BytesType {
		return 0, ErrWireType
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	if err := decode(v); err != nil {
		return 0, err
	}
	return n, nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendUvarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendSint64(b []byte, num protowire.Number, v int64) []byte {
	return appendUvarint(b, num, protowire.EncodeZigZag(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendUvarint(b, num, protowire.EncodeBool(v))
}

// 嵌套消息：先编码到临时缓冲区再按 bytes 写出
func appendSubmessage(b []byte, num protowire.Number, encoded []byte) []byte {
	return appendBytes(b, num, encoded)
}
