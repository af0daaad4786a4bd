package streamrpc

import (
	"bufio"
	"fmt"
	"io"

	"github.com/multiformats/go-varint"
)

// DefaultMaxFrameSize 默认最大帧长度（1 MiB 负载加协议开销）
const DefaultMaxFrameSize = 1<<20 + 64<<10

// WriteFrame 写入一个长度前缀帧
//
// 前缀与负载合并为一次写入，避免对端读到只有前缀的半帧。
func WriteFrame(w io.Writer, data []byte) error {
	buf := make([]byte, varint.UvarintSize(uint64(len(data))), varint.UvarintSize(uint64(len(data)))+len(data))
	varint.PutUvarint(buf, uint64(len(data)))
	buf = append(buf, data...)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrame 读取一个长度前缀帧
//
// 在帧边界遇到流结束时返回 io.EOF；帧中途结束返回 io.ErrUnexpectedEOF。
func ReadFrame(r *bufio.Reader, maxSize int) ([]byte, error) {
	length, err := varint.ReadUvarint(r)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read length: %w", err)
	}
	if maxSize > 0 && length > uint64(maxSize) {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, maxSize)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read data: %w", err)
	}
	return data, nil
}

// FrameReader 顺序读取同一条流上的帧
type FrameReader struct {
	r       *bufio.Reader
	maxSize int
}

// NewFrameReader 创建帧读取器
func NewFrameReader(r io.Reader, maxSize int) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r), maxSize: maxSize}
}

// Next 读取下一帧，流在帧边界结束时返回 io.EOF
func (fr *FrameReader) Next() ([]byte, error) {
	return ReadFrame(fr.r, fr.maxSize)
}
