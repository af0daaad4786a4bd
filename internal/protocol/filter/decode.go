package filter

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
)

type decodeResult struct {
	msg pkgif.DecodedMessage
	err error
}

// decodeFirst 并发运行全部解码器，返回第一个成功的结果
//
// 拿到结果后取消其余解码器并丢弃其输出；全部失败时返回聚合错误。
func decodeFirst(ctx context.Context, pubsubTopic string, decoders []pkgif.Decoder, msg *waku.WakuMessage) (pkgif.DecodedMessage, error) {
	if len(decoders) == 1 {
		return decodeOne(ctx, pubsubTopic, decoders[0], msg)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 缓冲区容纳全部结果，落后的解码器不会阻塞
	results := make(chan decodeResult, len(decoders))
	for _, dec := range decoders {
		go func(dec pkgif.Decoder) {
			m, err := decodeOne(ctx, pubsubTopic, dec, msg)
			results <- decodeResult{msg: m, err: err}
		}(dec)
	}

	var errs error
	for range decoders {
		select {
		case r := <-results:
			if r.err == nil {
				return r.msg, nil
			}
			errs = multierr.Append(errs, r.err)
		case <-ctx.Done():
			return nil, multierr.Append(errs, ctx.Err())
		}
	}
	return nil, errs
}

// decodeOne 运行单个解码器
func decodeOne(ctx context.Context, pubsubTopic string, dec pkgif.Decoder, msg *waku.WakuMessage) (decoded pkgif.DecodedMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			decoded, err = nil, fmt.Errorf("%w: decoder panic: %v", ErrDecodeFailed, r)
		}
	}()

	decoded, err = dec.Decode(ctx, pubsubTopic, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if decoded == nil {
		return nil, ErrDecodeFailed
	}
	return decoded, nil
}
