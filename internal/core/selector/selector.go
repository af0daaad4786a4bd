// Package selector 实现服务节点选择
//
// 给定可选的显式节点，返回一个可用于某协议的节点：
//   - 显式节点：必须是 Peerstore 中的已知节点，不再检查协议支持
//   - 未指定：在声明支持该协议的节点中伪随机选取一个
//
// 选择过程只读 Peerstore，不产生任何网络活动。
package selector

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	pkgif "github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/log"
	"github.com/dep2p/go-lightnode/pkg/types"
)

var logger = log.Logger("core/selector")

var (
	// ErrNoPeerAvailable 没有符合条件的节点
	ErrNoPeerAvailable = errors.New("selector: no peer available")

	// ErrNilPeerstore 未提供 Peerstore
	ErrNilPeerstore = errors.New("selector: nil peerstore")
)

// Selector 节点选择器
type Selector struct {
	peerstore pkgif.Peerstore
	intn      func(n int) int
}

// Option 选择器选项
type Option func(*Selector)

// WithRand 替换随机数来源（测试用）
func WithRand(intn func(n int) int) Option {
	return func(s *Selector) {
		s.intn = intn
	}
}

// New 创建选择器
func New(ps pkgif.Peerstore, opts ...Option) (*Selector, error) {
	if ps == nil {
		return nil, ErrNilPeerstore
	}
	s := &Selector{peerstore: ps, intn: rand.IntN}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SelectPeer 选择服务节点
func (s *Selector) SelectPeer(ctx context.Context, explicit types.PeerID, protocol types.ProtocolID) (types.PeerID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	peers := s.peerstore.Peers()

	if !explicit.IsEmpty() {
		if !slices.Contains(peers, explicit) {
			return "", fmt.Errorf("%w: peer %s is unknown", ErrNoPeerAvailable, explicit.ShortString())
		}
		return explicit, nil
	}

	candidates := s.Candidates(protocol)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no peer supports %s", ErrNoPeerAvailable, protocol)
	}

	selected := candidates[s.intn(len(candidates))]
	logger.Debug("选择服务节点",
		"protocol", protocol,
		"peerID", log.TruncateID(string(selected), 8),
		"candidates", len(candidates))
	return selected, nil
}

// Candidates 返回声明支持协议的全部已知节点
func (s *Selector) Candidates(protocol types.ProtocolID) []types.PeerID {
	var candidates []types.PeerID
	for _, peerID := range s.peerstore.Peers() {
		supported, err := s.peerstore.SupportsProtocols(peerID, protocol)
		if err != nil || len(supported) == 0 {
			continue
		}
		candidates = append(candidates, peerID)
	}
	// Peers() 来自 map，排序后伪随机选择才可复现
	slices.Sort(candidates)
	return candidates
}
