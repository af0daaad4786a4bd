package selector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-lightnode/internal/core/peerstore"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
)

func newPeerstore(t *testing.T) *peerstore.Peerstore {
	t.Helper()
	ps := peerstore.NewPeerstore()
	require.NoError(t, ps.AddPeer("peerA", protocolids.Store))
	require.NoError(t, ps.AddPeer("peerB", protocolids.Store, protocolids.FilterSubscribe))
	require.NoError(t, ps.AddPeer("peerC"))
	return ps
}

func TestNew_NilPeerstore(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilPeerstore)
}

func TestSelectPeer_Explicit(t *testing.T) {
	s, err := New(newPeerstore(t))
	require.NoError(t, err)

	// 显式节点不检查协议支持
	peer, err := s.SelectPeer(context.Background(), "peerC", protocolids.Store)
	require.NoError(t, err)
	assert.Equal(t, types.PeerID("peerC"), peer)

	_, err = s.SelectPeer(context.Background(), "unknown", protocolids.Store)
	assert.ErrorIs(t, err, ErrNoPeerAvailable)
}

func TestSelectPeer_ByProtocol(t *testing.T) {
	s, err := New(newPeerstore(t))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		peer, err := s.SelectPeer(context.Background(), "", protocolids.FilterSubscribe)
		require.NoError(t, err)
		assert.Equal(t, types.PeerID("peerB"), peer)
	}

	peer, err := s.SelectPeer(context.Background(), "", protocolids.Store)
	require.NoError(t, err)
	assert.Contains(t, []types.PeerID{"peerA", "peerB"}, peer)
}

func TestSelectPeer_Deterministic(t *testing.T) {
	s, err := New(newPeerstore(t), WithRand(func(n int) int { return n - 1 }))
	require.NoError(t, err)

	peer, err := s.SelectPeer(context.Background(), "", protocolids.Store)
	require.NoError(t, err)
	assert.Equal(t, types.PeerID("peerB"), peer)
}

func TestSelectPeer_NoneAvailable(t *testing.T) {
	s, err := New(newPeerstore(t))
	require.NoError(t, err)

	_, err = s.SelectPeer(context.Background(), "", protocolids.FilterPush)
	assert.ErrorIs(t, err, ErrNoPeerAvailable)

	empty, _ := New(peerstore.NewPeerstore())
	_, err = empty.SelectPeer(context.Background(), "", protocolids.Store)
	assert.ErrorIs(t, err, ErrNoPeerAvailable)
}

func TestSelectPeer_Canceled(t *testing.T) {
	s, _ := New(newPeerstore(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SelectPeer(ctx, "", protocolids.Store)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCandidates(t *testing.T) {
	s, _ := New(newPeerstore(t))
	assert.Equal(t, []types.PeerID{"peerA", "peerB"}, s.Candidates(protocolids.Store))
	assert.Empty(t, s.Candidates(protocolids.FilterPush))
}
