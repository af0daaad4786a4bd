package peerstore

import (
	"sync"
	"testing"

	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerstore_AddPeer(t *testing.T) {
	ps := NewPeerstore()
	defer ps.Close()

	require.NoError(t, ps.AddPeer("peer1", protocolids.Store))
	require.NoError(t, ps.AddPeer("peer2"))

	assert.True(t, ps.HasPeer("peer1"))
	assert.True(t, ps.HasPeer("peer2"))
	assert.False(t, ps.HasPeer("peer3"))
	assert.ElementsMatch(t, []types.PeerID{"peer1", "peer2"}, ps.Peers())

	supported, err := ps.SupportsProtocols("peer1", protocolids.Store)
	require.NoError(t, err)
	assert.Len(t, supported, 1)

	// 没有协议的节点也是已知节点
	supported, _ = ps.SupportsProtocols("peer2", protocolids.Store)
	assert.Empty(t, supported)
}

func TestPeerstore_ProtocolsRegisterPeer(t *testing.T) {
	ps := NewPeerstore()

	require.NoError(t, ps.SetProtocols("peer1", protocolids.FilterSubscribe))
	require.NoError(t, ps.AddProtocols("peer2", protocolids.Store))

	assert.ElementsMatch(t, []types.PeerID{"peer1", "peer2"}, ps.Peers())
}

func TestPeerstore_EmptyPeerID(t *testing.T) {
	ps := NewPeerstore()
	assert.ErrorIs(t, ps.AddPeer(""), types.ErrEmptyPeerID)
	assert.Empty(t, ps.Peers())
}

func TestPeerstore_RemovePeer(t *testing.T) {
	ps := NewPeerstore()
	ps.AddPeer("peer1", protocolids.Store)

	ps.RemovePeer("peer1")

	assert.False(t, ps.HasPeer("peer1"))
	protocols, _ := ps.GetProtocols("peer1")
	assert.Empty(t, protocols)
}

func TestPeerstore_Closed(t *testing.T) {
	ps := NewPeerstore()
	require.NoError(t, ps.Close())

	assert.ErrorIs(t, ps.AddPeer("peer1"), ErrClosed)
}

func TestPeerstore_Concurrent(t *testing.T) {
	ps := NewPeerstore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			ps.AddPeer(types.PeerID([]byte{'p', byte('a' + i%26)}), protocolids.Store)
		}(i)
		go func() {
			defer wg.Done()
			for _, p := range ps.Peers() {
				ps.SupportsProtocols(p, protocolids.Store)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ps.Peers(), 26)
}
