package protobook

import (
	"sort"
	"sync"
	"testing"

	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	pb := New()
	require.NotNil(t, pb)
}

func TestProtoBook_SetProtocols(t *testing.T) {
	pb := New()
	peerID := types.PeerID("peer1")

	err := pb.SetProtocols(peerID, protocolids.Store, protocolids.FilterSubscribe)
	require.NoError(t, err)

	retrieved, err := pb.GetProtocols(peerID)
	require.NoError(t, err)
	assert.Len(t, retrieved, 2)

	// 覆盖
	require.NoError(t, pb.SetProtocols(peerID, protocolids.FilterPush))
	retrieved, _ = pb.GetProtocols(peerID)
	assert.Equal(t, []types.ProtocolID{protocolids.FilterPush}, retrieved)
}

func TestProtoBook_AddProtocols(t *testing.T) {
	pb := New()
	peerID := types.PeerID("peer1")

	// 重复添加同一协议不产生重复项
	pb.AddProtocols(peerID, protocolids.Store)
	pb.AddProtocols(peerID, protocolids.Store, protocolids.FilterSubscribe)

	protocols, _ := pb.GetProtocols(peerID)
	assert.Len(t, protocols, 2)
}

func TestProtoBook_EmptyPeerID(t *testing.T) {
	pb := New()
	assert.ErrorIs(t, pb.AddProtocols("", protocolids.Store), types.ErrEmptyPeerID)
	assert.ErrorIs(t, pb.SetProtocols("", protocolids.Store), types.ErrEmptyPeerID)
}

func TestProtoBook_SupportsProtocols(t *testing.T) {
	pb := New()
	peerID := types.PeerID("peer1")
	pb.SetProtocols(peerID, protocolids.Store, protocolids.FilterSubscribe)

	supported, err := pb.SupportsProtocols(peerID, protocolids.FilterPush, protocolids.Store)
	require.NoError(t, err)
	assert.Equal(t, []types.ProtocolID{protocolids.Store}, supported)

	// 未知节点
	supported, err = pb.SupportsProtocols("unknown", protocolids.Store)
	require.NoError(t, err)
	assert.Empty(t, supported)
}

func TestProtoBook_FirstSupportedProtocol(t *testing.T) {
	pb := New()
	peerID := types.PeerID("peer1")
	pb.SetProtocols(peerID, protocolids.Store, protocolids.FilterSubscribe)

	first, err := pb.FirstSupportedProtocol(peerID, protocolids.FilterPush, protocolids.FilterSubscribe, protocolids.Store)
	require.NoError(t, err)
	assert.Equal(t, protocolids.FilterSubscribe, first)

	first, _ = pb.FirstSupportedProtocol(peerID, protocolids.FilterPush)
	assert.True(t, first.IsEmpty())
}

func TestProtoBook_RemoveProtocols(t *testing.T) {
	pb := New()
	peerID := types.PeerID("peer1")
	pb.SetProtocols(peerID, protocolids.Store, protocolids.FilterSubscribe)

	require.NoError(t, pb.RemoveProtocols(peerID, protocolids.Store))
	protocols, _ := pb.GetProtocols(peerID)
	assert.Equal(t, []types.ProtocolID{protocolids.FilterSubscribe}, protocols)

	// 移除未知节点的协议不报错
	assert.NoError(t, pb.RemoveProtocols("unknown", protocolids.Store))
}

func TestProtoBook_PeersSupporting(t *testing.T) {
	pb := New()
	pb.SetProtocols("peer1", protocolids.Store)
	pb.SetProtocols("peer2", protocolids.Store, protocolids.FilterSubscribe)
	pb.SetProtocols("peer3", protocolids.FilterSubscribe)

	peers := pb.PeersSupporting(protocolids.Store)
	sort.Slice(peers, func(i, j int) bool { return peers[i] < peers[j] })
	assert.Equal(t, []types.PeerID{"peer1", "peer2"}, peers)

	pb.RemovePeer("peer1")
	assert.Len(t, pb.PeersSupporting(protocolids.Store), 1)
}

func TestProtoBook_Concurrent(t *testing.T) {
	pb := New()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			pb.AddProtocols("peer1", protocolids.Store)
		}()
		go func() {
			defer wg.Done()
			pb.SupportsProtocols("peer1", protocolids.Store)
			pb.PeersSupporting(protocolids.Store)
		}()
	}
	wg.Wait()

	protocols, _ := pb.GetProtocols("peer1")
	assert.Len(t, protocols, 1)
}
