package lightnode

import (
	"context"
	"fmt"
	"testing"
	"time"

	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-lightnode/internal/core/host"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
	"github.com/dep2p/go-lightnode/pkg/message"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/tests/testutil"
)

const chatTopic = "/app/1/chat/proto"

type nodeEnv struct {
	node   *Node
	filter *testutil.FilterServer
	store  *testutil.StoreServer
}

// setupNode 在 mocknet 上创建客户端节点和一个同时提供 Filter/Store 的服务节点
func setupNode(t *testing.T, opts ...Option) *nodeEnv {
	t.Helper()

	mn := mocknet.New()
	t.Cleanup(func() { _ = mn.Close() })

	lhClient, err := mn.GenPeer()
	require.NoError(t, err)
	lhServer, err := mn.GenPeer()
	require.NoError(t, err)
	require.NoError(t, mn.LinkAll())

	server, err := host.New(host.WithLibp2pHost(lhServer))
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })

	var addrs []string
	for _, a := range lhServer.Addrs() {
		addrs = append(addrs, a.String())
	}

	opts = append([]Option{
		WithLibp2pHost(lhClient),
		WithKnownPeer(string(server.ID()), addrs),
		WithTimeout(5 * time.Second),
	}, opts...)

	node, err := New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = node.Close() })

	return &nodeEnv{
		node:   node,
		filter: testutil.ServeFilter(server),
		store:  testutil.ServeStore(server),
	}
}

func chatDecoder(t *testing.T) Decoder {
	t.Helper()
	dec, err := message.NewDecoder(chatTopic)
	require.NoError(t, err)
	return dec
}

func chatMessage(t *testing.T, payload string, ts time.Time) *waku.WakuMessage {
	t.Helper()
	enc, err := message.NewEncoder(chatTopic)
	require.NoError(t, err)
	return enc.ToProto([]byte(payload), ts)
}

// ============================================================================
//                              生命周期
// ============================================================================

func TestNode_Lifecycle(t *testing.T) {
	env := setupNode(t)
	n := env.node

	assert.Equal(t, StateIdle, n.State())
	assert.NotEmpty(t, n.ID())

	_, err := n.QueryGenerator(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = n.Subscribe(context.Background(), []Decoder{chatDecoder(t)}, func(DecodedMessage) {})
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, n.Start(context.Background()))
	assert.True(t, n.IsRunning())
	assert.ErrorIs(t, n.Start(context.Background()), ErrAlreadyStarted)

	require.NoError(t, n.Close())
	require.NoError(t, n.Close())
	assert.Equal(t, StateClosed, n.State())
	assert.ErrorIs(t, n.Start(context.Background()), ErrNodeClosed)

	_, err = n.QueryGenerator(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNodeClosed)
}

func TestNode_CloseWithoutStart(t *testing.T) {
	env := setupNode(t)
	require.NoError(t, env.node.Close())
	assert.Equal(t, StateClosed, env.node.State())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), WithPubsubTopic(""))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(context.Background(), WithConfig(nil))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(context.Background(), WithStoreDirection(PageDirection(7)))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(context.Background(), WithLibp2pHost(nil))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNode_KnownPeerRegistered(t *testing.T) {
	env := setupNode(t)

	peers := env.node.Host().Peerstore().Peers()
	assert.Contains(t, peers, env.store.ID())

	cfg := env.node.Config()
	require.Len(t, cfg.KnownPeers, 1)
	assert.Equal(t, string(env.store.ID()), cfg.KnownPeers[0].PeerID)
}

// ============================================================================
//                              Filter
// ============================================================================

func TestNode_Subscribe(t *testing.T) {
	env := setupNode(t)
	require.NoError(t, env.node.Start(context.Background()))

	received := make(chan DecodedMessage, 1)
	unsubscribe, err := env.node.Subscribe(context.Background(), []Decoder{chatDecoder(t)},
		func(msg DecodedMessage) { received <- msg })
	require.NoError(t, err)

	reqs := env.filter.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, waku.FilterSubscribe, reqs[0].Type)
	assert.Equal(t, []string{chatTopic}, reqs[0].ContentTopics)

	err = env.filter.Push(context.Background(), env.node.ID(), protocolids.DefaultPubsubTopic,
		chatMessage(t, "hello", time.Now()))
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "hello", string(msg.Payload()))
		assert.Equal(t, chatTopic, msg.ContentTopic())
	case <-time.After(5 * time.Second):
		t.Fatal("push not delivered")
	}

	require.NoError(t, unsubscribe(context.Background()))
	require.Eventually(t, func() bool {
		reqs := env.filter.Requests()
		return len(reqs) == 2 && reqs[1].Type == waku.FilterUnsubscribe
	}, 5*time.Second, 10*time.Millisecond)

	subs := env.node.Subscriptions()
	require.Len(t, subs, 1)
	assert.Empty(t, subs[0].ContentTopics())
}

func TestNode_SubscribeRejected(t *testing.T) {
	env := setupNode(t)
	require.NoError(t, env.node.Start(context.Background()))
	env.filter.StatusFunc = func(*waku.FilterSubscribeRequest) (uint32, string) {
		return 503, "overloaded"
	}

	_, err := env.node.Subscribe(context.Background(), []Decoder{chatDecoder(t)}, func(DecodedMessage) {})
	assert.ErrorIs(t, err, ErrSubscribeRequest)

	var reqErr *SubscribeRequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, uint32(503), reqErr.StatusCode)
}

func TestNode_SubscribeChannel(t *testing.T) {
	env := setupNode(t)
	require.NoError(t, env.node.Start(context.Background()))

	ch, unsubscribe, err := env.node.SubscribeChannel(context.Background(), []Decoder{chatDecoder(t)})
	require.NoError(t, err)

	for i := range 3 {
		err := env.filter.Push(context.Background(), env.node.ID(), protocolids.DefaultPubsubTopic,
			chatMessage(t, fmt.Sprintf("m%d", i), time.Now()))
		require.NoError(t, err)
	}

	var got []string
	for len(got) < 3 {
		select {
		case msg := <-ch:
			got = append(got, string(msg.Payload()))
		case <-time.After(5 * time.Second):
			t.Fatalf("received %d of 3 messages", len(got))
		}
	}
	assert.ElementsMatch(t, []string{"m0", "m1", "m2"}, got)

	require.NoError(t, unsubscribe(context.Background()))
	_, ok := <-ch
	assert.False(t, ok, "channel closed after unsubscribe")
}

func TestNode_SubscribeSeq(t *testing.T) {
	env := setupNode(t)
	require.NoError(t, env.node.Start(context.Background()))

	seq, err := env.node.SubscribeSeq(context.Background(), []Decoder{chatDecoder(t)})
	require.NoError(t, err)

	first := chatMessage(t, "first", time.Now())
	go func() {
		_ = env.filter.Push(context.Background(), env.node.ID(), protocolids.DefaultPubsubTopic, first)
	}()

	for msg := range seq {
		assert.Equal(t, "first", string(msg.Payload()))
		break
	}

	require.Eventually(t, func() bool {
		reqs := env.filter.Requests()
		return len(reqs) == 2 && reqs[1].Type == waku.FilterUnsubscribe
	}, 5*time.Second, 10*time.Millisecond)
}

func TestChannelReceiver_DropsWhenFull(t *testing.T) {
	r := newChannelReceiver(1)
	msg := message.New("", chatMessage(t, "x", time.Now()))

	r.deliver(msg)
	r.deliver(msg)
	assert.Len(t, r.ch, 1)

	r.close()
	r.close()
	r.deliver(msg)
}

func TestContentTopics(t *testing.T) {
	a, err := message.NewDecoder("/app/1/a/proto")
	require.NoError(t, err)
	b, err := message.NewDecoder("/app/1/b/proto")
	require.NoError(t, err)

	assert.Equal(t, []string{"/app/1/a/proto", "/app/1/b/proto"}, contentTopics([]Decoder{a, b, a, nil}))
}

// ============================================================================
//                              Store
// ============================================================================

func TestNode_QueryOrderedCallback(t *testing.T) {
	env := setupNode(t, WithStorePageSize(2))
	require.NoError(t, env.node.Start(context.Background()))

	base := time.Unix(1700000000, 0)
	for i := range 3 {
		env.store.Messages = append(env.store.Messages, chatMessage(t, fmt.Sprintf("m%d", i+1), base.Add(time.Duration(i)*time.Second)))
	}

	var got []string
	err := env.node.QueryOrderedCallback(context.Background(), []Decoder{chatDecoder(t)},
		func(msg DecodedMessage) bool {
			got = append(got, string(msg.Payload()))
			return false
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m2", "m1"}, got)
	assert.Len(t, env.store.Queries(), 2)
}

func TestNode_QueryForwardWithCursor(t *testing.T) {
	env := setupNode(t)
	require.NoError(t, env.node.Start(context.Background()))

	base := time.Unix(1700000000, 0)
	for i := range 4 {
		env.store.Messages = append(env.store.Messages, chatMessage(t, fmt.Sprintf("m%d", i+1), base.Add(time.Duration(i)*time.Second)))
	}

	p, err := env.node.QueryGenerator(context.Background(), []Decoder{chatDecoder(t)},
		QueryDirection(PageForward), QueryPageSize(2))
	require.NoError(t, err)
	require.True(t, p.Next(context.Background()))

	msgs, err := p.Page().Messages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", string(msgs[0].Payload()))

	var sizes []int
	for page, err := range env.node.Pages(context.Background(), []Decoder{chatDecoder(t)},
		QueryDirection(PageForward), QueryPageSize(2), QueryCursor(p.Cursor())) {
		require.NoError(t, err)
		sizes = append(sizes, page.Len())
	}
	assert.Equal(t, []int{2}, sizes)
}

func TestNode_QueryErrorCode(t *testing.T) {
	env := setupNode(t)
	require.NoError(t, env.node.Start(context.Background()))
	env.store.RespondFunc = func(*waku.HistoryQuery) *waku.HistoryResponse {
		return &waku.HistoryResponse{Error: waku.HistoryErrorServiceUnavailable}
	}

	err := env.node.QueryCallbackOnPromise(context.Background(), []Decoder{chatDecoder(t)},
		func(*Pending) bool { return false })
	assert.ErrorIs(t, err, ErrHistoryProtocol)

	var protoErr *HistoryProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, waku.HistoryErrorServiceUnavailable, protoErr.Code)
}

func TestNode_NoPeer(t *testing.T) {
	env := setupNode(t)
	require.NoError(t, env.node.Start(context.Background()))

	_, err := env.node.QueryGenerator(context.Background(), nil, QueryPeer("16Uiu2HAmUnknown"))
	assert.ErrorIs(t, err, ErrNoPeerAvailable)
}

func TestNode_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	env := setupNode(t, WithMetrics(reg))
	require.NoError(t, env.node.Start(context.Background()))

	p, err := env.node.QueryGenerator(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, p.Next(context.Background()))

	n, err := promtestutil.GatherAndCount(reg, "lightnode_store_queries_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreateCursor(t *testing.T) {
	msg := message.New("", chatMessage(t, "payload", time.UnixMilli(1700000000000)))
	c, err := CreateCursor(msg, "")
	require.NoError(t, err)
	assert.Equal(t, protocolids.DefaultPubsubTopic, c.PubsubTopic)
	assert.Len(t, c.Digest, 32)

	_, err = CreateCursor(nil, "")
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), Version)
}
