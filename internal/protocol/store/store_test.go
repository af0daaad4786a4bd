package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dep2p/go-lightnode/internal/core/selector"
	"github.com/dep2p/go-lightnode/internal/core/streamrpc"
	"github.com/dep2p/go-lightnode/pkg/interfaces"
	"github.com/dep2p/go-lightnode/pkg/lib/proto/waku"
	"github.com/dep2p/go-lightnode/pkg/message"
	"github.com/dep2p/go-lightnode/pkg/protocolids"
	"github.com/dep2p/go-lightnode/pkg/types"
	"github.com/dep2p/go-lightnode/tests/mocks"
	"github.com/dep2p/go-lightnode/tests/testutil"
)

const (
	topicA = "/app/1/a/proto"
	topicB = "/app/1/b/proto"
)

type testEnv struct {
	client *mocks.MockHost
	server *testutil.StoreServer
	store  *Store
}

func setup(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	net := mocks.NewNetwork()
	client := net.AddHost("client")
	server := testutil.NewStoreServer(net, "server")
	require.NoError(t, client.PeerstoreValue.AddPeer("server", protocolids.Store))

	rpc, err := streamrpc.NewClient(client, streamrpc.WithTimeout(2*time.Second))
	require.NoError(t, err)
	sel, err := selector.New(client.Peerstore())
	require.NoError(t, err)

	s, err := New(rpc, sel, opts...)
	require.NoError(t, err)
	return &testEnv{client: client, server: server, store: s}
}

func decoder(t *testing.T, topic string) interfaces.Decoder {
	t.Helper()
	d, err := message.NewDecoder(topic)
	require.NoError(t, err)
	return d
}

// history 生成 m1..mn（从旧到新）
func history(t *testing.T, n int) []*waku.WakuMessage {
	t.Helper()
	enc, err := message.NewEncoder(topicA)
	require.NoError(t, err)

	base := time.Unix(1700000000, 0)
	msgs := make([]*waku.WakuMessage, n)
	for i := range msgs {
		msgs[i] = enc.ToProto([]byte(fmt.Sprintf("m%d", i+1)), base.Add(time.Duration(i)*time.Second))
	}
	return msgs
}

func payloads(msgs []interfaces.DecodedMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = string(m.Payload())
	}
	return out
}

// ============================================================================
//                              INIT
// ============================================================================

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrNilHost)

	rpc, err := streamrpc.NewClient(mocks.NewMockHost("client"))
	require.NoError(t, err)
	_, err = New(rpc, nil)
	assert.ErrorIs(t, err, ErrConfig)

	sel, err := selector.New(mocks.NewMockHost("client").Peerstore())
	require.NoError(t, err)
	_, err = New(rpc, sel, WithDefaultDirection(types.PageDirection(9)))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestQueryGenerator_DuplicateDecoders(t *testing.T) {
	env := setup(t)

	_, err := env.store.QueryGenerator(context.Background(),
		[]interfaces.Decoder{decoder(t, topicA), decoder(t, topicB), decoder(t, topicA)})
	assert.ErrorIs(t, err, ErrConfig)

	err = env.store.QueryOrderedCallback(context.Background(),
		[]interfaces.Decoder{decoder(t, topicA), decoder(t, topicA)},
		func(interfaces.DecodedMessage) bool { return false })
	assert.ErrorIs(t, err, ErrConfig)

	_, err = env.store.QueryGenerator(context.Background(), []interfaces.Decoder{nil})
	assert.ErrorIs(t, err, ErrConfig)

	// 在任何网络活动之前失败
	assert.Equal(t, 0, env.client.StreamCount(""))
	assert.Empty(t, env.server.Queries())
}

func TestQueryGenerator_InvalidTimeFilter(t *testing.T) {
	env := setup(t)
	now := time.Now()

	_, err := env.store.QueryGenerator(context.Background(),
		[]interfaces.Decoder{decoder(t, topicA)},
		WithTimeFilter(now, now.Add(-time.Hour)))
	assert.ErrorIs(t, err, ErrConfig)

	_, err = env.store.QueryGenerator(context.Background(),
		[]interfaces.Decoder{decoder(t, topicA)},
		WithDirection(types.PageDirection(5)))
	assert.ErrorIs(t, err, ErrConfig)

	assert.Equal(t, 0, env.client.StreamCount(""))
}

func TestQueryGenerator_NoPeer(t *testing.T) {
	env := setup(t)

	_, err := env.store.QueryGenerator(context.Background(), nil, WithPeer("unknown"))
	assert.ErrorIs(t, err, selector.ErrNoPeerAvailable)

	env.client.PeerstoreValue.RemovePeer("server")
	_, err = env.store.QueryGenerator(context.Background(), nil)
	assert.ErrorIs(t, err, selector.ErrNoPeerAvailable)
}

func TestQueryGenerator_DefaultQuery(t *testing.T) {
	env := setup(t)

	p, err := env.store.QueryGenerator(context.Background(),
		[]interfaces.Decoder{decoder(t, topicA), decoder(t, topicB)})
	require.NoError(t, err)
	assert.Equal(t, types.PeerID("server"), p.Peer())
	assert.Equal(t, types.PageBackward, p.Direction())
	assert.Equal(t, uint64(DefaultPageSize), p.PageSize())

	assert.False(t, p.Next(context.Background()))
	require.NoError(t, p.Err())

	queries := env.server.Queries()
	require.Len(t, queries, 1)
	q := queries[0]
	assert.Equal(t, protocolids.DefaultPubsubTopic, q.GetPubsubTopic())
	assert.Equal(t, []string{topicA, topicB}, q.ContentTopics)
	assert.Equal(t, uint64(10), q.PagingInfo.GetPageSize())
	assert.Equal(t, waku.PagingBackward, q.PagingInfo.GetDirection())
	assert.Nil(t, q.PagingInfo.GetCursor())
	assert.Nil(t, q.StartTime)
	assert.Nil(t, q.EndTime)
}

func TestQueryGenerator_Options(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Unix(1700000000, 0))
	env := setup(t, WithClock(mock), WithPubsubTopic("/waku/2/configured/proto"))

	start := time.Unix(1600000000, 0)
	end := time.Unix(1600000100, 0)
	cursor := &types.Cursor{Digest: []byte{1, 2}, PubsubTopic: "/waku/2/configured/proto", SenderTime: 7, ReceiverTime: 7}

	p, err := env.store.QueryGenerator(context.Background(), nil,
		WithPeer("server"),
		WithTopic("/waku/2/explicit/proto"),
		WithPageSize(500),
		WithDirection(types.PageForward),
		WithTimeFilter(start, end),
		WithCursor(cursor))
	require.NoError(t, err)
	p.Next(context.Background())

	p, err = env.store.QueryGenerator(context.Background(), nil, WithLast(time.Hour))
	require.NoError(t, err)
	p.Next(context.Background())

	queries := env.server.Queries()
	require.Len(t, queries, 2)

	q := queries[0]
	assert.Equal(t, "/waku/2/explicit/proto", q.GetPubsubTopic())
	assert.Equal(t, uint64(waku.MaxPageSize), q.PagingInfo.GetPageSize(), "clamped")
	assert.Equal(t, waku.PagingForward, q.PagingInfo.GetDirection())
	assert.Equal(t, start.UnixNano(), *q.StartTime)
	assert.Equal(t, end.UnixNano(), *q.EndTime)
	require.NotNil(t, q.PagingInfo.GetCursor())
	assert.Equal(t, []byte{1, 2}, q.PagingInfo.GetCursor().Digest)
	assert.Equal(t, int64(7), q.PagingInfo.GetCursor().SenderTime)

	q = queries[1]
	assert.Equal(t, "/waku/2/configured/proto", q.GetPubsubTopic())
	assert.Equal(t, mock.Now().Add(-time.Hour).UnixNano(), *q.StartTime)
	assert.Equal(t, mock.Now().UnixNano(), *q.EndTime)
}

// ============================================================================
//                              分页规则
// ============================================================================

func TestPaginator_BackwardPages(t *testing.T) {
	env := setup(t)
	env.server.Messages = history(t, 5)

	p, err := env.store.QueryGenerator(context.Background(), []interfaces.Decoder{decoder(t, topicA)}, WithPageSize(2))
	require.NoError(t, err)

	var pages [][]string
	for p.Next(context.Background()) {
		msgs, err := p.Page().Messages(context.Background())
		require.NoError(t, err)
		pages = append(pages, payloads(msgs))
	}
	require.NoError(t, p.Err())

	// 每页内部从旧到新
	assert.Equal(t, [][]string{{"m4", "m5"}, {"m2", "m3"}, {"m1"}}, pages)
	assert.Len(t, env.server.Queries(), 3)
	assert.False(t, p.Next(context.Background()), "single pass")
}

func TestPaginator_CursorChaining(t *testing.T) {
	env := setup(t)
	env.server.Messages = history(t, 5)

	p, err := env.store.QueryGenerator(context.Background(), []interfaces.Decoder{decoder(t, topicA)}, WithPageSize(2))
	require.NoError(t, err)
	for p.Next(context.Background()) {
	}
	require.NoError(t, p.Err())

	// 第 N+1 次请求使用第 N 次响应的游标
	queries := env.server.Queries()
	require.Len(t, queries, 3)
	assert.Nil(t, queries[0].PagingInfo.GetCursor())
	assert.Equal(t, 3, testutil.CursorIndex(queries[1].PagingInfo.GetCursor()))
	assert.Equal(t, 1, testutil.CursorIndex(queries[2].PagingInfo.GetCursor()))
}

func TestPaginator_ResumeFromCursor(t *testing.T) {
	env := setup(t)
	env.server.Messages = history(t, 5)
	dec := []interfaces.Decoder{decoder(t, topicA)}

	p, err := env.store.QueryGenerator(context.Background(), dec, WithPageSize(2))
	require.NoError(t, err)
	require.True(t, p.Next(context.Background()))
	cursor := p.Cursor()
	require.NotNil(t, cursor)

	// 用游标发起新查询，从第二页开始
	resumed, err := env.store.QueryGenerator(context.Background(), dec, WithPageSize(2), WithCursor(cursor))
	require.NoError(t, err)
	require.True(t, resumed.Next(context.Background()))
	msgs, err := resumed.Page().Messages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"m2", "m3"}, payloads(msgs))
}

func TestPaginator_ErrorCode(t *testing.T) {
	env := setup(t)
	env.server.RespondFunc = func(*waku.HistoryQuery) *waku.HistoryResponse {
		return &waku.HistoryResponse{
			Messages:   history(t, 2),
			PagingInfo: &waku.PagingInfo{Cursor: testutil.IndexCursor(0)},
			Error:      waku.HistoryErrorTooManyRequests,
		}
	}

	p, err := env.store.QueryGenerator(context.Background(), []interfaces.Decoder{decoder(t, topicA)})
	require.NoError(t, err)
	assert.False(t, p.Next(context.Background()))
	assert.Nil(t, p.Page())

	var protoErr *HistoryProtocolError
	require.ErrorAs(t, p.Err(), &protoErr)
	assert.Equal(t, waku.HistoryErrorTooManyRequests, protoErr.Code)
	assert.NotEmpty(t, protoErr.RequestID)
	assert.ErrorIs(t, p.Err(), ErrHistoryProtocol)

	assert.False(t, p.Next(context.Background()))
	assert.Len(t, env.server.Queries(), 1, "no further queries")
}

func TestPaginator_ErrorAfterFirstPage(t *testing.T) {
	env := setup(t)
	var calls atomic.Int32
	env.server.RespondFunc = func(*waku.HistoryQuery) *waku.HistoryResponse {
		if calls.Add(1) == 1 {
			return &waku.HistoryResponse{
				Messages:   history(t, 2),
				PagingInfo: &waku.PagingInfo{PageSize: waku.Uint64(2), Cursor: testutil.IndexCursor(0)},
			}
		}
		return &waku.HistoryResponse{Error: waku.HistoryErrorServiceUnavailable}
	}

	var got []string
	err := env.store.QueryOrderedCallback(context.Background(), []interfaces.Decoder{decoder(t, topicA)},
		func(msg interfaces.DecodedMessage) bool {
			got = append(got, string(msg.Payload()))
			return false
		}, WithPageSize(2))

	assert.ErrorIs(t, err, ErrHistoryProtocol)
	assert.Equal(t, []string{"m2", "m1"}, got, "delivered page stays delivered")
}

func TestPaginator_EmptyPage(t *testing.T) {
	env := setup(t)
	env.server.RespondFunc = func(*waku.HistoryQuery) *waku.HistoryResponse {
		return &waku.HistoryResponse{PagingInfo: &waku.PagingInfo{Cursor: testutil.IndexCursor(3)}}
	}

	p, err := env.store.QueryGenerator(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, p.Next(context.Background()))
	assert.NoError(t, p.Err())
	assert.Len(t, env.server.Queries(), 1)
}

func TestPaginator_NoResponse(t *testing.T) {
	env := setup(t)
	env.server.RespondFunc = func(*waku.HistoryQuery) *waku.HistoryResponse { return nil }

	p, err := env.store.QueryGenerator(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, p.Next(context.Background()))
	assert.NoError(t, p.Err())
}

func TestPaginator_ShortPage(t *testing.T) {
	env := setup(t)
	env.server.RespondFunc = func(*waku.HistoryQuery) *waku.HistoryResponse {
		return &waku.HistoryResponse{
			Messages:   history(t, 3),
			PagingInfo: &waku.PagingInfo{PageSize: waku.Uint64(3), Cursor: testutil.IndexCursor(0)},
		}
	}

	p, err := env.store.QueryGenerator(context.Background(), []interfaces.Decoder{decoder(t, topicA)})
	require.NoError(t, err)

	require.True(t, p.Next(context.Background()))
	assert.Equal(t, 3, p.Page().Len())
	assert.False(t, p.Next(context.Background()))
	assert.NoError(t, p.Err())
	assert.Len(t, env.server.Queries(), 1)
}

func TestPaginator_MissingCursor(t *testing.T) {
	env := setup(t)
	env.server.RespondFunc = func(q *waku.HistoryQuery) *waku.HistoryResponse {
		return &waku.HistoryResponse{
			Messages:   history(t, 2),
			PagingInfo: &waku.PagingInfo{PageSize: waku.Uint64(2)},
		}
	}

	p, err := env.store.QueryGenerator(context.Background(), nil, WithPageSize(2))
	require.NoError(t, err)
	assert.True(t, p.Next(context.Background()))
	assert.False(t, p.Next(context.Background()))
	assert.NoError(t, p.Err())
	assert.Len(t, env.server.Queries(), 1)
}

func TestPaginator_AbsentPageSizeContinues(t *testing.T) {
	env := setup(t)
	var calls atomic.Int32
	env.server.RespondFunc = func(*waku.HistoryQuery) *waku.HistoryResponse {
		if calls.Add(1) == 1 {
			return &waku.HistoryResponse{
				Messages:   history(t, 1),
				PagingInfo: &waku.PagingInfo{Cursor: testutil.IndexCursor(9)},
			}
		}
		return &waku.HistoryResponse{}
	}

	p, err := env.store.QueryGenerator(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, p.Next(context.Background()))
	assert.False(t, p.Next(context.Background()))
	assert.NoError(t, p.Err())
	assert.Len(t, env.server.Queries(), 2)
}

func TestPaginator_UndecodableMessages(t *testing.T) {
	env := setup(t)
	msgs := history(t, 3)
	msgs[1] = &waku.WakuMessage{ContentTopic: topicB, Payload: []byte("other")}
	env.server.Messages = msgs

	failing := &mocks.StubDecoder{
		Topic: topicA,
		DecodeFunc: func(_ context.Context, pubsubTopic string, msg *waku.WakuMessage) (interfaces.DecodedMessage, error) {
			if string(msg.Payload) == "m3" {
				return nil, errors.New("cannot decrypt")
			}
			return message.New(pubsubTopic, msg), nil
		},
	}

	p, err := env.store.QueryGenerator(context.Background(), []interfaces.Decoder{failing})
	require.NoError(t, err)
	require.True(t, p.Next(context.Background()))

	results, err := p.Page().Results(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "m1", string(results[0].Payload()))
	assert.Nil(t, results[1], "no decoder for content topic")
	assert.Nil(t, results[2], "decode failure")

	msgsOut, err := p.Page().Messages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, payloads(msgsOut))
	assert.Equal(t, protocolids.DefaultPubsubTopic, msgsOut[0].PubsubTopic())
}

func TestPaginator_UnmatchedTopicSkipsDecoder(t *testing.T) {
	env := setup(t)
	msgs := history(t, 2)
	msgs[0] = &waku.WakuMessage{ContentTopic: topicB, Payload: []byte("other")}
	env.server.Messages = msgs

	ctrl := gomock.NewController(t)
	dec := mocks.NewMockDecoder(ctrl)
	dec.EXPECT().ContentTopic().Return(topicA).AnyTimes()
	// topicB 的消息不会交给解码器
	dec.EXPECT().Decode(gomock.Any(), protocolids.DefaultPubsubTopic, gomock.Any()).
		DoAndReturn(func(_ context.Context, pubsubTopic string, msg *waku.WakuMessage) (interfaces.DecodedMessage, error) {
			return message.New(pubsubTopic, msg), nil
		}).
		Times(1)

	p, err := env.store.QueryGenerator(context.Background(), []interfaces.Decoder{dec})
	require.NoError(t, err)
	require.True(t, p.Next(context.Background()))

	results, err := p.Page().Results(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Nil(t, results[0])
	assert.Equal(t, "m2", string(results[1].Payload()))
}

func TestPaginator_Canceled(t *testing.T) {
	env := setup(t)
	env.server.Messages = history(t, 5)

	ctx, cancel := context.WithCancel(context.Background())
	p, err := env.store.QueryGenerator(ctx, []interfaces.Decoder{decoder(t, topicA)}, WithPageSize(2))
	require.NoError(t, err)

	require.True(t, p.Next(ctx))
	first := p.Page()
	cancel()

	assert.False(t, p.Next(ctx))
	assert.ErrorIs(t, p.Err(), context.Canceled)
	assert.Len(t, env.server.Queries(), 1)

	// 已交付的页仍可读取
	msgs, err := first.Messages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"m4", "m5"}, payloads(msgs))
}

func TestPaginator_TransportFailure(t *testing.T) {
	env := setup(t)
	env.server.Host.RemoveStreamHandler(protocolids.Store)

	p, err := env.store.QueryGenerator(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, p.Next(context.Background()))
	assert.ErrorIs(t, p.Err(), streamrpc.ErrTransport)
}

func TestPages(t *testing.T) {
	env := setup(t)
	env.server.Messages = history(t, 3)

	var sizes []int
	for page, err := range env.store.Pages(context.Background(), []interfaces.Decoder{decoder(t, topicA)}, WithPageSize(2)) {
		require.NoError(t, err)
		sizes = append(sizes, page.Len())
	}
	assert.Equal(t, []int{2, 1}, sizes)

	var errs []error
	for _, err := range env.store.Pages(context.Background(), []interfaces.Decoder{decoder(t, topicA), decoder(t, topicA)}) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrConfig)
}

// ============================================================================
//                              回调模式
// ============================================================================

func TestQueryOrderedCallback_Backward(t *testing.T) {
	env := setup(t)
	env.server.Messages = history(t, 5)

	var got []string
	err := env.store.QueryOrderedCallback(context.Background(), []interfaces.Decoder{decoder(t, topicA)},
		func(msg interfaces.DecodedMessage) bool {
			got = append(got, string(msg.Payload()))
			return false
		}, WithPageSize(2))
	require.NoError(t, err)

	assert.Equal(t, []string{"m5", "m4", "m3", "m2", "m1"}, got)
}

func TestQueryOrderedCallback_Forward(t *testing.T) {
	env := setup(t)
	env.server.Messages = history(t, 5)

	var got []string
	err := env.store.QueryOrderedCallback(context.Background(), []interfaces.Decoder{decoder(t, topicA)},
		func(msg interfaces.DecodedMessage) bool {
			got = append(got, string(msg.Payload()))
			return false
		}, WithPageSize(2), WithDirection(types.PageForward))
	require.NoError(t, err)

	assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5"}, got)
	assert.Len(t, env.server.Queries(), 3)
}

func TestQueryOrderedCallback_Abort(t *testing.T) {
	env := setup(t)
	env.server.Messages = history(t, 5)

	var got []string
	err := env.store.QueryOrderedCallback(context.Background(), []interfaces.Decoder{decoder(t, topicA)},
		func(msg interfaces.DecodedMessage) bool {
			got = append(got, string(msg.Payload()))
			return string(msg.Payload()) == "m4"
		}, WithPageSize(2))
	require.NoError(t, err)

	assert.Equal(t, []string{"m5", "m4"}, got)
	assert.Len(t, env.server.Queries(), 1)

	err = env.store.QueryOrderedCallback(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestQueryCallbackOnPromise(t *testing.T) {
	env := setup(t)
	env.server.Messages = history(t, 5)

	var (
		mu   sync.Mutex
		got  []string
		errs []error
	)
	err := env.store.QueryCallbackOnPromise(context.Background(), []interfaces.Decoder{decoder(t, topicA)},
		func(p *Pending) bool {
			msg, err := p.Await(context.Background())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				errs = append(errs, err)
			case msg == nil:
				errs = append(errs, errors.New("nil message"))
			default:
				got = append(got, string(msg.Payload()))
			}
			return false
		}, WithPageSize(2))
	require.NoError(t, err)
	assert.Empty(t, errs)

	// 完成顺序不保证
	assert.ElementsMatch(t, []string{"m1", "m2", "m3", "m4", "m5"}, got)
}

func TestQueryCallbackOnPromise_Abort(t *testing.T) {
	env := setup(t)
	env.server.Messages = history(t, 5)

	var calls atomic.Int32
	err := env.store.QueryCallbackOnPromise(context.Background(), []interfaces.Decoder{decoder(t, topicA)},
		func(p *Pending) bool {
			calls.Add(1)
			<-p.Done()
			return true
		}, WithPageSize(1))
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, env.server.Queries(), 1)
}

func TestPending_AwaitCanceled(t *testing.T) {
	p := &Pending{done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
