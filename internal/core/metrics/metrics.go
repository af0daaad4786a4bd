package metrics

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dep2p/go-lightnode/pkg/types"
)

// 指标命名空间
const (
	Namespace = "lightnode"

	subsystemRPC    = "rpc"
	subsystemFilter = "filter"
	subsystemStore  = "store"
)

// 结果标签取值
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"

	// 推送处理结果
	PushDelivered   = "delivered"
	PushMalformed   = "malformed"
	PushNoRoute     = "no_route"
	PushDecodeFail  = "decode_failed"
	PushDuplicate   = "duplicate"
	PushUnsupported = "unsupported_topic"
)

// Metrics 客户端指标集合
type Metrics struct {
	clock clock.Clock

	rpcDuration *prometheus.HistogramVec
	rpcTotal    *prometheus.CounterVec

	filterRequests      *prometheus.CounterVec
	filterPushes        *prometheus.CounterVec
	filterSubscriptions prometheus.Gauge

	storeQueries  *prometheus.CounterVec
	storePages    prometheus.Counter
	storeMessages *prometheus.CounterVec
}

// Option 指标选项
type Option func(*Metrics)

// WithClock 替换计时时钟（测试用）
func WithClock(c clock.Clock) Option {
	return func(m *Metrics) {
		m.clock = c
	}
}

// New 创建指标并注册到 reg
//
// reg 为 nil 时指标不注册。
func New(reg prometheus.Registerer, opts ...Option) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{clock: clock.New()}
	for _, opt := range opts {
		opt(m)
	}

	m.rpcDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: subsystemRPC,
			Name:      "duration_seconds",
			Help:      "Stream RPC duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"protocol"},
	)

	m.rpcTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystemRPC,
			Name:      "calls_total",
			Help:      "Total number of stream RPC calls",
		},
		[]string{"protocol", "outcome"},
	)

	m.filterRequests = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystemFilter,
			Name:      "requests_total",
			Help:      "Total number of filter subscribe-side requests",
		},
		[]string{"type", "outcome"},
	)

	m.filterPushes = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystemFilter,
			Name:      "pushes_total",
			Help:      "Total number of pushed messages by handling result",
		},
		[]string{"result"},
	)

	m.filterSubscriptions = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystemFilter,
			Name:      "subscriptions",
			Help:      "Number of (pubsub topic, peer) subscriptions in the registry",
		},
	)

	m.storeQueries = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystemStore,
			Name:      "queries_total",
			Help:      "Total number of history queries sent",
		},
		[]string{"outcome"},
	)

	m.storePages = f.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystemStore,
			Name:      "pages_total",
			Help:      "Total number of history pages yielded",
		},
	)

	m.storeMessages = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystemStore,
			Name:      "messages_total",
			Help:      "Total number of history messages by decode result",
		},
		[]string{"result"},
	)

	return m
}

// ============================================================================
//                              RPC
// ============================================================================

// StartRPC 开始计时一次 RPC，返回的函数在调用结束时传入结果
func (m *Metrics) StartRPC(protocol types.ProtocolID) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	start := m.clock.Now()
	return func(outcome string) {
		m.rpcDuration.WithLabelValues(string(protocol)).Observe(m.clock.Since(start).Seconds())
		m.rpcTotal.WithLabelValues(string(protocol), outcome).Inc()
	}
}

// ============================================================================
//                              Filter
// ============================================================================

// FilterRequest 记录订阅侧请求结果
func (m *Metrics) FilterRequest(requestType string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.filterRequests.WithLabelValues(requestType, outcome).Inc()
}

// FilterPush 记录推送处理结果
func (m *Metrics) FilterPush(result string) {
	if m == nil {
		return
	}
	m.filterPushes.WithLabelValues(result).Inc()
}

// SetFilterSubscriptions 设置活跃订阅数
func (m *Metrics) SetFilterSubscriptions(n int) {
	if m == nil {
		return
	}
	m.filterSubscriptions.Set(float64(n))
}

// ============================================================================
//                              Store
// ============================================================================

// StoreQuery 记录一次历史查询
func (m *Metrics) StoreQuery(err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.storeQueries.WithLabelValues(outcome).Inc()
}

// StorePage 记录一页结果
func (m *Metrics) StorePage(decoded, undecoded int) {
	if m == nil {
		return
	}
	m.storePages.Inc()
	m.storeMessages.WithLabelValues("decoded").Add(float64(decoded))
	m.storeMessages.WithLabelValues("undecoded").Add(float64(undecoded))
}
