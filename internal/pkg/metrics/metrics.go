package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 参加リクエストの総数（status: joined, already_joined, event_full, event_past, conflict, error）
	JoinAttemptsTotal *prometheus.CounterVec

	// 投稿されたチャットメッセージの総数
	ChatMessagesTotal prometheus.Counter

	// トピック種別ごとのアクティブな購読数（kind: events, event, chat）
	ActiveSubscriptions *prometheus.GaugeVec

	// 楽観的ロックの競合で再試行が尽きた回数
	TxConflictsTotal prometheus.Counter
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		JoinAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "join_attempts_total",
				Help: "Total number of event join attempts",
			},
			[]string{"status"},
		),
		ChatMessagesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chat_messages_total",
				Help: "Total number of chat messages posted",
			},
		),
		ActiveSubscriptions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "active_subscriptions",
				Help: "Current number of active topic subscriptions",
			},
			[]string{"kind"},
		),
		TxConflictsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "store_tx_conflicts_total",
				Help: "Number of transactions aborted after exhausting optimistic retries",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.JoinAttemptsTotal,
		m.ChatMessagesTotal,
		m.ActiveSubscriptions,
		m.TxConflictsTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
