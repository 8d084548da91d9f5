// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// エンタイトルメントサービスと面接パイプラインの両方から利用される。
type Collector struct {
	purchases         prometheus.Counter
	purchaseAmount    prometheus.Counter
	sessionsCreated   *prometheus.CounterVec
	attemptsConsumed  prometheus.Counter
	attemptsExhausted prometheus.Counter
	turnsProcessed    prometheus.Counter
	turnLatency       prometheus.Histogram
	httpStatus        *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		purchases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intervue_purchases_total",
			Help: "パック購入の合計数",
		}),
		purchaseAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intervue_purchase_amount_total",
			Help: "パック購入金額の合計（通貨最小単位）",
		}),
		sessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intervue_sessions_created_total",
			Help: "作成された面接セッションの合計数",
		}, []string{"practice"}),
		attemptsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intervue_attempts_consumed_total",
			Help: "消費された受験回数の合計",
		}),
		attemptsExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intervue_attempts_exhausted_total",
			Help: "受験回数超過で拒否された消費リクエストの合計数",
		}),
		turnsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intervue_turns_processed_total",
			Help: "処理された面接ターンの合計数",
		}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "intervue_turn_latency_seconds",
			Help:    "面接ターン処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intervue_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.purchases,
		c.purchaseAmount,
		c.sessionsCreated,
		c.attemptsConsumed,
		c.attemptsExhausted,
		c.turnsProcessed,
		c.turnLatency,
		c.httpStatus,
	)

	return c
}

// RecordPurchase はパック購入を記録する。
func (c *Collector) RecordPurchase(amount int) {
	c.purchases.Inc()
	c.purchaseAmount.Add(float64(amount))
}

// RecordSessionCreated は面接セッション作成を記録する。
func (c *Collector) RecordSessionCreated(isPractice bool) {
	c.sessionsCreated.WithLabelValues(strconv.FormatBool(isPractice)).Inc()
}

// RecordAttemptConsumed は受験回数の消費を記録する。
func (c *Collector) RecordAttemptConsumed() {
	c.attemptsConsumed.Inc()
}

// RecordAttemptsExhausted は受験回数超過による拒否を記録する。
func (c *Collector) RecordAttemptsExhausted() {
	c.attemptsExhausted.Inc()
}

// RecordTurnProcessed は面接ターン処理の完了とレイテンシを記録する。
func (c *Collector) RecordTurnProcessed(duration time.Duration) {
	c.turnsProcessed.Inc()
	c.turnLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
