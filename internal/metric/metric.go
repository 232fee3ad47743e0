// Package metric 定義 Prometheus 指標與 Gin 收集中間件
package metric

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP 請求總數",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP 請求處理時間（秒）",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	roomsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafia_rooms_created_total",
			Help: "已建立的房間數",
		},
		[]string{"type"},
	)

	roomJoinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafia_room_joins_total",
			Help: "加入房間的請求數，依結果分類",
		},
		[]string{"result"},
	)

	lobbyConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mafia_lobby_connections",
			Help: "目前的大廳 WebSocket 連線數",
		},
	)
)

// RecordHTTPMetrics 記錄一次 HTTP 請求
func RecordHTTPMetrics(method, endpoint string, status int, duration time.Duration) {
	strStatus := strconv.Itoa(status)

	httpRequestsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, strStatus).Observe(duration.Seconds())
}

func RecordRoomCreated(roomType string) {
	roomsCreatedTotal.WithLabelValues(roomType).Inc()
}

func RecordJoin(result string) {
	roomJoinsTotal.WithLabelValues(result).Inc()
}

func IncLobbyConnections() {
	lobbyConnections.Inc()
}

func DecLobbyConnections() {
	lobbyConnections.Dec()
}

// PrometheusMiddleware 收集每個請求的計數與延遲，endpoint 使用路由樣板避免標籤爆量
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RecordHTTPMetrics(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}

// Handler 回傳 /metrics 端點
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
