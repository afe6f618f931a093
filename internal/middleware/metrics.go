package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"method", "path"},
	)
)

// リクエスト数とレイテンシを記録する。
// pathはルート定義（/tyres/:id）でラベル化し、カーディナリティを抑える。
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := float64(time.Since(start).Milliseconds())

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			httpRequests.WithLabelValues(c.Request().Method, path,
				strconv.Itoa(c.Response().Status)).Inc()
			httpDuration.WithLabelValues(c.Request().Method, path).Observe(duration)

			return err
		}
	}
}
