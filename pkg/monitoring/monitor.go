package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 评估器调用量与耗时，kind区分evaluate/pushback/example
	EvaluationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_evaluations_total",
			Help: "Total number of AI evaluator calls",
		},
		[]string{"kind", "result"},
	)

	EvaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_evaluation_duration_seconds",
			Help:    "Duration of AI evaluator calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30},
		},
		[]string{"kind"},
	)

	RatingChangeHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rating_change",
			Help:    "Distribution of per-attempt rating deltas",
			Buckets: []float64{-60, -40, -20, -10, 0, 10, 20, 40, 60},
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(EvaluationCounter)
	prometheus.MustRegister(EvaluationDuration)
	prometheus.MustRegister(RatingChangeHistogram)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

// ObserveEvaluation 记录一次评估器调用
func ObserveEvaluation(kind string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EvaluationCounter.WithLabelValues(kind, result).Inc()
	EvaluationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// ObserveRatingChange 记录一次评分变动量
func ObserveRatingChange(delta int) {
	RatingChangeHistogram.Observe(float64(delta))
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
