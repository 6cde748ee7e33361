package middleware

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 消息处理指标，namespace 固定为 messaging，以 service/topic 维度区分
var (
	processDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "messaging",
			Name:      "process_duration_seconds",
			Help:      "Message process duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "topic"},
	)
	processTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messaging",
			Name:      "process_total",
			Help:      "Total number of processed messages",
		},
		[]string{"service", "topic", "status"},
	)
	messageSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "messaging",
			Name:      "message_size_bytes",
			Help:      "Message payload size in bytes",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		},
		[]string{"service", "topic"},
	)
)

// NewMetricsMiddleware 创建指标收集中间件
// 自动收集消息处理时长、计数与消息大小
func NewMetricsMiddleware(serviceName string) message.HandlerMiddleware {
	return func(next message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			topic := msg.Metadata.Get("topic")
			messageSize.WithLabelValues(serviceName, topic).Observe(float64(len(msg.Payload)))

			start := time.Now()
			out, err := next(msg)
			processDuration.WithLabelValues(serviceName, topic).Observe(time.Since(start).Seconds())

			status := "success"
			if err != nil {
				status = "error"
			}
			processTotal.WithLabelValues(serviceName, topic, status).Inc()

			return out, err
		}
	}
}
