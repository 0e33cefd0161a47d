// Package metrics 论坛核心的 Prometheus 指标，由 /metrics 暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签取值
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
	ResultDeduped  = "deduped"

	ResultDeadLettered = "dead_lettered"
	ResultRedelivered  = "redelivered"
)

// 互动丢弃原因
const (
	ReasonStoreError = "store_error"
	ReasonNotFound   = "not_found"
	ReasonMalformed  = "malformed"
)

var (
	// CounterIncrements 计数器自增次数
	// Labels: field (likes, view_count, reply_count, reply_likes), result (ok, not_found, error, deduped)
	CounterIncrements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forum",
		Name:      "counter_increments_total",
		Help:      "Total counter increment attempts by field and result",
	}, []string{"field", "result"})

	// EngagementDropped 被吸收或丢弃的互动（点赞 / 浏览）
	// Labels: kind (like, view), reason
	EngagementDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forum",
		Name:      "engagement_dropped_total",
		Help:      "Total engagement events dropped after failing to apply",
	}, []string{"kind", "reason"})

	// ConsumerMessages Kafka 消息的处理结果
	// Labels: topic, result (ok, dead_lettered, redelivered)
	ConsumerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forum",
		Name:      "consumer_messages_total",
		Help:      "Total consumed Kafka messages by topic and outcome",
	}, []string{"topic", "result"})

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "forum",
		Name:      "posts_created_total",
		Help:      "Total posts created",
	})

	RepliesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "forum",
		Name:      "replies_created_total",
		Help:      "Total replies created",
	})
)
