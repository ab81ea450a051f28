// Package metrics 提供 Prometheus 指标采集
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace 指标命名空间
const Namespace = "roundtable"

// Collector 应用指标集合，使用独立的 Registry
// 所有记录方法对 nil 接收者安全
type Collector struct {
	registry *prometheus.Registry

	// HTTP 指标
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// 版本管理指标
	SnapshotsCreated *prometheus.CounterVec
	Restores         *prometheus.CounterVec
	BranchesCreated  prometheus.Counter
	BranchMerges     prometheus.Counter
	MergedMessages   *prometheus.CounterVec

	// 分支缓存指标
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// 相似度索引指标
	TrainDuration     prometheus.Histogram
	IndexDocuments    prometheus.Gauge
	IndexVocabulary   prometheus.Gauge
	DiscussionMerges  prometheus.Counter
	SimilarityQueries prometheus.Counter
}

// NewCollector 创建指标集合
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SnapshotsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "snapshots_created_total",
				Help:      "Total number of snapshots created",
			},
			[]string{"type"},
		),
		Restores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "restores_total",
				Help:      "Total number of restores",
			},
			[]string{"mode"},
		),
		BranchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "branches_created_total",
			Help:      "Total number of branches created",
		}),
		BranchMerges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "branch_merges_total",
			Help:      "Total number of branch merges",
		}),
		MergedMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "merged_messages_total",
				Help:      "Total number of messages appended by merges and restores",
			},
			[]string{"source"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "branch_cache_hits_total",
			Help:      "Total number of branch cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "branch_cache_misses_total",
			Help:      "Total number of branch cache misses",
		}),
		TrainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "similarity_train_duration_seconds",
			Help:      "Similarity index training duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		IndexDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "similarity_documents",
			Help:      "Number of documents in the last training corpus",
		}),
		IndexVocabulary: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "similarity_vocabulary_size",
			Help:      "Number of terms in the IDF table",
		}),
		DiscussionMerges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "discussion_merges_total",
			Help:      "Total number of discussion merges",
		}),
		SimilarityQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "similarity_queries_total",
			Help:      "Total number of find-similar queries",
		}),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.SnapshotsCreated,
		c.Restores,
		c.BranchesCreated,
		c.BranchMerges,
		c.MergedMessages,
		c.CacheHits,
		c.CacheMisses,
		c.TrainDuration,
		c.IndexDocuments,
		c.IndexVocabulary,
		c.DiscussionMerges,
		c.SimilarityQueries,
	)
	return c
}

// Registry 返回指标注册表
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler /metrics 处理器
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// GinMiddleware 记录请求数和耗时，路由使用注册的模板而非实际路径
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.HTTPRequests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.HTTPDuration.WithLabelValues(ctx.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// SnapshotCreated 记录快照创建
func (c *Collector) SnapshotCreated(snapshotType string) {
	if c == nil {
		return
	}
	c.SnapshotsCreated.WithLabelValues(snapshotType).Inc()
}

// Restored 记录一次恢复及追加的消息数
func (c *Collector) Restored(mode string, added int) {
	if c == nil {
		return
	}
	c.Restores.WithLabelValues(mode).Inc()
	c.MergedMessages.WithLabelValues("restore").Add(float64(added))
}

// BranchCreated 记录分支创建
func (c *Collector) BranchCreated() {
	if c == nil {
		return
	}
	c.BranchesCreated.Inc()
}

// BranchMerged 记录分支合并
func (c *Collector) BranchMerged(merged int) {
	if c == nil {
		return
	}
	c.BranchMerges.Inc()
	c.MergedMessages.WithLabelValues("branch").Add(float64(merged))
}

// BranchCache 记录分支缓存命中情况
func (c *Collector) BranchCache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheHits.Inc()
	} else {
		c.CacheMisses.Inc()
	}
}

// Trained 记录一次训练
func (c *Collector) Trained(d time.Duration, documents, vocabulary int) {
	if c == nil {
		return
	}
	c.TrainDuration.Observe(d.Seconds())
	c.IndexDocuments.Set(float64(documents))
	c.IndexVocabulary.Set(float64(vocabulary))
}

// DiscussionsMerged 记录讨论合并
func (c *Collector) DiscussionsMerged(messages int) {
	if c == nil {
		return
	}
	c.DiscussionMerges.Inc()
	c.MergedMessages.WithLabelValues("discussion").Add(float64(messages))
}

// SimilarityQueried 记录相似检索
func (c *Collector) SimilarityQueried() {
	if c == nil {
		return
	}
	c.SimilarityQueries.Inc()
}
