// Package stats implements the Statistics Listener and StatusCodeListener
// (spec.md §4.8): running counts by operation and status-code class, and
// latency percentiles, both driven off the Event Bus.
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ogload/ogload/cmn"
)

// StatusCodeListener tracks per-exact-status-code and per-class counts, the
// raw counters the Load Test Driver's stopping conditions read (spec.md
// §4.7: "per-status-code counts"). It deliberately doesn't use Prometheus —
// the driver needs a cheap, synchronous read on its hot path, not a scrape
// endpoint.
type StatusCodeListener struct {
	mu          sync.Mutex
	byCode      map[int]int64
	byClass     map[string]int64
	totalCount  int64
	abortsCount int64
}

func NewStatusCodeListener() *StatusCodeListener {
	return &StatusCodeListener{byCode: make(map[int]int64), byClass: make(map[string]int64)}
}

// OnResponse implements bus.Subscriber. resp == nil represents a request
// that never produced an HTTP response at all — a transport-level abort,
// counted separately from any status-code class.
func (l *StatusCodeListener) OnResponse(_ *cmn.Request, resp *cmn.Response) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.totalCount++
	if resp == nil {
		l.abortsCount++
		return nil
	}
	l.byCode[resp.StatusCode]++
	l.byClass[resp.StatusClass()]++
	return nil
}

func (l *StatusCodeListener) Count(statusCode int) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byCode[statusCode]
}

func (l *StatusCodeListener) ClassCount(class string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byClass[class]
}

func (l *StatusCodeListener) Total() int64 { return atomic.LoadInt64(&l.totalCount) }

func (l *StatusCodeListener) Aborts() int64 { return atomic.LoadInt64(&l.abortsCount) }

// StatisticsListener records per-operation request counts and latency
// histograms via Prometheus (spec.md §4.8, "running counts ... latency
// percentiles"). Latency is measured from the request's stamped
// MessageTime (spec.md §3) to the moment the response reaches the bus.
type StatisticsListener struct {
	requestsTotal *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// NewStatisticsListener registers its collectors with reg. A nil reg uses
// prometheus.NewRegistry() internally so callers that only want the Go
// object (e.g. tests) never touch the global default registry.
func NewStatisticsListener(reg prometheus.Registerer) *StatisticsListener {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	l := &StatisticsListener{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ogload_requests_total",
			Help: "Total requests observed on the event bus, by operation and status class.",
		}, []string{"operation", "status_class"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ogload_request_latency_seconds",
			Help:    "Request latency in seconds, by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(l.requestsTotal, l.latency)
	return l
}

func (l *StatisticsListener) OnResponse(req *cmn.Request, resp *cmn.Response) error {
	class := "aborted"
	if resp != nil {
		class = resp.StatusClass()
	}
	l.requestsTotal.WithLabelValues(req.Operation, class).Inc()
	if req.MessageTime > 0 {
		elapsed := time.Since(time.UnixMilli(req.MessageTime))
		l.latency.WithLabelValues(req.Operation).Observe(elapsed.Seconds())
	}
	return nil
}
