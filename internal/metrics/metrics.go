package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for keyword streams
const (
	StreamEstablished = "established"
	StreamDispatchErr = "dispatch_error"
	StreamCompleted   = "completed"
	StreamErrored     = "stream_error"
)

// Metrics groups the Prometheus collectors of the generation pipeline
type Metrics struct {
	KeywordStreams *prometheus.CounterVec
	ActiveStreams  prometheus.Gauge
	Articles       *prometheus.CounterVec
	ParseErrors    prometheus.Counter
	Publishes      *prometheus.CounterVec
	PublishSeconds prometheus.Histogram
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		KeywordStreams: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "article_proxy_keyword_streams_total",
				Help: "Upstream keyword streams by outcome",
			},
			[]string{"outcome"},
		),
		ActiveStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "article_proxy_active_streams",
			Help: "Upstream keyword streams currently being read",
		}),
		Articles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "article_proxy_articles_total",
				Help: "Articles extracted from upstream streams",
			},
			[]string{"format"},
		),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "article_proxy_parse_errors_total",
			Help: "Upstream event lines dropped because they could not be decoded",
		}),
		Publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "article_proxy_publishes_total",
				Help: "CMS publish attempts by status",
			},
			[]string{"status"},
		),
		PublishSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "article_proxy_publish_duration_seconds",
			Help:    "Duration of CMS publish calls",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.KeywordStreams, m.ActiveStreams, m.Articles, m.ParseErrors, m.Publishes, m.PublishSeconds)
	return m
}
