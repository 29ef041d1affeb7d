package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "folio"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pagesLoaded       *prom.GaugeVec
	draftsSkipped     *prom.CounterVec
	metadataErrors    *prom.CounterVec
	markerFailures    *prom.CounterVec
	transformDuration prom.Histogram
	syncDuration      prom.Histogram
	syncIndexed       prom.Counter
	syncRemoved       prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pagesLoaded: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_loaded",
			Help:      "Pages returned by the most recent load of a version/locale scope",
		}, []string{"version", "locale"}),
		draftsSkipped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_skipped_total",
			Help:      "Draft documents skipped during loads",
		}, []string{"version", "locale"}),
		metadataErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_errors_total",
			Help:      "Documents skipped because their frontmatter could not be parsed",
		}, []string{"version", "locale"}),
		markerFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "marker_failures_total",
			Help:      "Embedded markers that degraded to empty or inert output",
		}, []string{"kind"}),
		transformDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "transform_duration_seconds",
			Help:      "Duration of page body transformations",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}),
		syncDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "index_sync_duration_seconds",
			Help:      "Duration of full search index synchronisations",
			Buckets:   prom.DefBuckets,
		}),
		syncIndexed: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "index_pages_indexed_total",
			Help:      "Pages written to the search index",
		}),
		syncRemoved: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "index_pages_removed_total",
			Help:      "Stale pages removed from the search index",
		}),
	}
	reg.MustRegister(
		pr.pagesLoaded,
		pr.draftsSkipped,
		pr.metadataErrors,
		pr.markerFailures,
		pr.transformDuration,
		pr.syncDuration,
		pr.syncIndexed,
		pr.syncRemoved,
	)
	return pr
}

func (p *PrometheusRecorder) ObservePagesLoaded(version, locale string, n int) {
	p.pagesLoaded.WithLabelValues(version, locale).Set(float64(n))
}

func (p *PrometheusRecorder) IncDraftSkipped(version, locale string) {
	p.draftsSkipped.WithLabelValues(version, locale).Inc()
}

func (p *PrometheusRecorder) IncMetadataError(version, locale string) {
	p.metadataErrors.WithLabelValues(version, locale).Inc()
}

func (p *PrometheusRecorder) IncMarkerFailure(kind string) {
	p.markerFailures.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) ObserveTransformDuration(d time.Duration) {
	p.transformDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveIndexSync(d time.Duration, indexed, removed int) {
	p.syncDuration.Observe(d.Seconds())
	p.syncIndexed.Add(float64(indexed))
	p.syncRemoved.Add(float64(removed))
}

// HTTPHandler serves the metrics registered on reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
