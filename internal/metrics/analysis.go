package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Analysis Prometheus metrics.
var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "audimatch",
			Name:      "analyses_total",
			Help:      "Total number of analyzed texts",
		},
		[]string{"format"}, // "text" / "html"
	)

	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "audimatch",
			Name:      "generations_total",
			Help:      "Total article generation requests",
		},
		[]string{"outcome"}, // "ok" / "not_found" / "error"
	)

	HeatScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "audimatch",
			Name:      "heat_score",
			Help:      "Distribution of heat scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	CatalogSegments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "audimatch",
			Name:      "catalog_segments",
			Help:      "Number of audience segments in the loaded catalog",
		},
	)
)

var registerAnalysis sync.Once

// RegisterAnalysisMetrics registers the analysis metrics with the default
// registry. Later calls do nothing.
func RegisterAnalysisMetrics() {
	registerAnalysis.Do(func() {
		prometheus.MustRegister(AnalysesTotal)
		prometheus.MustRegister(GenerationsTotal)
		prometheus.MustRegister(HeatScore)
		prometheus.MustRegister(CatalogSegments)
	})
}
