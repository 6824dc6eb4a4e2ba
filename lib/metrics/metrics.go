package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ContextsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glcaps_contexts_created_total",
		Help: "Total number of GL contexts successfully detected and registered",
	})
	ContextsDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glcaps_contexts_destroyed_total",
		Help: "Total number of GL contexts destroyed",
	})
	DetectionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glcaps_detection_failures_total",
		Help: "Total number of context constructions aborted by driver detection errors",
	})
	ExtensionQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glcaps_extension_queries_total",
		Help: "Total number of extension support queries, by outcome",
	}, []string{"outcome"})
	WorkaroundsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "glcaps_workarounds_active",
		Help: "Number of driver workarounds active on the most recently created context",
	})
)

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
