package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query kinds used as the "kind" label.
const (
	KindPoint   = "point"
	KindDMS     = "dms"
	KindAddress = "address"
	KindScatter = "scatter"
)

// Query outcomes used as the "status" label.
const (
	StatusOK         = "ok"
	StatusOutOfRange = "out_of_range"
	StatusError      = "error"
)

type Metrics struct {
	Queries       *prometheus.CounterVec
	QuerySeconds  *prometheus.HistogramVec
	GridLoad      prometheus.Histogram
	GridSamples   *prometheus.GaugeVec
	GeocodeErrors prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Queries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geoheight_queries_total",
			Help: "Total number of height queries by kind and outcome.",
		}, []string{"kind", "status"}),
		QuerySeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geoheight_query_duration_seconds",
			Help:    "Duration of height queries, geocoding included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		GridLoad: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "geoheight_grid_load_seconds",
			Help:    "Time spent parsing the height grid.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		GridSamples: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "geoheight_grid_samples",
			Help: "Number of grid samples by state (valid, nodata).",
		}, []string{"state"}),
		GeocodeErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geoheight_geocoding_errors_total",
			Help: "Total number of errors received from the geocoding provider.",
		}),
	}
}
