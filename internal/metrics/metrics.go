// Package metrics provides Prometheus metrics collection for the prediction
// demo service. It defines the request, inference and model-load metrics that
// are exposed via the Prometheus metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   prometheus.Counter   // Total prediction page requests served
	RequestDuration prometheus.Histogram // End-to-end request handling duration

	// Inference metrics
	PredictionsTotal   prometheus.Counter   // Total predictions computed
	PredictionFailures prometheus.Counter   // Total failed prediction calls
	PredictionValues   prometheus.Histogram // Distribution of predicted values
	SquaredErrors      prometheus.Histogram // Squared error against the synthetic reference

	// Model metrics
	ModelLoadsTotal   prometheus.Counter   // Total model loads from disk
	ModelLoadDuration prometheus.Histogram // Model parse duration in seconds
	ModelAge          prometheus.Gauge     // Age of the model file in seconds at last load

	// System metrics
	ErrorsTotal prometheus.Counter // Total errors surfaced to clients
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		RequestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_requests_total",
			Help: "Total prediction page requests served",
		}),
		RequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_request_duration_seconds",
			Help:    "End-to-end request handling duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total predictions computed",
		}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_failures_total",
			Help: "Total failed prediction calls",
		}),
		PredictionValues: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_values",
			Help:    "Distribution of predicted values",
			Buckets: prometheus.LinearBuckets(0, 2.5, 13),
		}),
		SquaredErrors: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_squared_errors",
			Help:    "Squared error against the synthetic reference value",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		ModelLoadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Total model loads from disk",
		}),
		ModelLoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "model_load_duration_seconds",
			Help:    "Model parse duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		ModelAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "model_age_seconds",
			Help: "Age of the model file in seconds at last load",
		}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total errors surfaced to clients",
		}),
	}
}
