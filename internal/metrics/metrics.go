package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	PredictorText  = "text"
	PredictorImage = "image"

	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the collectors for a single invocation. Each process gets
// its own registry; the result is flushed once via WriteTextfile.
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	riskLevels  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartrisk_predictions_total",
			Help: "Predictions attempted, by predictor and outcome.",
		}, []string{"predictor", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heartrisk_inference_duration_seconds",
			Help:    "Wall time spent in a predictor.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"predictor"}),
		riskLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartrisk_risk_level_total",
			Help: "Final risk decisions, by level.",
		}, []string{"level"}),
	}
	m.registry.MustRegister(m.predictions, m.duration, m.riskLevels)
	return m
}

func (m *Metrics) ObservePrediction(predictor string, ok bool, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeError
	}
	m.predictions.WithLabelValues(predictor, outcome).Inc()
	m.duration.WithLabelValues(predictor).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveDecision(level string) {
	m.riskLevels.WithLabelValues(level).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the registry in the node exporter textfile format.
// An empty path disables it.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
