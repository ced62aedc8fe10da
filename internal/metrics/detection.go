package metrics

import "github.com/prometheus/client_golang/prometheus"

// Detection and calibration Prometheus metrics.
var (
	DetectionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simdex",
			Name:      "detection_requests_total",
			Help:      "Total number of detection requests",
		},
		[]string{"mode", "status"}, // mode: "corpus" / "cross_user"
	)

	DetectionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "simdex",
			Name:      "detection_duration_seconds",
			Help:      "Detection request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"mode"},
	)

	DetectionMatches = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "simdex",
			Name:      "detection_matches",
			Help:      "Number of matches per detection request",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"mode"},
	)

	FeedbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simdex",
			Name:      "feedback_total",
			Help:      "Total feedback entries by type",
		},
		[]string{"type"}, // "false_positive" / "confirmed"
	)

	CalibrationEffectiveThreshold = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "simdex",
			Name:      "calibration_effective_threshold",
			Help:      "Current effective detection threshold (0-100 scale)",
		},
	)

	CalibrationLayerWeight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "simdex",
			Name:      "calibration_layer_weight",
			Help:      "Current detection layer weights",
		},
		[]string{"layer"},
	)
)

var detMetricsRegistered bool

// RegisterDetectionMetrics registers detection and calibration metrics.
// Must be called once from main.
func RegisterDetectionMetrics() {
	if detMetricsRegistered {
		return
	}
	prometheus.MustRegister(DetectionRequestsTotal)
	prometheus.MustRegister(DetectionDuration)
	prometheus.MustRegister(DetectionMatches)
	prometheus.MustRegister(FeedbackTotal)
	prometheus.MustRegister(CalibrationEffectiveThreshold)
	prometheus.MustRegister(CalibrationLayerWeight)
	detMetricsRegistered = true
}
