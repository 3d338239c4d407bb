package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	CallTurns       *prometheus.CounterVec
	SlotFills       *prometheus.CounterVec
	LeadsRecorded   *prometheus.CounterVec
	LLMLatency      prometheus.Histogram
	LLMErrors       *prometheus.CounterVec
	PersistErrors   *prometheus.CounterVec
	DecodeFallbacks prometheus.Counter
	MonitorClients  prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CallTurns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "call_turns_total",
			Help:      "Processed webhook turns by outcome.",
		}, []string{"outcome"}),
		SlotFills: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_fills_total",
			Help:      "Slots filled from caller speech, by slot.",
		}, []string{"slot"}),
		LeadsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_recorded_total",
			Help:      "Leads written at call close, by qualification.",
		}, []string{"qualified"}),
		LLMLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_seconds",
			Help:      "Latency of language-model completion calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 4, 6, 8, 12},
		}),
		LLMErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_errors_total",
			Help:      "Language-model failures by class.",
		}, []string{"class"}),
		PersistErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Best-effort persistence failures by record type.",
		}, []string{"record"}),
		DecodeFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_decode_fallbacks_total",
			Help:      "Inbound state tokens that failed to decode and reset the session.",
		}),
		MonitorClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitor_clients",
			Help:      "Connected live call-monitor websocket clients.",
		}),
	}
}

func (m *Metrics) ObserveLLMLatency(d time.Duration) {
	m.LLMLatency.Observe(d.Seconds())
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
