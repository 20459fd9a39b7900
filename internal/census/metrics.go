package census

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusProcessed = "processed"
	statusSkipped   = "skipped"
	statusFailed    = "failed"
)

// Metrics counts census activity on a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	reactions *prometheus.CounterVec
	models    *prometheus.CounterVec
	skipped   prometheus.Counter
}

// NewMetrics creates the census counters.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		reactions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ratelaw",
			Name:      "reactions_classified_total",
			Help:      "Reactions classified, by mechanism label.",
		}, []string{"label"}),
		models: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ratelaw",
			Name:      "models_total",
			Help:      "Models seen, by outcome (processed, skipped, failed).",
		}, []string{"status"}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ratelaw",
			Name:      "reactions_skipped_total",
			Help:      "Reactions without a rate law.",
		}),
	}
}

// Registry exposes the registry the counters live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the counters in the text exposition format, for the
// node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
