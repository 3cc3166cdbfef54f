// Package metrics exposes viewer counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "xwebview"

// drop reasons
const (
	DropLengthMismatch = "length_mismatch"
	DropSizeMismatch   = "size_mismatch"
	DropDecompress     = "decompress"
	DropNoHeader       = "no_header"
	DropHeaderBounds   = "header_bounds"
)

type Metrics struct {
	registry *prometheus.Registry

	FramesDecoded   prometheus.Counter
	FramesDropped   *prometheus.CounterVec
	ControlMessages *prometheus.CounterVec
	ControlErrors   *prometheus.CounterVec
	InputEvents     *prometheus.CounterVec
	BytesReceived   prometheus.Counter
	Monitors        prometheus.Gauge
	Connected       prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FramesDecoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_decoded_total",
			Help:      "Frames decoded and drawn onto the canvas",
		}),
		FramesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Frames discarded without drawing",
		}, []string{"reason"}),
		ControlMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "control_messages_total",
			Help:      "Control messages received by kind",
		}, []string{"kind"}),
		ControlErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "control_errors_total",
			Help:      "Control messages that could not be applied",
		}, []string{"kind"}),
		InputEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_events_sent_total",
			Help:      "Input commands sent to the source by action",
		}, []string{"action"}),
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "received_bytes_total",
			Help:      "Bytes received from the source",
		}),
		Monitors: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitors",
			Help:      "Monitors announced by the source",
		}),
		Connected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected",
			Help:      "1 while the source connection is open",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
