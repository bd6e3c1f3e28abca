package daemon

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/palmtools/palminfo/pkg/calibration"
	"github.com/palmtools/palminfo/pkg/events"
)

type metrics struct {
	reads         *prometheus.CounterVec
	missingFields *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		reads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "palminfo_reads_total",
			Help: "Calibration reads by source path and result.",
		}, []string{"path", "result"}),
		missingFields: f.NewCounterVec(prometheus.CounterOpts{
			Name: "palminfo_missing_fields_total",
			Help: "Fields that were NaN after a successful read.",
		}, []string{"field"}),
	}
}

// observe records a read in the metrics and publishes it to event
// subscribers.
func (m *metrics) observe(path calibration.Path, result string, raw calibration.RawFields) {
	m.reads.WithLabelValues(string(path), result).Inc()

	ev := events.CalibrationReadEvent{
		Path:   string(path),
		Result: result,
		Ts:     time.Now().Unix(),
	}
	if result == resultOK {
		for _, name := range calibration.FieldNames {
			if v, _ := raw.Get(name); math.IsNaN(v) {
				m.missingFields.WithLabelValues(name).Inc()
				ev.Missing = append(ev.Missing, name)
			}
		}
	}
	hub.Publish(events.CalibrationRead, ev)
}
