package coordinator

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	histogramWriteTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "planner",
			Subsystem: "sync",
			Name:      "histogram_write_time_seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"error"},
	)
	counterCoalescedEdits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "sync",
		Name:      "coalesced_edits_total",
		Help:      "Edits folded into a later debounced write.",
	})
	counterCancelledWrites = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "sync",
		Name:      "cancelled_writes_total",
		Help:      "Pending debounced writes dropped because a foreign snapshot arrived.",
	})
	counterSnapshots = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planner",
		Subsystem: "sync",
		Name:      "snapshots_total",
	}, []string{"outcome"})
)

func observeWrite(elapsed time.Duration, err bool) {
	histogramWriteTime.
		WithLabelValues(strconv.FormatBool(err)).
		Observe(elapsed.Seconds())
}
