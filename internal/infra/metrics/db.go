package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(dbPoolStats, dbPoolEmptyAcquires) }

var (
	dbPoolStats = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_stats",
			Help: "Connections in the registrations database pool by state.",
		},
		[]string{"state"}, // total, idle, in_use, max
	)
	dbPoolEmptyAcquires = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_pool_empty_acquires",
			Help: "Cumulative acquires that had to wait for a connection.",
		},
	)
)

// PoolStats is the subset of pool statistics that is exported.
type PoolStats struct {
	Total, Idle, InUse, Max int32
	EmptyAcquires           int64
}

func SetDBPoolStats(s PoolStats) {
	dbPoolStats.WithLabelValues("total").Set(float64(s.Total))
	dbPoolStats.WithLabelValues("idle").Set(float64(s.Idle))
	dbPoolStats.WithLabelValues("in_use").Set(float64(s.InUse))
	dbPoolStats.WithLabelValues("max").Set(float64(s.Max))
	dbPoolEmptyAcquires.Set(float64(s.EmptyAcquires))
}
