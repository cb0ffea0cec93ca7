package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequestsTotal) }

const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Registration cache lookups by result.",
	},
	[]string{"cache", "result"}, // cache: registration|registration_list
)

func IncCacheRequest(cacheName, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}
