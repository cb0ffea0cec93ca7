package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once       sync.Once
	collectors []prometheus.Collector
)

// register is called from init() in each metrics file.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// MustRegister adds every collector to the default registry, once.
func MustRegister() {
	once.Do(func() { MustRegisterTo(prometheus.DefaultRegisterer) })
}

// MustRegisterTo adds every collector to r. It panics on duplicates, so call
// it once per registry.
func MustRegisterTo(r prometheus.Registerer) {
	if len(collectors) > 0 {
		r.MustRegister(collectors...)
	}
}
