package service

import "github.com/prometheus/client_golang/prometheus"

var recycleOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "recycle_bin_operations_total", Help: "Recycle bin archive/restore/purge operations"},
	[]string{"op", "entity"},
)

func init() { prometheus.MustRegister(recycleOps) }
