package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_submits_total",
			Help: "Search submissions by outcome (executed, duplicate, failed)",
		},
		[]string{"outcome"},
	)

	stockDeltasApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_stock_deltas_applied_total",
			Help: "Stock deltas that matched at least one displayed product",
		},
	)

	stockDeltasDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_stock_deltas_dropped_total",
			Help: "Stock deltas for products not present in any session",
		},
	)
)
