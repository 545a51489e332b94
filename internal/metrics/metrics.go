// Package metrics exposes the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recon_analyses_total",
		Help: "Completed contract analyses by outcome.",
	}, []string{"outcome"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recon_analysis_duration_seconds",
		Help:    "Wall time of one full analysis.",
		Buckets: prometheus.DefBuckets,
	})

	SelectorsPerContract = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recon_selectors_per_contract",
		Help:    "Distinct selectors discovered per analyzed contract.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
	})

	SigLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recon_signature_lookups_total",
		Help: "Signature directory lookups by service and result.",
	}, []string{"service", "result"})

	RPCRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recon_rpc_retries_total",
		Help: "Chain RPC retries by method.",
	}, []string{"method"})
)
