// Package metrics exposes prometheus counters and gauges for the pub-rand
// registry and finality aggregator.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// RegistryMetrics tracks pub-rand commit activity.
type RegistryMetrics struct {
	CommitsTotal        *prometheus.CounterVec
	DuplicateCommits    *prometheus.CounterVec
	RejectedCommits     *prometheus.CounterVec
	LastCommittedEpoch  *prometheus.GaugeVec
}

var (
	registryOnce     sync.Once
	registryInstance *RegistryMetrics
)

// NewRegistryMetrics returns the process-wide RegistryMetrics, registering
// its collectors with the default prometheus registry exactly once.
func NewRegistryMetrics() *RegistryMetrics {
	registryOnce.Do(func() {
		registryInstance = &RegistryMetrics{
			CommitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pubrand_commits_total",
				Help: "Total number of accepted pub-rand batch commits",
			}, []string{"fp_key"}),
			DuplicateCommits: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pubrand_duplicate_commits_total",
				Help: "Total number of commits rejected as duplicate batches",
			}, []string{"fp_key"}),
			RejectedCommits: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pubrand_rejected_commits_total",
				Help: "Total number of commits rejected for any other reason",
			}, []string{"fp_key", "reason"}),
			LastCommittedEpoch: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "pubrand_last_committed_epoch",
				Help: "Most recently committed epoch per finality provider",
			}, []string{"fp_key"}),
		}

		prometheus.MustRegister(registryInstance.CommitsTotal)
		prometheus.MustRegister(registryInstance.DuplicateCommits)
		prometheus.MustRegister(registryInstance.RejectedCommits)
		prometheus.MustRegister(registryInstance.LastCommittedEpoch)
	})

	return registryInstance
}

// AggregatorMetrics tracks finality verification activity.
type AggregatorMetrics struct {
	VerificationsTotal   *prometheus.CounterVec
	QuorumReachedTotal    prometheus.Counter
	SubmissionsSkipped   *prometheus.CounterVec
	LastAccumulatedPower prometheus.Gauge
}

var (
	aggregatorOnce     sync.Once
	aggregatorInstance *AggregatorMetrics
)

// NewAggregatorMetrics returns the process-wide AggregatorMetrics,
// registering its collectors with the default prometheus registry exactly
// once.
func NewAggregatorMetrics() *AggregatorMetrics {
	aggregatorOnce.Do(func() {
		aggregatorInstance = &AggregatorMetrics{
			VerificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "finality_verifications_total",
				Help: "Total number of VerifyEots calls by result",
			}, []string{"result"}),
			QuorumReachedTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "finality_quorum_reached_total",
				Help: "Total number of VerifyEots calls that reached quorum",
			}),
			SubmissionsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "finality_submissions_skipped_total",
				Help: "Total number of submissions skipped for an invalid signature",
			}, []string{"fp_key"}),
			LastAccumulatedPower: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "finality_last_accumulated_power",
				Help: "Accumulated voting power from the most recent VerifyEots call",
			}),
		}

		prometheus.MustRegister(aggregatorInstance.VerificationsTotal)
		prometheus.MustRegister(aggregatorInstance.QuorumReachedTotal)
		prometheus.MustRegister(aggregatorInstance.SubmissionsSkipped)
		prometheus.MustRegister(aggregatorInstance.LastAccumulatedPower)
	})

	return aggregatorInstance
}
