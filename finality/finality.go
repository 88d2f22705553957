// Package finality implements the finality aggregator: given a set of EOTS
// submissions over a chain's output root at some block, it checks each
// submission's pub-rand membership and Schnorr signature, accumulates
// voting power from an oracle, and reports whether a two-thirds quorum of
// valid signatures was reached.
package finality

import (
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/babylonchain/finality-verifier/crypto/schnorr"
	"github.com/babylonchain/finality-verifier/metrics"
	"github.com/babylonchain/finality-verifier/pubrand"
)

// Oracle is the external voting-power source the aggregator consults. All
// three methods are pure snapshot reads from the aggregator's perspective;
// it never mutates oracle state.
type Oracle interface {
	CurrentL2Block() uint64
	TotalVotingPower(chainID uint32, atBlock uint64) uint64
	VotingPowerFor(chainID uint32, atBlock uint64, fpKey pubrand.FPKey) uint64
}

// Registry is the subset of *pubrand.Registry the aggregator depends on.
type Registry interface {
	VerifyPubRandAtBlock(epoch uint64, fpKey pubrand.FPKey, atBlock uint64, pubRand [32]byte, proof [][32]byte) bool
}

// Config pins the epoch boundaries, mirroring pubrand.Config so the two
// packages agree on where an epoch starts and ends without one importing
// the other's concrete type.
type Config struct {
	ChainID    uint32
	StartBlock uint64
	EpochSize  uint64
}

// FromBlock returns the first block number covered by epoch.
func (c Config) FromBlock(epoch uint64) uint64 {
	return c.StartBlock + (epoch-1)*c.EpochSize
}

// ToBlock returns the last block number covered by epoch.
func (c Config) ToBlock(epoch uint64) uint64 {
	return c.StartBlock + epoch*c.EpochSize - 1
}

// Submission is a single finality provider's EOTS signature over an
// output root, plus the Merkle proof tying its claimed pub-rand to the
// FP's committed batch.
type Submission struct {
	FPKey   pubrand.FPKey
	PubRand [32]byte
	Proof   [][32]byte

	Parity schnorr.Parity
	Px     [32]byte
	E      [32]byte
	Sig    [32]byte
}

// Outcome classifies what happened to a single submission during
// VerifyEotsDetailed.
type Outcome int

const (
	Verified Outcome = iota
	Skipped
)

// SubmissionResult is the per-submission detail VerifyEotsDetailed reports,
// separating voting-power accumulation from the final threshold check the
// way the teacher's calculateValidPower/getFinalityProvidersWithPower split
// does.
type SubmissionResult struct {
	FPKey   pubrand.FPKey
	Outcome Outcome
	Power   uint64
}

// Result is VerifyEotsDetailed's full return value.
type Result struct {
	Submissions []SubmissionResult
	Accumulated uint64
	Threshold   uint64
	Quorum      bool
}

// Aggregator ties together a Registry and an Oracle to verify finality
// submissions for a configured chain.
type Aggregator struct {
	cfg      Config
	registry Registry
	oracle   Oracle
	log      *zap.SugaredLogger

	metrics  *metrics.AggregatorMetrics
	activity *metrics.ActivityTracker
}

// NewAggregator constructs an Aggregator over registry and oracle.
func NewAggregator(cfg Config, registry Registry, oracle Oracle, log *zap.SugaredLogger) *Aggregator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Aggregator{cfg: cfg, registry: registry, oracle: oracle, log: log}
}

// SetMetrics attaches an AggregatorMetrics instance; VerifyEotsDetailed
// records against it when set. Nil is safe and disables recording.
func (a *Aggregator) SetMetrics(m *metrics.AggregatorMetrics) {
	a.metrics = m
}

// SetActivityTracker attaches an ActivityTracker; VerifyEotsDetailed
// records each verified submission's timestamp against it when set.
func (a *Aggregator) SetActivityTracker(t *metrics.ActivityTracker) {
	a.activity = t
}

// VerifyEots reports whether submissions reach a two-thirds voting-power
// quorum over outputRoot at atBlock within epoch. It is implemented in
// terms of VerifyEotsDetailed.
func (a *Aggregator) VerifyEots(epoch, atBlock uint64, outputRoot [32]byte, submissions []Submission) (bool, error) {
	res, err := a.VerifyEotsDetailed(epoch, atBlock, outputRoot, submissions)
	if err != nil {
		return false, err
	}
	return res.Quorum, nil
}

// VerifyEotsDetailed is the supplemental per-submission view: it returns
// which submissions verified, which were skipped, the accumulated power,
// and the threshold, instead of collapsing straight to a boolean.
func (a *Aggregator) VerifyEotsDetailed(epoch, atBlock uint64, outputRoot [32]byte, submissions []Submission) (Result, error) {
	from, to := a.cfg.FromBlock(epoch), a.cfg.ToBlock(epoch)
	if atBlock < from || atBlock > to {
		a.recordVerification("invalid_block_range")
		return Result{}, ErrInvalidBlockRange
	}
	if len(submissions) == 0 {
		a.recordVerification("data_empty")
		return Result{}, ErrDataEmpty
	}

	threshold := a.oracle.TotalVotingPower(a.cfg.ChainID, atBlock) * 2 / 3

	res := Result{Threshold: threshold}
	var accumulated uint64

	for _, sub := range submissions {
		if !a.registry.VerifyPubRandAtBlock(epoch, sub.FPKey, atBlock, sub.PubRand, sub.Proof) {
			a.recordVerification("pub_rand_mismatch")
			return Result{}, ErrPubRandMismatch
		}

		ok, err := schnorr.Verify(sub.Parity, sub.Px, outputRoot, sub.E, sub.Sig)
		if err != nil || !ok {
			a.log.Debugw("skipping submission with invalid signature", "fp_key", sub.FPKey, "err", err)
			res.Submissions = append(res.Submissions, SubmissionResult{FPKey: sub.FPKey, Outcome: Skipped})
			if a.metrics != nil {
				a.metrics.SubmissionsSkipped.WithLabelValues(hex.EncodeToString(sub.FPKey[:])).Inc()
			}
			continue
		}

		power := a.oracle.VotingPowerFor(a.cfg.ChainID, atBlock, sub.FPKey)
		accumulated += power
		res.Submissions = append(res.Submissions, SubmissionResult{FPKey: sub.FPKey, Outcome: Verified, Power: power})
		if a.activity != nil {
			a.activity.RecordVerification(hex.EncodeToString(sub.FPKey[:]))
		}

		if accumulated >= threshold {
			res.Accumulated = accumulated
			res.Quorum = true
			if a.metrics != nil {
				a.metrics.LastAccumulatedPower.Set(float64(accumulated))
			}
			a.recordVerification("quorum")
			return res, nil
		}
	}

	res.Accumulated = accumulated
	res.Quorum = false
	if a.metrics != nil {
		a.metrics.LastAccumulatedPower.Set(float64(accumulated))
	}
	a.recordVerification("no_quorum")
	return res, nil
}

func (a *Aggregator) recordVerification(result string) {
	if a.metrics == nil {
		return
	}
	a.metrics.VerificationsTotal.WithLabelValues(result).Inc()
	if result == "quorum" {
		a.metrics.QuorumReachedTotal.Inc()
	}
}
