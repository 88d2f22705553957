// Package oracle provides MemoryOracle, an in-memory finality.Oracle for
// tests and local tooling, and RetryingOracle, a retrying wrapper for
// network clients whose lookups may transiently fail. RetryingOracle
// exposes context-aware, error-returning lookups and does not implement
// finality.Oracle.
package oracle

import (
	"context"
	"sync"

	"github.com/avast/retry-go/v4"

	"github.com/babylonchain/finality-verifier/pubrand"
)

type snapshotKey struct {
	chainID uint32
	block   uint64
}

// MemoryOracle is an in-memory, mutex-guarded oracle backed by
// operator-seeded snapshots. It satisfies finality.Oracle.
type MemoryOracle struct {
	mu           sync.Mutex
	l2Block      uint64
	totalPower   map[snapshotKey]uint64
	fpPower      map[snapshotKey]map[pubrand.FPKey]uint64
}

// NewMemoryOracle constructs an empty MemoryOracle pinned to the given
// current L2 block.
func NewMemoryOracle(l2Block uint64) *MemoryOracle {
	return &MemoryOracle{
		l2Block:    l2Block,
		totalPower: make(map[snapshotKey]uint64),
		fpPower:    make(map[snapshotKey]map[pubrand.FPKey]uint64),
	}
}

// SetCurrentL2Block updates the oracle's reported current block.
func (m *MemoryOracle) SetCurrentL2Block(block uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.l2Block = block
}

// SetVotingPower seeds the per-FP voting power for a (chainID, atBlock)
// snapshot, accumulating it into that snapshot's total.
func (m *MemoryOracle) SetVotingPower(chainID uint32, atBlock uint64, fpKey pubrand.FPKey, power uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := snapshotKey{chainID: chainID, block: atBlock}
	if m.fpPower[key] == nil {
		m.fpPower[key] = make(map[pubrand.FPKey]uint64)
	}

	prev := m.fpPower[key][fpKey]
	m.fpPower[key][fpKey] = power
	m.totalPower[key] = m.totalPower[key] - prev + power
}

// CurrentL2Block implements finality.Oracle.
func (m *MemoryOracle) CurrentL2Block() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.l2Block
}

// TotalVotingPower implements finality.Oracle. An unseeded snapshot
// reports zero total power rather than an error, matching the interface's
// pure-function shape.
func (m *MemoryOracle) TotalVotingPower(chainID uint32, atBlock uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalPower[snapshotKey{chainID: chainID, block: atBlock}]
}

// VotingPowerFor implements finality.Oracle.
func (m *MemoryOracle) VotingPowerFor(chainID uint32, atBlock uint64, fpKey pubrand.FPKey) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fpPower[snapshotKey{chainID: chainID, block: atBlock}][fpKey]
}

// Lookup returns the same value as VotingPowerFor but surfaces
// ErrUnknownSnapshot when the (chainID, atBlock) pair was never seeded, for
// callers (tooling, tests) that want to distinguish "zero power" from "no
// data".
func (m *MemoryOracle) Lookup(chainID uint32, atBlock uint64, fpKey pubrand.FPKey) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := snapshotKey{chainID: chainID, block: atBlock}
	fps, ok := m.fpPower[key]
	if !ok {
		return 0, ErrUnknownSnapshot
	}
	return fps[fpKey], nil
}

// RetryingOracle wraps a RemoteOracle backend whose lookups go over the
// network, retrying transient failures the way the teacher's Babylon RPC
// client retries query calls. Its methods (CurrentL2BlockCtx,
// TotalVotingPowerCtx, VotingPowerForCtx) take a context and return an
// error, so it does not satisfy finality.Oracle.
type RetryingOracle struct {
	backend RemoteOracle
	attempts uint
}

// RemoteOracle is the error-returning shape a real oracle client exposes;
// RetryingOracle retries its calls and passes their errors on.
type RemoteOracle interface {
	CurrentL2Block(ctx context.Context) (uint64, error)
	TotalVotingPower(ctx context.Context, chainID uint32, atBlock uint64) (uint64, error)
	VotingPowerFor(ctx context.Context, chainID uint32, atBlock uint64, fpKey pubrand.FPKey) (uint64, error)
}

// NewRetryingOracle wraps backend, retrying each call up to attempts times.
func NewRetryingOracle(backend RemoteOracle, attempts uint) *RetryingOracle {
	if attempts == 0 {
		attempts = 3
	}
	return &RetryingOracle{backend: backend, attempts: attempts}
}

func (r *RetryingOracle) do(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.LastErrorOnly(true),
	)
}

// CurrentL2BlockCtx retries the backend's CurrentL2Block lookup.
func (r *RetryingOracle) CurrentL2BlockCtx(ctx context.Context) (uint64, error) {
	var out uint64
	err := r.do(ctx, func() error {
		v, err := r.backend.CurrentL2Block(ctx)
		out = v
		return err
	})
	return out, err
}

// TotalVotingPowerCtx retries the backend's TotalVotingPower lookup.
func (r *RetryingOracle) TotalVotingPowerCtx(ctx context.Context, chainID uint32, atBlock uint64) (uint64, error) {
	var out uint64
	err := r.do(ctx, func() error {
		v, err := r.backend.TotalVotingPower(ctx, chainID, atBlock)
		out = v
		return err
	})
	return out, err
}

// VotingPowerForCtx retries the backend's VotingPowerFor lookup.
func (r *RetryingOracle) VotingPowerForCtx(ctx context.Context, chainID uint32, atBlock uint64, fpKey pubrand.FPKey) (uint64, error) {
	var out uint64
	err := r.do(ctx, func() error {
		v, err := r.backend.VotingPowerFor(ctx, chainID, atBlock, fpKey)
		out = v
		return err
	})
	return out, err
}
