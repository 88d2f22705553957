package metrics

import (
	"sync"
	"time"
)

// ActivityTracker records the last time each finality provider committed a
// pub-rand batch or had a submission verified, for staleness checks an
// operator might run against a live registry.
type ActivityTracker struct {
	mu               sync.Mutex
	lastCommitByFP   map[string]time.Time
	lastVerifyByFP   map[string]time.Time
}

// NewActivityTracker constructs an empty ActivityTracker.
func NewActivityTracker() *ActivityTracker {
	return &ActivityTracker{
		lastCommitByFP: make(map[string]time.Time),
		lastVerifyByFP: make(map[string]time.Time),
	}
}

// RecordCommit marks fpKeyHex as having just committed a batch.
func (a *ActivityTracker) RecordCommit(fpKeyHex string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastCommitByFP[fpKeyHex] = time.Now()
}

// RecordVerification marks fpKeyHex as having just had a submission
// verified successfully; the aggregator does not call it for skipped
// submissions.
func (a *ActivityTracker) RecordVerification(fpKeyHex string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastVerifyByFP[fpKeyHex] = time.Now()
}

// LastCommit returns when fpKeyHex last committed a batch, if ever.
func (a *ActivityTracker) LastCommit(fpKeyHex string) (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.lastCommitByFP[fpKeyHex]
	return t, ok
}

// LastVerification returns when fpKeyHex was last verified, if ever.
func (a *ActivityTracker) LastVerification(fpKeyHex string) (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.lastVerifyByFP[fpKeyHex]
	return t, ok
}
