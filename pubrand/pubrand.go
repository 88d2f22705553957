// Package pubrand implements the public-randomness commitment registry: FPs
// commit a Merkle root of per-block pub-rand values gated by a Schnorr
// proof of possession, and clients later check individual blocks' pub-rand
// against the stored root.
package pubrand

import (
	"encoding/hex"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/babylonchain/finality-verifier/crypto/schnorr"
	"github.com/babylonchain/finality-verifier/merkle"
	"github.com/babylonchain/finality-verifier/metrics"
)

// L2BlockSource reports the chain's current block, the one piece of oracle
// state the registry consults directly (§6.1 currentL2Block).
type L2BlockSource interface {
	CurrentL2Block() uint64
}

// Config is the registry's immutable init-time configuration (§6.7).
type Config struct {
	ChainID    uint32
	StartBlock uint64
	EpochSize  uint64
}

// ToBlock returns the last block number covered by epoch under c.
func (c Config) ToBlock(epoch uint64) uint64 {
	return c.StartBlock + epoch*c.EpochSize - 1
}

// FPKey is a compressed secp256k1 public key, the registry's map key
// component identifying a finality provider.
type FPKey [33]byte

// ParseFPKey validates that b is a well-formed compressed secp256k1 point
// and returns it as an FPKey. Unlike a raw byte copy, this rejects keys
// that don't decode to a point on the curve before they ever reach the map.
func ParseFPKey(b []byte) (FPKey, error) {
	var key FPKey
	if _, err := btcec.ParsePubKey(b); err != nil {
		return key, err
	}
	copy(key[:], b)
	return key, nil
}

// schnorrKeyOf derives the (parity, Px) pair schnorr.Verify expects from a
// compressed secp256k1 public key: the prefix byte (0x02 even-y, 0x03
// odd-y) becomes the parity, and the remaining 32 bytes are Px.
func schnorrKeyOf(fpKey FPKey) (schnorr.Parity, [32]byte, error) {
	var px [32]byte
	copy(px[:], fpKey[1:])

	switch fpKey[0] {
	case 0x02:
		return schnorr.ParityEven, px, nil
	case 0x03:
		return schnorr.ParityOdd, px, nil
	default:
		return 0, px, ErrInvalidProofOfPossession
	}
}

type rootKey struct {
	epoch uint64
	fp    FPKey
}

// CommitEvent mirrors CommitPubRandBatch (§6.6) for in-process subscribers
// such as metrics or an audit log.
type CommitEvent struct {
	Epoch      uint64
	FPKey      FPKey
	MerkleRoot [32]byte
}

// Registry is the process-wide, mutex-guarded store of committed roots.
// Its lifecycle is bound to the host process: initialized empty, cleared
// only on reinit.
type Registry struct {
	cfg    Config
	source L2BlockSource
	log    *zap.SugaredLogger

	mu    sync.Mutex
	roots map[rootKey][32]byte

	subMu sync.Mutex
	subs  []func(CommitEvent)

	metrics  *metrics.RegistryMetrics
	activity *metrics.ActivityTracker
}

// SetMetrics attaches a RegistryMetrics instance; Commit records against it
// when set. Nil is safe and disables recording.
func (r *Registry) SetMetrics(m *metrics.RegistryMetrics) {
	r.metrics = m
}

// SetActivityTracker attaches an ActivityTracker; Commit records the
// per-FP commit timestamp against it when set.
func (r *Registry) SetActivityTracker(a *metrics.ActivityTracker) {
	r.activity = a
}

// NewRegistry constructs an empty registry bound to cfg and source.
func NewRegistry(cfg Config, source L2BlockSource, log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{
		cfg:    cfg,
		source: source,
		log:    log,
		roots:  make(map[rootKey][32]byte),
	}
}

// Subscribe registers fn to be called synchronously after every successful
// Commit, in the order subscribed.
func (r *Registry) Subscribe(fn func(CommitEvent)) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	r.subs = append(r.subs, fn)
}

func (r *Registry) emit(ev CommitEvent) {
	r.subMu.Lock()
	subs := append([]func(CommitEvent){}, r.subs...)
	r.subMu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func commitPreimage(epoch uint64, fpKey FPKey, merkleRoot [32]byte) [32]byte {
	buf := make([]byte, 0, 8+33+32)
	buf = append(buf, sdk.Uint64ToBigEndian(epoch)...)
	buf = append(buf, fpKey[:]...)
	buf = append(buf, merkleRoot[:]...)
	var m [32]byte
	copy(m[:], crypto.Keccak256(buf))
	return m
}

// Commit validates and stores a batch's Merkle root under (epoch, fpKey).
// proofOfPossession is the 160-byte packed Schnorr signature of the
// canonical preimage Keccak(u64_be(epoch) || fpKey || merkleRoot).
func (r *Registry) Commit(epoch uint64, fpKey FPKey, proofOfPossession []byte, merkleRoot [32]byte) error {
	fpHex := hex.EncodeToString(fpKey[:])

	if r.cfg.ToBlock(epoch) <= r.source.CurrentL2Block() {
		r.recordRejected(fpHex, "invalid_block_range")
		return ErrInvalidBlockRange
	}

	parity, px, m, e, s, err := schnorr.Unpack(proofOfPossession)
	if err != nil {
		r.recordRejected(fpHex, "invalid_length")
		return err
	}

	expected := commitPreimage(epoch, fpKey, merkleRoot)
	if m != expected {
		r.recordRejected(fpHex, "message_mismatch")
		return &MessageMismatchError{Expected: expected, Actual: m}
	}

	// The PoP must verify under fpKey itself — otherwise the signed
	// preimage (which names fpKey) says nothing about who actually holds
	// fpKey's private key, and anyone with any even-y keypair could
	// register a root under someone else's key.
	fpParity, fpPx, err := schnorrKeyOf(fpKey)
	if err != nil {
		r.recordRejected(fpHex, "invalid_pop")
		return err
	}
	if parity != fpParity || px != fpPx {
		r.recordRejected(fpHex, "invalid_pop")
		return ErrInvalidProofOfPossession
	}

	ok, err := schnorr.Verify(fpParity, fpPx, m, e, s)
	if err != nil {
		r.recordRejected(fpHex, "schnorr_error")
		return err
	}
	if !ok {
		r.recordRejected(fpHex, "invalid_pop")
		return ErrInvalidProofOfPossession
	}

	key := rootKey{epoch: epoch, fp: fpKey}

	r.mu.Lock()
	if _, exists := r.roots[key]; exists {
		r.mu.Unlock()
		if r.metrics != nil {
			r.metrics.DuplicateCommits.WithLabelValues(fpHex).Inc()
		}
		return ErrDuplicateBatch
	}
	r.roots[key] = merkleRoot
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.CommitsTotal.WithLabelValues(fpHex).Inc()
		r.metrics.LastCommittedEpoch.WithLabelValues(fpHex).Set(float64(epoch))
	}
	if r.activity != nil {
		r.activity.RecordCommit(fpHex)
	}

	r.log.Debugw("committed pub-rand batch", "epoch", epoch, "fp_key", fpKey, "root", merkleRoot)
	r.emit(CommitEvent{Epoch: epoch, FPKey: fpKey, MerkleRoot: merkleRoot})
	return nil
}

func (r *Registry) recordRejected(fpHex, reason string) {
	if r.metrics != nil {
		r.metrics.RejectedCommits.WithLabelValues(fpHex, reason).Inc()
	}
}

// Root returns the stored root for (epoch, fpKey), snapshotted under the
// registry mutex, and whether one exists.
func (r *Registry) Root(epoch uint64, fpKey FPKey) ([32]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	root, ok := r.roots[rootKey{epoch: epoch, fp: fpKey}]
	return root, ok
}

// VerifyPubRandAtBlock checks that pubRand at atBlock folds, via proof, to
// the root stored for (epoch, fpKey). An absent root yields false, never an
// error — a missing commitment is not distinguishable from a bad proof at
// this layer.
func (r *Registry) VerifyPubRandAtBlock(epoch uint64, fpKey FPKey, atBlock uint64, pubRand [32]byte, proof [][32]byte) bool {
	root, ok := r.Root(epoch, fpKey)
	if !ok {
		return false
	}

	leaf := merkle.Leaf{BlockNumber: atBlock, PubRand: pubRand}
	return merkle.VerifyProof(leaf, proof, root)
}
