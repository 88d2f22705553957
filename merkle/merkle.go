// Package merkle implements the public-randomness commitment tree: leaf
// hashing over (blockNumber, pubRand), ordered-pair internal node hashing,
// and proof verification, plus a reference root builder used by the FP and
// test sides to produce proofs for a registry Commit.
package merkle

import (
	"bytes"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Leaf is a single pub-rand commitment: the block it covers and the
// x-coordinate of that block's nonce point.
type Leaf struct {
	BlockNumber uint64
	PubRand     [32]byte
}

// Hash returns Keccak256(u64_be(BlockNumber) || PubRand), the leaf hash of
// §4.4/§6.4.
func (l Leaf) Hash() [32]byte {
	buf := make([]byte, 0, 8+32)
	buf = append(buf, sdk.Uint64ToBigEndian(l.BlockNumber)...)
	buf = append(buf, l.PubRand[:]...)
	var h [32]byte
	copy(h[:], crypto.Keccak256(buf))
	return h
}

// node hashes a pair of ordered-pair siblings: Keccak256(min(a,b) || max(a,b)).
// Ordering by raw byte value removes the left/right ambiguity a positional
// scheme would otherwise require proofs to encode.
func node(a, b [32]byte) [32]byte {
	lo, hi := a, b
	if bytes.Compare(a[:], b[:]) > 0 {
		lo, hi = b, a
	}
	buf := make([]byte, 0, 64)
	buf = append(buf, lo[:]...)
	buf = append(buf, hi[:]...)
	var h [32]byte
	copy(h[:], crypto.Keccak256(buf))
	return h
}

// VerifyProof walks the siblings from a leaf hash applying ordered-pair
// hashing and reports whether the fold matches root.
func VerifyProof(leaf Leaf, proof [][32]byte, root [32]byte) bool {
	cur := leaf.Hash()
	for _, sibling := range proof {
		cur = node(cur, sibling)
	}
	return cur == root
}

// Tree is a reference (test/tooling-side) binary Merkle tree built with the
// same ordered-pair rule VerifyProof checks against.
type Tree struct {
	leaves []Leaf
	levels [][][32]byte
}

// BuildRoot constructs a reference tree over leaves in the given order and
// returns its root. An empty leaf set returns the zero root.
func BuildRoot(leaves []Leaf) ([32]byte, *Tree) {
	t := &Tree{leaves: append([]Leaf(nil), leaves...)}

	if len(leaves) == 0 {
		return [32]byte{}, t
	}

	level := make([][32]byte, len(leaves))
	for i, l := range leaves {
		level[i] = l.Hash()
	}
	t.levels = append(t.levels, level)

	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, node(level[i], level[i+1]))
			} else {
				next = append(next, level[i])
			}
		}
		level = next
		t.levels = append(t.levels, level)
	}

	return level[0], t
}

// ProofFor returns the sibling path for leaf, in bottom-up order, and
// whether the leaf was found in the tree.
func (t *Tree) ProofFor(leaf Leaf) ([][32]byte, bool) {
	idx := -1
	target := leaf.Hash()
	if len(t.levels) == 0 {
		return nil, false
	}
	for i, h := range t.levels[0] {
		if h == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}

	var proof [][32]byte
	for _, level := range t.levels[:len(t.levels)-1] {
		var siblingIdx int
		if idx%2 == 0 {
			siblingIdx = idx + 1
		} else {
			siblingIdx = idx - 1
		}
		if siblingIdx < len(level) {
			proof = append(proof, level[siblingIdx])
		}
		idx /= 2
	}

	return proof, true
}
