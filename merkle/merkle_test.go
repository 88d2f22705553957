package merkle_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/babylonchain/finality-verifier/merkle"
)

func randLeaf(t *testing.T, block uint64) merkle.Leaf {
	t.Helper()
	var pr [32]byte
	_, err := rand.Read(pr[:])
	require.NoError(t, err)
	return merkle.Leaf{BlockNumber: block, PubRand: pr}
}

func TestBuildRootSingleLeaf(t *testing.T) {
	leaf := randLeaf(t, 100)
	root, tree := merkle.BuildRoot([]merkle.Leaf{leaf})
	require.Equal(t, leaf.Hash(), root)

	proof, ok := tree.ProofFor(leaf)
	require.True(t, ok)
	require.Empty(t, proof)
	require.True(t, merkle.VerifyProof(leaf, proof, root))
}

func TestBuildRootAndVerifyEveryLeaf(t *testing.T) {
	leaves := make([]merkle.Leaf, 0, 7)
	for i := uint64(0); i < 7; i++ {
		leaves = append(leaves, randLeaf(t, 1000+i))
	}

	root, tree := merkle.BuildRoot(leaves)
	for _, l := range leaves {
		proof, ok := tree.ProofFor(l)
		require.True(t, ok)
		require.True(t, merkle.VerifyProof(l, proof, root))
	}
}

func TestVerifyProofRejectsWrongLeaf(t *testing.T) {
	leaves := []merkle.Leaf{randLeaf(t, 1), randLeaf(t, 2), randLeaf(t, 3)}
	root, tree := merkle.BuildRoot(leaves)

	proof, ok := tree.ProofFor(leaves[0])
	require.True(t, ok)

	tampered := leaves[0]
	tampered.BlockNumber++
	require.False(t, merkle.VerifyProof(tampered, proof, root))
}

func TestVerifyProofRejectsWrongRoot(t *testing.T) {
	leaves := []merkle.Leaf{randLeaf(t, 1), randLeaf(t, 2)}
	_, tree := merkle.BuildRoot(leaves)

	proof, ok := tree.ProofFor(leaves[0])
	require.True(t, ok)

	var wrongRoot [32]byte
	_, err := rand.Read(wrongRoot[:])
	require.NoError(t, err)
	require.False(t, merkle.VerifyProof(leaves[0], proof, wrongRoot))
}

func TestProofForUnknownLeafFails(t *testing.T) {
	leaves := []merkle.Leaf{randLeaf(t, 1), randLeaf(t, 2)}
	_, tree := merkle.BuildRoot(leaves)

	_, ok := tree.ProofFor(randLeaf(t, 99))
	require.False(t, ok)
}

func TestBuildRootEmptyLeaves(t *testing.T) {
	root, tree := merkle.BuildRoot(nil)
	require.Equal(t, [32]byte{}, root)

	_, ok := tree.ProofFor(randLeaf(t, 1))
	require.False(t, ok)
}
