package merkle

import "errors"

// ErrLeafNotFound reports a leaf that was never added to the tree. No
// function in this package returns it: Tree.ProofFor signals a missing leaf
// with its false second result.
var ErrLeafNotFound = errors.New("merkle: leaf not found in tree")
