package oracle

import "errors"

// ErrUnknownSnapshot is returned by MemoryOracle when a (chainID, atBlock)
// pair was never seeded with SetVotingPower.
var ErrUnknownSnapshot = errors.New("oracle: no voting-power snapshot for chain and block")
