package eots

import "errors"

var (
	// ErrIdenticalSignatures is returned by Extract when the two supplied
	// messages, or their signature scalars, are not distinct.
	ErrIdenticalSignatures = errors.New("eots: messages or signature scalars are identical")

	// ErrExtractionMismatch is returned by Extract when the recovered
	// private key does not satisfy d*G == P, flagging malformed inputs.
	ErrExtractionMismatch = errors.New("eots: extracted key does not reproduce the public key")
)
