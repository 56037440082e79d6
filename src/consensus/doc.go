// Package consensus finalizes blocks by quorum.
//
// An Engine holds a fixed ValidatorSet and a Signer. It assembles candidate
// blocks (ProposeBlock), collects one signature per validator it can sign for
// (SignBlock) and decides whether a set of signatures is enough to finalize
// the block (CheckQuorum).
//
// The threshold is floor(2n/3) for n validators. CheckQuorum only counts
// signatures. CheckVerifiedQuorum, enabled with the strict-quorum option,
// counts distinct known validators whose signature verifies against the
// header hash.
//
// Two Signers are provided. HashSigner is a deterministic stand-in where a
// validator's signature is H(validatorID || headerHash); anyone who knows the
// validator IDs can produce it. KeySigner signs the header hash with secp256k1
// ECDSA keys held in a local keyring.
package consensus
