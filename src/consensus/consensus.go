package consensus

import (
	"time"

	"github.com/mosaicnetworks/gcl/src/ledger"
	"github.com/sirupsen/logrus"
)

// Engine proposes, signs and ratifies blocks for a fixed validator set. It
// has no mutable state and is safe for concurrent use.
type Engine struct {
	validators *ValidatorSet
	signer     Signer
	strict     bool
	logger     *logrus.Entry
}

// NewEngine creates an Engine. A nil signer defaults to HashSigner. When
// strict is set, Ratify uses CheckVerifiedQuorum instead of CheckQuorum.
func NewEngine(validators *ValidatorSet, signer Signer, strict bool, logger *logrus.Entry) *Engine {
	if signer == nil {
		signer = NewHashSigner()
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Engine{
		validators: validators,
		signer:     signer,
		strict:     strict,
		logger:     logger,
	}
}

// Validators returns the validator set.
func (e *Engine) Validators() *ValidatorSet {
	return e.validators
}

// Threshold returns the number of signatures needed to finalize a block.
func (e *Engine) Threshold() int {
	return e.validators.Threshold()
}

// Strict reports whether Ratify verifies signatures.
func (e *Engine) Strict() bool {
	return e.strict
}

// ProposeBlock assembles a candidate block stamped with the current UTC time.
// The transactions are copied into the block.
func (e *Engine) ProposeBlock(height uint64, prevHash string, txs []ledger.Transaction, proposer string) *ledger.Block {
	owned := make([]ledger.Transaction, len(txs))
	copy(owned, txs)

	header := ledger.Header{
		Height:     height,
		PrevHash:   prevHash,
		MerkleRoot: ledger.MerkleRoot(owned),
		Proposer:   proposer,
		Timestamp:  time.Now().UTC(),
	}

	return ledger.NewBlock(header, owned)
}

// SignBlock returns one signature per validator, in set order, over the
// block's header hash. Validators the signer cannot sign for are skipped.
func (e *Engine) SignBlock(block *ledger.Block) []Signature {
	digest := block.Hash()

	signatures := make([]Signature, 0, e.validators.Len())
	for _, v := range e.validators.Validators {
		sig, err := e.signer.Sign(v, digest)
		if err != nil {
			e.logger.WithError(err).WithField("validator", v.ID).Debug("Skipping validator")
			continue
		}
		signatures = append(signatures, Signature{
			Validator: v.ID,
			Signature: sig,
		})
	}

	return signatures
}

// CheckQuorum reports whether there are at least threshold signatures. It
// counts signatures and does not check who made them or whether they are
// valid.
func (e *Engine) CheckQuorum(signatures []Signature) bool {
	return len(signatures) >= e.Threshold()
}

// CheckVerifiedQuorum reports whether at least threshold distinct validators
// of the set signed header with a signature that verifies.
func (e *Engine) CheckVerifiedQuorum(header ledger.Header, signatures []Signature) bool {
	return e.countVerified(header, signatures) >= e.Threshold()
}

func (e *Engine) countVerified(header ledger.Header, signatures []Signature) int {
	digest := header.Hash()

	seen := make(map[string]bool)
	for _, sig := range signatures {
		if seen[sig.Validator] {
			continue
		}
		v, ok := e.validators.Get(sig.Validator)
		if !ok || !e.signer.Verify(v, digest, sig.Signature) {
			continue
		}
		seen[sig.Validator] = true
	}

	return len(seen)
}

// Ratify returns a QuorumErr if signatures do not finalize header, using the
// verified check in strict mode and the count check otherwise.
func (e *Engine) Ratify(header ledger.Header, signatures []Signature) error {
	have := len(signatures)
	ok := e.CheckQuorum(signatures)

	if e.strict {
		have = e.countVerified(header, signatures)
		ok = have >= e.Threshold()
	}

	if !ok {
		return QuorumErr{Have: have, Need: e.Threshold()}
	}

	return nil
}
