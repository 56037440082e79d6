package node

import (
	"strconv"
	"time"

	"github.com/mosaicnetworks/gcl/src/consensus"
	"github.com/mosaicnetworks/gcl/src/ledger"
	"github.com/mosaicnetworks/gcl/src/merkle"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Receipt describes a finalized block.
type Receipt struct {
	Height     uint64                `json:"height"`
	BlockHash  string                `json:"blockHash"`
	MerkleRoot string                `json:"merkleRoot"`
	Signatures []consensus.Signature `json:"signatures"`
}

// ProofResult is an inclusion proof together with the commitment it proves
// against.
type ProofResult struct {
	Proof      merkle.Proof `json:"proof"`
	MerkleRoot string       `json:"merkleRoot"`
	Height     uint64       `json:"height"`
	BlockHash  string       `json:"blockHash"`
}

// Node ties a consensus Engine to a Ledger.
type Node struct {
	conf    *Config
	logger  *logrus.Entry
	engine  *consensus.Engine
	ledger  *ledger.Ledger
	metrics *Metrics
	start   time.Time
}

// NewNode creates a Node. It fails only if the metrics cannot be registered.
func NewNode(conf *Config, engine *consensus.Engine, l *ledger.Ledger) (*Node, error) {
	metrics, err := NewMetrics(conf.Registerer)
	if err != nil {
		return nil, errors.Wrap(err, "registering metrics")
	}

	metrics.Height.Set(float64(l.Height()))

	return &Node{
		conf:    conf,
		logger:  conf.Logger,
		engine:  engine,
		ledger:  l,
		metrics: metrics,
		start:   time.Now(),
	}, nil
}

// Submit proposes a block of txs at the tail of the ledger and appends it if
// it reaches quorum. An empty proposer falls back to the configured one.
// When quorum is not reached the error is a consensus.QuorumErr and the
// ledger is untouched.
func (n *Node) Submit(txs []ledger.Transaction, proposer string) (*Receipt, error) {
	if proposer == "" {
		proposer = n.conf.Proposer
	}

	var signatures []consensus.Signature

	block, err := n.ledger.Commit(func(height uint64, prevHash string) (*ledger.Block, error) {
		block := n.engine.ProposeBlock(height, prevHash, txs, proposer)

		signatures = n.engine.SignBlock(block)
		n.metrics.Signatures.Observe(float64(len(signatures)))

		if err := n.engine.Ratify(block.Header, signatures); err != nil {
			return nil, err
		}

		return block, nil
	})

	if err != nil {
		if consensus.IsQuorumNotReached(err) {
			n.metrics.Submissions.WithLabelValues("rejected").Inc()
			n.logger.WithError(err).WithField("proposer", proposer).Warn("Block not finalized")
		} else {
			n.metrics.Submissions.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	n.metrics.Submissions.WithLabelValues("accepted").Inc()
	n.metrics.Transactions.Add(float64(len(block.Transactions)))
	n.metrics.Height.Set(float64(block.Height()))

	n.logger.WithFields(logrus.Fields{
		"height":     block.Height(),
		"txs":        len(block.Transactions),
		"proposer":   proposer,
		"signatures": len(signatures),
	}).Info("Block finalized")

	return &Receipt{
		Height:     block.Height(),
		BlockHash:  block.Hash(),
		MerkleRoot: block.Header.MerkleRoot,
		Signatures: signatures,
	}, nil
}

// SubmitTx submits a block holding the single transaction tx, proposed by the
// configured proposer.
func (n *Node) SubmitTx(tx ledger.Transaction) (*Receipt, error) {
	return n.Submit([]ledger.Transaction{tx}, "")
}

// GetBlock returns the block at height.
func (n *Node) GetBlock(height uint64) (*ledger.Block, error) {
	return n.ledger.GetByHeight(height)
}

// GetProof locates the first transaction with the given id and builds its
// inclusion proof against the merkle root of its block.
func (n *Node) GetProof(txID string) (*ProofResult, error) {
	block, index, err := n.ledger.FindTransaction(txID)
	if err != nil {
		return nil, err
	}

	proof, err := ledger.BuildTree(block.Transactions).Proof(index)
	if err != nil {
		return nil, errors.Wrapf(err, "proof of %s in block %d", txID, block.Height())
	}

	return &ProofResult{
		Proof:      proof,
		MerkleRoot: block.Header.MerkleRoot,
		Height:     block.Height(),
		BlockHash:  block.Hash(),
	}, nil
}

// Verify audits the whole ledger.
func (n *Node) Verify() error {
	return n.ledger.Verify()
}

// GetValidators returns the validator set.
func (n *Node) GetValidators() []*consensus.Validator {
	return n.engine.Validators().Validators
}

// Height returns the height of the last finalized block.
func (n *Node) Height() uint64 {
	return n.ledger.Height()
}

// GetStats returns a summary of the node state.
func (n *Node) GetStats() map[string]string {
	return map[string]string{
		"height":        strconv.FormatUint(n.ledger.Height(), 10),
		"validators":    strconv.Itoa(n.engine.Validators().Len()),
		"threshold":     strconv.Itoa(n.engine.Threshold()),
		"strict_quorum": strconv.FormatBool(n.engine.Strict()),
		"proposer":      n.conf.Proposer,
		"store":         storeType(n.ledger.Store()),
		"uptime":        time.Since(n.start).Round(time.Second).String(),
	}
}

func storeType(s ledger.Store) string {
	switch s.(type) {
	case *ledger.BadgerStore:
		return "badger"
	case *ledger.InmemStore:
		return "inmem"
	default:
		return "unknown"
	}
}
