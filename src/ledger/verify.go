package ledger

import (
	"fmt"
)

// ChainErr reports the first block that breaks the chain rules.
type ChainErr struct {
	Height uint64
	Reason string
}

func (e ChainErr) Error() string {
	return fmt.Sprintf("block %d: %s", e.Height, e.Reason)
}

// Verify walks the whole ledger and checks that heights are sequential, that
// each block links to the previous header hash, and that each merkle root
// matches the block's transactions.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var prev *Block
	last := l.store.LastHeight()
	for h := uint64(1); h <= last; h++ {
		block, err := l.store.GetBlock(h)
		if err != nil {
			return err
		}
		if err := validateBlock(h, block, prev); err != nil {
			return err
		}
		prev = block
	}

	l.logger.WithField("height", last).Debug("Verified ledger")

	return nil
}

func validateBlock(height uint64, block, prev *Block) error {
	if block.Header.Height != height {
		return ChainErr{height, fmt.Sprintf("invalid height: expected %d, got %d", height, block.Header.Height)}
	}

	expectedPrev := ""
	if prev != nil {
		expectedPrev = prev.Hash()
	}
	if block.Header.PrevHash != expectedPrev {
		return ChainErr{height, fmt.Sprintf("invalid prev hash: expected %q, got %q", expectedPrev, block.Header.PrevHash)}
	}

	if root := MerkleRoot(block.Transactions); block.Header.MerkleRoot != root {
		return ChainErr{height, fmt.Sprintf("invalid merkle root: expected %q, got %q", root, block.Header.MerkleRoot)}
	}

	return nil
}
