package ledger

import (
	"sync"

	cm "github.com/mosaicnetworks/gcl/src/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// BuildFunc produces the block to append at height, linked to prevHash. A nil
// block and nil error leaves the ledger untouched.
type BuildFunc func(height uint64, prevHash string) (*Block, error)

// Ledger is the ordered, append-only collection of finalized blocks.
type Ledger struct {
	mu     sync.RWMutex
	store  Store
	logger *logrus.Entry
}

// NewLedger wraps store, which may already contain blocks.
func NewLedger(store Store, logger *logrus.Entry) *Ledger {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Ledger{
		store:  store,
		logger: logger,
	}
}

// Store returns the underlying store.
func (l *Ledger) Store() Store {
	return l.store
}

// Height returns the height of the tail, 0 for an empty ledger.
func (l *Ledger) Height() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.store.LastHeight()
}

// Append makes block the new tail. It performs no validation.
func (l *Ledger) Append(block *Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.append(block)
}

func (l *Ledger) append(block *Block) error {
	if err := l.store.AppendBlock(block); err != nil {
		return err
	}

	l.logger.WithFields(logrus.Fields{
		"height": l.store.LastHeight(),
		"hash":   block.Hash(),
		"txs":    len(block.Transactions),
	}).Debug("Appended block")

	return nil
}

// next returns the height and prevHash of the block that would follow the
// tail. Callers hold the lock.
func (l *Ledger) next() (uint64, string, error) {
	last := l.store.LastHeight()
	if last == 0 {
		return 1, "", nil
	}

	tail, err := l.store.GetBlock(last)
	if err != nil {
		return 0, "", errors.Wrap(err, "reading tail")
	}

	return last + 1, tail.Hash(), nil
}

// Next returns the height and prevHash of the block that would follow the
// tail. The answer may be stale by the time it is used; use Commit to build
// and append atomically.
func (l *Ledger) Next() (uint64, string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.next()
}

// Commit holds the write lock, asks build for the block following the tail,
// and appends it if build returns one. Concurrent Commits are serialized, so
// the block build returns always extends the current tail.
func (l *Ledger) Commit(build BuildFunc) (*Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	height, prevHash, err := l.next()
	if err != nil {
		return nil, err
	}

	block, err := build(height, prevHash)
	if err != nil || block == nil {
		return nil, err
	}

	if err := l.append(block); err != nil {
		return nil, err
	}

	return block, nil
}

// GetByHeight returns the block at a 1-based height.
func (l *Ledger) GetByHeight(height uint64) (*Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.store.GetBlock(height)
}

// FindTransaction scans blocks by ascending height and returns the first
// block holding a transaction with the given id, and its index in the block.
func (l *Ledger) FindTransaction(id string) (*Block, int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	last := l.store.LastHeight()
	for h := uint64(1); h <= last; h++ {
		block, err := l.store.GetBlock(h)
		if err != nil {
			return nil, -1, err
		}
		if i := block.TransactionIndex(id); i >= 0 {
			return block, i, nil
		}
	}

	return nil, -1, cm.NewStoreErr("Transaction", cm.KeyNotFound, id)
}
