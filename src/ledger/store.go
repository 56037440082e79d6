package ledger

// Store is an interface for backend block stores. Heights are 1-based and
// positional: the n-th appended block is at height n whatever its header says.
type Store interface {
	// GetBlock returns the block at a given height.
	GetBlock(height uint64) (*Block, error)
	// AppendBlock stores a block at height LastHeight()+1.
	AppendBlock(block *Block) error
	// LastHeight returns the height of the last block, 0 when empty.
	LastHeight() uint64
	// Close closes the underlying database.
	Close() error
	// StorePath returns the filepath of the underlying database.
	StorePath() string
}
