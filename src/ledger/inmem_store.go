package ledger

import (
	"strconv"

	cm "github.com/mosaicnetworks/gcl/src/common"
)

// InmemStore implements the Store interface with a slice. It does not
// synchronize; Ledger does.
type InmemStore struct {
	blocks []*Block
}

// NewInmemStore ...
func NewInmemStore() *InmemStore {
	return &InmemStore{}
}

// GetBlock implements the Store interface.
func (s *InmemStore) GetBlock(height uint64) (*Block, error) {
	if height < 1 || height > uint64(len(s.blocks)) {
		return nil, cm.NewStoreErr("Block", cm.KeyNotFound, strconv.FormatUint(height, 10))
	}
	return s.blocks[height-1], nil
}

// AppendBlock implements the Store interface.
func (s *InmemStore) AppendBlock(block *Block) error {
	s.blocks = append(s.blocks, block)
	return nil
}

// LastHeight implements the Store interface.
func (s *InmemStore) LastHeight() uint64 {
	return uint64(len(s.blocks))
}

// Close implements the Store interface.
func (s *InmemStore) Close() error {
	return nil
}

// StorePath implements the Store interface.
func (s *InmemStore) StorePath() string {
	return ""
}
