package ledger

import (
	"bytes"

	"github.com/ugorji/go/codec"
)

// Block ...
type Block struct {
	Header       Header        `json:"header"`
	Transactions []Transaction `json:"transactions"`
}

// NewBlock assembles a block. The caller computes the merkle root; see
// MerkleRoot.
func NewBlock(header Header, txs []Transaction) *Block {
	return &Block{
		Header:       header,
		Transactions: txs,
	}
}

// Height ...
func (b *Block) Height() uint64 {
	return b.Header.Height
}

// Hash identifies the block. It is the header hash, recomputed each call.
func (b *Block) Hash() string {
	return b.Header.Hash()
}

// TransactionIndex returns the position of the first transaction with the
// given id, or -1.
func (b *Block) TransactionIndex(id string) int {
	for i, tx := range b.Transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func jsonHandle() *codec.JsonHandle {
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	return jh
}

// Marshal returns the canonical json encoding of the block.
func (b *Block) Marshal() ([]byte, error) {
	bf := new(bytes.Buffer)
	enc := codec.NewEncoder(bf, jsonHandle())
	if err := enc.Encode(b); err != nil {
		return nil, err
	}
	return bf.Bytes(), nil
}

// Unmarshal ...
func (b *Block) Unmarshal(data []byte) error {
	dec := codec.NewDecoderBytes(data, jsonHandle())
	return dec.Decode(b)
}
