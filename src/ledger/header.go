package ledger

import (
	"time"

	"github.com/mosaicnetworks/gcl/src/crypto"
)

// TimestampFormat is the canonical textual form of Header.Timestamp used in
// header hashes.
const TimestampFormat = time.RFC3339Nano

// Header ...
type Header struct {
	Height     uint64    `json:"height"`
	PrevHash   string    `json:"prevHash"`
	MerkleRoot string    `json:"merkleRoot"`
	Proposer   string    `json:"proposer"`
	Timestamp  time.Time `json:"timestamp"`
}

// Hash is the SHA256 of prevHash, merkleRoot, proposer and the UTC timestamp
// concatenated in that order. Height is not part of it.
func (h Header) Hash() string {
	return crypto.SHA256Hex(
		h.PrevHash,
		h.MerkleRoot,
		h.Proposer,
		h.Timestamp.UTC().Format(TimestampFormat),
	)
}

// HashHeader is Header.Hash as a function.
func HashHeader(h Header) string {
	return h.Hash()
}
