package ledger

import (
	"github.com/mosaicnetworks/gcl/src/crypto"
)

// Transaction is an opaque record submitted by a client. The ledger never
// interprets Payload and never checks Signature.
type Transaction struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Origin    string `json:"origin"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// Hash is the SHA256 of id, kind, origin, payload and signature concatenated
// in that order, as lowercase hex.
func (tx Transaction) Hash() string {
	return crypto.SHA256Hex(tx.ID, tx.Kind, tx.Origin, tx.Payload, tx.Signature)
}

// HashTransaction is Transaction.Hash as a function.
func HashTransaction(tx Transaction) string {
	return tx.Hash()
}
