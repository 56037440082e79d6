package ledger

import (
	"github.com/mosaicnetworks/gcl/src/merkle"
)

// TransactionHashes returns the leaf digests of txs, in order.
func TransactionHashes(txs []Transaction) []string {
	hashes := make([]string, len(txs))
	for i, tx := range txs {
		hashes[i] = tx.Hash()
	}
	return hashes
}

// BuildTree builds the Merkle tree committing to txs. It returns nil when txs
// is empty.
func BuildTree(txs []Transaction) *merkle.Tree {
	return merkle.NewTree(TransactionHashes(txs))
}

// MerkleRoot returns the root of BuildTree(txs), "" when txs is empty.
func MerkleRoot(txs []Transaction) string {
	return BuildTree(txs).Root()
}

// VerifyTransaction checks that tx is included under root according to proof.
func VerifyTransaction(tx Transaction, proof merkle.Proof, root string) bool {
	return merkle.VerifyProof(tx.Hash(), proof, root)
}
