package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/mosaicnetworks/gcl/src/crypto"
)

func testTransactions(prefix string, n int) []Transaction {
	txs := make([]Transaction, n)
	for i := 0; i < n; i++ {
		txs[i] = Transaction{
			ID:        fmt.Sprintf("%s%d", prefix, i+1),
			Kind:      "transfer",
			Origin:    "user1",
			Payload:   fmt.Sprintf("data %d", i),
			Signature: "sig1",
		}
	}
	return txs
}

func createTestBlock(height uint64, prevHash string, txs []Transaction) *Block {
	return NewBlock(Header{
		Height:     height,
		PrevHash:   prevHash,
		MerkleRoot: MerkleRoot(txs),
		Proposer:   "val1",
		Timestamp:  time.Date(2023, 1, 1, 0, 0, int(height), 0, time.UTC),
	}, txs)
}

func TestTransactionHashFieldOrder(t *testing.T) {
	tx := Transaction{ID: "tx1", Kind: "transfer", Origin: "user1", Payload: "data", Signature: "sig1"}

	expected := crypto.SHA256Hex("tx1transferuser1datasig1")
	if h := HashTransaction(tx); h != expected {
		t.Fatalf("transaction hash should be %s, not %s", expected, h)
	}
}

func TestHeaderHash(t *testing.T) {
	ts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	header := Header{Height: 1, PrevHash: "", MerkleRoot: "root", Proposer: "val1", Timestamp: ts}

	expected := crypto.SHA256Hex("", "root", "val1", "2023-01-01T00:00:00Z")
	if h := HashHeader(header); h != expected {
		t.Fatalf("header hash should be %s, not %s", expected, h)
	}

	t.Run("height is not hashed", func(t *testing.T) {
		other := header
		other.Height = 42
		if other.Hash() != header.Hash() {
			t.Fatal("headers differing only by height should hash the same")
		}
	})

	t.Run("timezone is normalized", func(t *testing.T) {
		other := header
		other.Timestamp = ts.In(time.FixedZone("CET", 3600))
		if other.Hash() != header.Hash() {
			t.Fatal("the same instant in another zone should hash the same")
		}
	})

	t.Run("every other field is hashed", func(t *testing.T) {
		mutations := []func(h *Header){
			func(h *Header) { h.PrevHash = "x" },
			func(h *Header) { h.MerkleRoot = "x" },
			func(h *Header) { h.Proposer = "x" },
			func(h *Header) { h.Timestamp = h.Timestamp.Add(time.Nanosecond) },
		}
		for i, mutate := range mutations {
			other := header
			mutate(&other)
			if other.Hash() == header.Hash() {
				t.Fatalf("mutation %d should change the header hash", i)
			}
		}
	})
}

func TestBlockHashIsRecomputed(t *testing.T) {
	block := createTestBlock(1, "", testTransactions("tx", 2))

	before := block.Hash()
	block.Header.Proposer = "mallory"

	if block.Hash() == before {
		t.Fatal("mutating the header should change the block identity")
	}
}

func TestBlockMarshal(t *testing.T) {
	block := createTestBlock(3, crypto.SHA256Hex("prev"), testTransactions("tx", 3))

	data, err := block.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	var decoded Block
	if err := decoded.Unmarshal(data); err != nil {
		t.Fatal(err)
	}

	if decoded.Hash() != block.Hash() {
		t.Fatalf("decoded block hash should be %s, not %s", block.Hash(), decoded.Hash())
	}
	if decoded.Height() != 3 {
		t.Fatalf("decoded height should be 3, not %d", decoded.Height())
	}
	if MerkleRoot(decoded.Transactions) != block.Header.MerkleRoot {
		t.Fatal("decoded transactions should match the merkle root")
	}
}

func TestEmptyBlockHasEmptyRoot(t *testing.T) {
	block := createTestBlock(1, "", nil)
	if block.Header.MerkleRoot != "" {
		t.Fatalf("empty block should have an empty merkle root, not %s", block.Header.MerkleRoot)
	}
	if BuildTree(nil) != nil {
		t.Fatal("BuildTree of no transactions should be nil")
	}
}

func TestVerifyTransaction(t *testing.T) {
	txs := testTransactions("tx", 5)
	tree := BuildTree(txs)

	for i, tx := range txs {
		proof, err := tree.Proof(i)
		if err != nil {
			t.Fatal(err)
		}
		if !VerifyTransaction(tx, proof, tree.Root()) {
			t.Fatalf("transaction %d should verify", i)
		}

		tampered := tx
		tampered.Payload += "!"
		if VerifyTransaction(tampered, proof, tree.Root()) {
			t.Fatalf("tampered transaction %d should not verify", i)
		}
	}
}
