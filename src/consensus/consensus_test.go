package consensus

import (
	"fmt"
	"testing"
	"time"

	cm "github.com/mosaicnetworks/gcl/src/common"
	"github.com/mosaicnetworks/gcl/src/crypto"
	"github.com/mosaicnetworks/gcl/src/ledger"
	"github.com/mosaicnetworks/gcl/src/merkle"
)

func testValidators(n int) []*Validator {
	validators := make([]*Validator, n)
	for i := 0; i < n; i++ {
		validators[i] = NewValidator(fmt.Sprintf("val%d", i+1), fmt.Sprintf("pub%d", i+1))
	}
	return validators
}

func newTestEngine(t *testing.T, n int, strict bool) *Engine {
	return NewEngine(NewValidatorSet(testValidators(n)), NewHashSigner(), strict, cm.NewTestEntry(t, "consensus"))
}

func TestThreshold(t *testing.T) {
	expected := map[int]int{0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 6: 4, 7: 4, 10: 6, 100: 66}

	for n, threshold := range expected {
		vs := NewValidatorSet(testValidators(n))
		if vs.Threshold() != threshold {
			t.Fatalf("threshold of %d validators should be %d, not %d", n, threshold, vs.Threshold())
		}
		if vs.Threshold() < 0 || vs.Threshold() > vs.Len() {
			t.Fatalf("threshold %d out of [0, %d]", vs.Threshold(), vs.Len())
		}
	}
}

func TestDuplicateValidators(t *testing.T) {
	vs := NewValidatorSet([]*Validator{
		NewValidator("val1", "pub1"),
		NewValidator("val1", "other"),
		NewValidator("val2", "pub2"),
	})

	if vs.Len() != 2 {
		t.Fatalf("Len should be 2, not %d", vs.Len())
	}
	if v, _ := vs.Get("val1"); v.PublicKey != "pub1" {
		t.Fatalf("first occurrence of val1 should be kept, got %s", v.PublicKey)
	}
}

func TestQuorumBoundary(t *testing.T) {
	for n := 1; n <= 10; n++ {
		engine := newTestEngine(t, n, false)
		threshold := engine.Threshold()

		sigs := make([]Signature, threshold)
		if !engine.CheckQuorum(sigs) {
			t.Fatalf("n=%d: %d signatures should reach quorum", n, threshold)
		}
		if threshold > 0 && engine.CheckQuorum(sigs[:threshold-1]) {
			t.Fatalf("n=%d: %d signatures should not reach quorum", n, threshold-1)
		}
	}
}

func TestCheckQuorumCountsOnly(t *testing.T) {
	engine := newTestEngine(t, 3, false)

	forged := []Signature{{"nobody", "x"}, {"nobody", "x"}}
	if !engine.CheckQuorum(forged) {
		t.Fatal("CheckQuorum only counts signatures")
	}
}

func TestProposeBlock(t *testing.T) {
	engine := newTestEngine(t, 3, false)

	txs := []ledger.Transaction{
		{ID: "tx1", Kind: "transfer", Origin: "user1", Payload: "data", Signature: "sig1"},
		{ID: "tx2", Kind: "transfer", Origin: "user2", Payload: "data", Signature: "sig2"},
	}

	before := time.Now().UTC()
	block := engine.ProposeBlock(4, "prev", txs, "val2")

	if block.Header.Height != 4 || block.Header.PrevHash != "prev" || block.Header.Proposer != "val2" {
		t.Fatalf("unexpected header %+v", block.Header)
	}
	if block.Header.MerkleRoot != ledger.MerkleRoot(txs) {
		t.Fatal("merkle root should be computed from the transactions")
	}
	if block.Header.Timestamp.Location() != time.UTC || block.Header.Timestamp.Before(before) {
		t.Fatalf("timestamp should be the current UTC time, got %v", block.Header.Timestamp)
	}

	txs[0].Payload = "changed"
	if block.Transactions[0].Payload != "data" {
		t.Fatal("block should own a copy of the transactions")
	}

	empty := engine.ProposeBlock(1, "", nil, "val1")
	if empty.Header.MerkleRoot != "" || len(empty.Transactions) != 0 {
		t.Fatal("block without transactions should have an empty merkle root")
	}
}

func TestSignBlock(t *testing.T) {
	engine := newTestEngine(t, 3, false)
	block := engine.ProposeBlock(1, "", nil, "val1")

	sigs := engine.SignBlock(block)
	if len(sigs) != 3 {
		t.Fatalf("expected 3 signatures, got %d", len(sigs))
	}

	for i, sig := range sigs {
		id := fmt.Sprintf("val%d", i+1)
		if sig.Validator != id {
			t.Fatalf("signature %d should be from %s, not %s", i, id, sig.Validator)
		}
		if expected := crypto.SHA256Hex(id, ledger.HashHeader(block.Header)); sig.Signature != expected {
			t.Fatalf("signature of %s should be %s, not %s", id, expected, sig.Signature)
		}
	}
}

func TestCheckVerifiedQuorum(t *testing.T) {
	engine := newTestEngine(t, 3, true)
	block := engine.ProposeBlock(1, "", nil, "val1")
	sigs := engine.SignBlock(block)

	testCases := []struct {
		name string
		sigs []Signature
		ok   bool
	}{
		{"all", sigs, true},
		{"threshold", sigs[:2], true},
		{"below threshold", sigs[:1], false},
		{"duplicates", []Signature{sigs[0], sigs[0], sigs[0]}, false},
		{"unknown validator", []Signature{sigs[0], {"val9", sigs[1].Signature}}, false},
		{"bad signature", []Signature{sigs[0], {"val2", "bogus"}}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if ok := engine.CheckVerifiedQuorum(block.Header, tc.sigs); ok != tc.ok {
				t.Fatalf("CheckVerifiedQuorum should be %v", tc.ok)
			}

			err := engine.Ratify(block.Header, tc.sigs)
			if tc.ok && err != nil {
				t.Fatal(err)
			}
			if !tc.ok && !IsQuorumNotReached(err) {
				t.Fatalf("Ratify should return a QuorumErr, not %v", err)
			}
		})
	}

	other := block.Header
	other.Proposer = "val3"
	if engine.CheckVerifiedQuorum(other, sigs) {
		t.Fatal("signatures over another header should not verify")
	}
}

func TestRatifyCount(t *testing.T) {
	engine := newTestEngine(t, 4, false)
	block := engine.ProposeBlock(1, "", nil, "val1")

	err := engine.Ratify(block.Header, []Signature{{"x", "y"}})
	qerr, ok := err.(QuorumErr)
	if !ok {
		t.Fatalf("expected QuorumErr, got %v", err)
	}
	if qerr.Have != 1 || qerr.Need != 2 {
		t.Fatalf("expected 1/2, got %d/%d", qerr.Have, qerr.Need)
	}
}

// Three validators, one transaction, from proposal to proof.
func TestThreeValidatorScenario(t *testing.T) {
	engine := newTestEngine(t, 3, false)
	l := ledger.NewLedger(ledger.NewInmemStore(), cm.NewTestEntry(t, "ledger"))

	if engine.Threshold() != 2 {
		t.Fatalf("threshold should be 2, not %d", engine.Threshold())
	}

	tx1 := ledger.Transaction{ID: "tx1", Kind: "transfer", Origin: "user1", Payload: "data", Signature: "sig1"}
	block := engine.ProposeBlock(1, "", []ledger.Transaction{tx1}, "val1")

	sigs := engine.SignBlock(block)
	if len(sigs) != 3 || !engine.CheckQuorum(sigs) {
		t.Fatal("3 signatures should reach quorum")
	}
	if err := l.Append(block); err != nil {
		t.Fatal(err)
	}

	got, err := l.GetByHeight(1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hash() != block.Hash() {
		t.Fatal("GetByHeight(1) should return the appended block")
	}

	found, index, err := l.FindTransaction("tx1")
	if err != nil {
		t.Fatal(err)
	}
	if found.Height() != 1 || index != 0 {
		t.Fatalf("tx1 should be at (1, 0), not (%d, %d)", found.Height(), index)
	}

	proof, err := ledger.BuildTree(found.Transactions).Proof(index)
	if err != nil {
		t.Fatal(err)
	}
	if len(proof.SiblingHashes) != 0 {
		t.Fatalf("single leaf proof should be empty, got %v", proof.SiblingHashes)
	}
	if ledger.HashTransaction(tx1) != found.Header.MerkleRoot {
		t.Fatal("single transaction hash should be the merkle root")
	}
	if !merkle.VerifyProof(ledger.HashTransaction(tx1), proof, found.Header.MerkleRoot) {
		t.Fatal("proof should verify")
	}
}
