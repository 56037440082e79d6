package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mosaicnetworks/gcl/src/common"
	"github.com/mosaicnetworks/gcl/src/consensus"
	"github.com/mosaicnetworks/gcl/src/ledger"
	"github.com/mosaicnetworks/gcl/src/merkle"
	"github.com/mosaicnetworks/gcl/src/node"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, validators []*consensus.Validator, signer consensus.Signer) *httptest.Server {
	registry := prometheus.NewRegistry()

	conf := node.TestConfig(t)
	conf.Registerer = registry

	engine := consensus.NewEngine(consensus.NewValidatorSet(validators), signer, false, common.NewTestEntry(t, "consensus"))
	l := ledger.NewLedger(ledger.NewInmemStore(), common.NewTestEntry(t, "ledger"))

	n, err := node.NewNode(conf, engine, l)
	require.NoError(t, err)

	s := NewService("", n, registry, common.NewTestEntry(t, "service"))

	server := httptest.NewServer(s.Handler())
	t.Cleanup(server.Close)

	return server
}

func post(t *testing.T, server *httptest.Server, path, body string) *http.Response {
	resp, err := http.Post(server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, server *httptest.Server, path string) *http.Response {
	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

const tx1 = `{"id":"tx1","kind":"transfer","origin":"user1","payload":"data","signature":"sig1"}`

func TestSubmitTxAndQuery(t *testing.T) {
	server := newTestService(t, consensus.DefaultValidators(), nil)

	resp := post(t, server, "/gcl/tx", tx1)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var receipt node.Receipt
	decode(t, resp, &receipt)
	assert.Equal(t, uint64(1), receipt.Height)
	assert.Len(t, receipt.Signatures, 3)

	resp = get(t, server, "/gcl/block/1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var block ledger.Block
	decode(t, resp, &block)
	assert.Equal(t, receipt.BlockHash, block.Hash())
	assert.Equal(t, node.DefaultProposer, block.Header.Proposer)
	require.Len(t, block.Transactions, 1)
	assert.Equal(t, "tx1", block.Transactions[0].ID)

	resp = get(t, server, "/gcl/proof/tx1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var proof node.ProofResult
	decode(t, resp, &proof)
	assert.Empty(t, proof.Proof.SiblingHashes)
	assert.True(t, merkle.VerifyProof(block.Transactions[0].Hash(), proof.Proof, proof.MerkleRoot))
}

func TestSubmitBlock(t *testing.T) {
	server := newTestService(t, consensus.DefaultValidators(), nil)

	txs := []string{}
	for i := 1; i <= 3; i++ {
		txs = append(txs, fmt.Sprintf(`{"id":"b%d","kind":"k","origin":"o","payload":"p","signature":"s"}`, i))
	}
	body := fmt.Sprintf(`{"proposer":"val3","transactions":[%s]}`, strings.Join(txs, ","))

	resp := post(t, server, "/gcl/blocks", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, server, "/gcl/proof/b3")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var proof node.ProofResult
	decode(t, resp, &proof)
	assert.Equal(t, 2, proof.Proof.LeafIndex)
	assert.Len(t, proof.Proof.SiblingHashes, 2)

	tx := ledger.Transaction{ID: "b3", Kind: "k", Origin: "o", Payload: "p", Signature: "s"}
	assert.True(t, ledger.VerifyTransaction(tx, proof.Proof, proof.MerkleRoot))
}

func TestStatusCodes(t *testing.T) {
	server := newTestService(t, consensus.DefaultValidators(), nil)
	post(t, server, "/gcl/tx", tx1)

	testCases := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodPost, "/gcl/tx", "{not json", http.StatusBadRequest},
		{http.MethodPost, "/gcl/blocks", "[]", http.StatusBadRequest},
		{http.MethodGet, "/gcl/block/abc", "", http.StatusBadRequest},
		{http.MethodGet, "/gcl/block/-1", "", http.StatusBadRequest},
		{http.MethodGet, "/gcl/block/0", "", http.StatusNotFound},
		{http.MethodGet, "/gcl/block/2", "", http.StatusNotFound},
		{http.MethodGet, "/gcl/proof/missing", "", http.StatusNotFound},
		{http.MethodGet, "/gcl/proof/", "", http.StatusBadRequest},
		{http.MethodGet, "/gcl/tx", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/gcl/block/1", "", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var resp *http.Response
			if tc.method == http.MethodPost {
				resp = post(t, server, tc.path, tc.body)
			} else {
				resp = get(t, server, tc.path)
			}
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

type refusingSigner struct{}

func (refusingSigner) Sign(v *consensus.Validator, digest string) (string, error) {
	return "", consensus.NoKeyErr{Validator: v.ID}
}

func (refusingSigner) Verify(*consensus.Validator, string, string) bool {
	return false
}

func TestQuorumNotReached(t *testing.T) {
	server := newTestService(t, consensus.DefaultValidators(), refusingSigner{})

	resp := post(t, server, "/gcl/tx", tx1)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = get(t, server, "/gcl/block/1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidatorsStatsVerify(t *testing.T) {
	server := newTestService(t, consensus.DefaultValidators(), nil)
	post(t, server, "/gcl/tx", tx1)

	var validators []consensus.Validator
	decode(t, get(t, server, "/gcl/validators"), &validators)
	require.Len(t, validators, 3)
	assert.Equal(t, "val1", validators[0].ID)
	assert.Equal(t, "pub1", validators[0].PublicKey)

	var stats map[string]string
	decode(t, get(t, server, "/gcl/stats"), &stats)
	assert.Equal(t, "1", stats["height"])
	assert.Equal(t, "2", stats["threshold"])

	var res VerifyResult
	decode(t, get(t, server, "/gcl/verify"), &res)
	assert.True(t, res.Valid)
	assert.Equal(t, uint64(1), res.Height)
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestService(t, consensus.DefaultValidators(), nil)
	post(t, server, "/gcl/tx", tx1)

	resp := get(t, server, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(strings.Builder)
	_, err := io.Copy(buf, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "gcl_ledger_height 1")
	assert.Contains(t, buf.String(), `gcl_submissions_total{outcome="accepted"} 1`)
}
