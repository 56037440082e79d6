package client

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mosaicnetworks/gcl/src/ledger"
	"github.com/mosaicnetworks/gcl/src/node"
	"github.com/mosaicnetworks/gcl/src/service"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// StatusErr is returned when the service answers with an error status.
type StatusErr struct {
	Code    int
	Message string
}

func (e StatusErr) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	se, ok := err.(StatusErr)
	return ok && se.Code == http.StatusNotFound
}

// IsQuorumNotReached reports whether err is a 409 from the service.
func IsQuorumNotReached(err error) bool {
	se, ok := err.(StatusErr)
	return ok && se.Code == http.StatusConflict
}

// Client talks to the HTTP API of a GCL node.
type Client struct {
	http   *resty.Client
	logger *logrus.Entry
}

// NewClient creates a Client for the service at addr, either host:port or a
// full URL.
func NewClient(addr string, logger *logrus.Entry) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}

	rc := resty.New().
		SetBaseURL(addr).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json").
		SetLogger(logger)

	return &Client{
		http:   rc,
		logger: logger,
	}
}

// SubmitTx submits a block holding a single transaction.
func (c *Client) SubmitTx(tx ledger.Transaction) (*node.Receipt, error) {
	receipt := new(node.Receipt)
	if err := c.do(c.http.R().SetBody(tx).SetResult(receipt), http.MethodPost, "/gcl/tx"); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Submit submits a block holding txs, proposed by proposer.
func (c *Client) Submit(txs []ledger.Transaction, proposer string) (*node.Receipt, error) {
	body := service.SubmitRequest{
		Transactions: txs,
		Proposer:     proposer,
	}

	receipt := new(node.Receipt)
	if err := c.do(c.http.R().SetBody(body).SetResult(receipt), http.MethodPost, "/gcl/blocks"); err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetBlock ...
func (c *Client) GetBlock(height uint64) (*ledger.Block, error) {
	block := new(ledger.Block)
	if err := c.do(c.http.R().SetResult(block), http.MethodGet, "/gcl/block/"+strconv.FormatUint(height, 10)); err != nil {
		return nil, err
	}
	return block, nil
}

// GetProof ...
func (c *Client) GetProof(txID string) (*node.ProofResult, error) {
	proof := new(node.ProofResult)
	if err := c.do(c.http.R().SetResult(proof).SetPathParam("txid", txID), http.MethodGet, "/gcl/proof/{txid}"); err != nil {
		return nil, err
	}
	return proof, nil
}

// GetStats ...
func (c *Client) GetStats() (map[string]string, error) {
	stats := map[string]string{}
	if err := c.do(c.http.R().SetResult(&stats), http.MethodGet, "/gcl/stats"); err != nil {
		return nil, err
	}
	return stats, nil
}

// Verify asks the node to audit its ledger.
func (c *Client) Verify() (*service.VerifyResult, error) {
	res := new(service.VerifyResult)
	if err := c.do(c.http.R().SetResult(res), http.MethodGet, "/gcl/verify"); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) do(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   resp.Request.URL,
		"status": resp.StatusCode(),
	}).Debug("Request")

	if resp.IsError() {
		return StatusErr{
			Code:    resp.StatusCode(),
			Message: strings.TrimSpace(resp.String()),
		}
	}

	return nil
}
