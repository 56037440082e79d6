package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/mosaicnetworks/gcl/src/common"
	"github.com/mosaicnetworks/gcl/src/consensus"
	"github.com/mosaicnetworks/gcl/src/ledger"
	"github.com/mosaicnetworks/gcl/src/node"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Service ...
type Service struct {
	sync.Mutex

	bindAddress string
	node        *node.Node
	gatherer    prometheus.Gatherer
	mux         *http.ServeMux
	server      *http.Server
	closed      bool
	logger      *logrus.Entry
}

// NewService creates the GCL HTTP API for n. When gatherer is not nil, its
// metrics are exposed on /metrics.
func NewService(bindAddress string, n *node.Node, gatherer prometheus.Gatherer, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		node:        n,
		gatherer:    gatherer,
		mux:         http.NewServeMux(),
		logger:      logger,
	}

	service.registerHandlers()

	return &service
}

func (s *Service) registerHandlers() {
	s.logger.Debug("Registering GCL API handlers")
	s.mux.HandleFunc("/gcl/tx", s.makeHandler(http.MethodPost, s.SubmitTx))
	s.mux.HandleFunc("/gcl/blocks", s.makeHandler(http.MethodPost, s.SubmitBlock))
	s.mux.HandleFunc("/gcl/block/", s.makeHandler(http.MethodGet, s.GetBlock))
	s.mux.HandleFunc("/gcl/proof/", s.makeHandler(http.MethodGet, s.GetProof))
	s.mux.HandleFunc("/gcl/validators", s.makeHandler(http.MethodGet, s.GetValidators))
	s.mux.HandleFunc("/gcl/stats", s.makeHandler(http.MethodGet, s.GetStats))
	s.mux.HandleFunc("/gcl/verify", s.makeHandler(http.MethodGet, s.GetVerify))
	if s.gatherer != nil {
		s.mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

func (s *Service) makeHandler(method string, fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		fn(w, r)
	}
}

// Handler returns the handler serving the API.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Serve listens on the bind address until Shutdown is called. This is a
// blocking call.
func (s *Service) Serve() error {
	s.Lock()
	if s.closed {
		s.Unlock()
		return nil
	}
	s.server = &http.Server{
		Addr:    s.bindAddress,
		Handler: s.mux,
	}
	server := s.server
	s.Unlock()

	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving GCL API")

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops a running Serve.
func (s *Service) Shutdown(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	s.closed = true
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// SubmitRequest is the body of POST /gcl/blocks.
type SubmitRequest struct {
	Transactions []ledger.Transaction `json:"transactions"`
	Proposer     string               `json:"proposer"`
}

// SubmitTx finalizes a block with a single transaction.
func (s *Service) SubmitTx(w http.ResponseWriter, r *http.Request) {
	var tx ledger.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		s.logger.WithError(err).Debug("Decoding transaction")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	receipt, err := s.node.SubmitTx(tx)
	s.returnReceipt(w, receipt, err)
}

// SubmitBlock finalizes a block with a batch of transactions.
func (s *Service) SubmitBlock(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.WithError(err).Debug("Decoding submit request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	receipt, err := s.node.Submit(req.Transactions, req.Proposer)
	s.returnReceipt(w, receipt, err)
}

func (s *Service) returnReceipt(w http.ResponseWriter, receipt *node.Receipt, err error) {
	if err != nil {
		if consensus.IsQuorumNotReached(err) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		s.logger.WithError(err).Error("Submitting block")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	returnJSON(w, receipt)
}

// GetBlock ...
func (s *Service) GetBlock(w http.ResponseWriter, r *http.Request) {
	param := strings.TrimPrefix(r.URL.Path, "/gcl/block/")

	height, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		s.logger.WithError(err).Debugf("Parsing height parameter %s", param)
		http.Error(w, "invalid height", http.StatusBadRequest)
		return
	}

	block, err := s.node.GetBlock(height)
	if err != nil {
		s.returnLookupError(w, err, "Retrieving block")
		return
	}

	returnJSON(w, block)
}

// GetProof ...
func (s *Service) GetProof(w http.ResponseWriter, r *http.Request) {
	txID := strings.TrimPrefix(r.URL.Path, "/gcl/proof/")
	if txID == "" {
		http.Error(w, "missing transaction id", http.StatusBadRequest)
		return
	}

	proof, err := s.node.GetProof(txID)
	if err != nil {
		s.returnLookupError(w, err, "Building proof")
		return
	}

	returnJSON(w, proof)
}

// GetValidators ...
func (s *Service) GetValidators(w http.ResponseWriter, r *http.Request) {
	returnJSON(w, s.node.GetValidators())
}

// GetStats ...
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	returnJSON(w, s.node.GetStats())
}

// VerifyResult is the body returned by GET /gcl/verify.
type VerifyResult struct {
	Valid  bool   `json:"valid"`
	Height uint64 `json:"height"`
	Error  string `json:"error,omitempty"`
}

// GetVerify audits the ledger. A broken chain is reported in the body, not
// with an error status.
func (s *Service) GetVerify(w http.ResponseWriter, r *http.Request) {
	res := VerifyResult{
		Valid:  true,
		Height: s.node.Height(),
	}

	if err := s.node.Verify(); err != nil {
		s.logger.WithError(err).Warn("Ledger verification failed")
		res.Valid = false
		res.Error = err.Error()
	}

	returnJSON(w, res)
}

func (s *Service) returnLookupError(w http.ResponseWriter, err error, msg string) {
	if common.IsNotFound(err) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.WithError(err).Error(msg)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func returnJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(v)
}
