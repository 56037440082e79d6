package gcl

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mosaicnetworks/gcl/src/config"
	"github.com/mosaicnetworks/gcl/src/consensus"
	"github.com/mosaicnetworks/gcl/src/ledger"
	"github.com/mosaicnetworks/gcl/src/node"
	"github.com/mosaicnetworks/gcl/src/service"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// GCL is a fully assembled node.
type GCL struct {
	Config     *config.Config
	Validators *consensus.ValidatorSet
	Signer     consensus.Signer
	Store      ledger.Store
	Ledger     *ledger.Ledger
	Node       *node.Node
	Service    *service.Service
	Registry   *prometheus.Registry

	logger *logrus.Entry
}

// NewGCL ...
func NewGCL(conf *config.Config) *GCL {
	return &GCL{
		Config: conf,
		logger: conf.Logger(),
	}
}

// Init builds every component. Validators or Signer set before Init are
// kept.
func (g *GCL) Init() error {
	if err := g.initValidators(); err != nil {
		g.logger.WithError(err).Error("Cannot load validators")
		return err
	}

	if err := g.initSigner(); err != nil {
		g.logger.WithError(err).Error("Cannot create signer")
		return err
	}

	if err := g.initStore(); err != nil {
		g.logger.WithError(err).Error("Cannot open store")
		return err
	}

	if err := g.initLedger(); err != nil {
		g.logger.WithError(err).Error("Cannot load ledger")
		return err
	}

	if err := g.initNode(); err != nil {
		g.logger.WithError(err).Error("Cannot create node")
		return err
	}

	g.initService()

	return nil
}

func (g *GCL) initValidators() error {
	if g.Validators != nil {
		return nil
	}

	jsonValidators := consensus.NewJSONValidatorSetFile(g.Config.Validators())

	validators, err := jsonValidators.ValidatorSet()
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "reading %s", jsonValidators.Path())
		}

		g.logger.WithField("path", jsonValidators.Path()).Debug("No validators file, using default validators")
		validators = consensus.NewValidatorSet(consensus.DefaultValidators())
	}

	if validators.Len() == 0 {
		return fmt.Errorf("%s does not define any validator", jsonValidators.Path())
	}

	g.logger.WithFields(logrus.Fields{
		"validators": validators.IDs(),
		"threshold":  validators.Threshold(),
	}).Debug("Validators")

	g.Validators = validators

	return nil
}

func (g *GCL) initSigner() error {
	if g.Signer != nil {
		return nil
	}

	switch g.Config.Signer {
	case config.HashSigner, "":
		g.Signer = consensus.NewHashSigner()
	case config.ECDSASigner:
		signer, err := consensus.LoadKeySigner(g.Config.KeysDir(), g.Validators, g.logger)
		if err != nil {
			return err
		}
		if signer.Len() == 0 {
			g.logger.WithField("keys", g.Config.KeysDir()).Warn("No validator keys, blocks will not reach quorum")
		}
		g.Signer = signer
	default:
		return fmt.Errorf("unknown signer %q", g.Config.Signer)
	}

	return nil
}

func (g *GCL) initStore() error {
	if !g.Config.Store {
		g.Store = ledger.NewInmemStore()

		g.logger.Debug("created new in-mem store")

		return nil
	}

	g.logger.WithField("path", g.Config.DatabaseDir).Debug("Attempting to load or create database")

	store, err := ledger.LoadOrCreateBadgerStore(
		g.Config.CacheSize,
		g.Config.DatabaseDir,
		g.logger.WithField("prefix", "badger"),
	)
	if err != nil {
		return err
	}

	if store.Loaded() {
		g.logger.WithField("height", store.LastHeight()).Debug("loaded badger store from existing database")
	} else {
		g.logger.Debug("created new badger store from fresh database")
	}

	g.Store = store

	return nil
}

// initLedger wraps the store and audits whatever it already holds.
func (g *GCL) initLedger() error {
	g.Ledger = ledger.NewLedger(g.Store, g.logger.WithField("prefix", "ledger"))

	if g.Ledger.Height() == 0 {
		return nil
	}

	return errors.Wrap(g.Ledger.Verify(), "verifying stored ledger")
}

func (g *GCL) initNode() error {
	g.Registry = prometheus.NewRegistry()
	g.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := consensus.NewEngine(
		g.Validators,
		g.Signer,
		g.Config.StrictQuorum,
		g.logger.WithField("prefix", "consensus"),
	)

	n, err := node.NewNode(
		node.NewConfig(g.Config.Proposer, g.Registry, g.logger.WithField("prefix", "node")),
		engine,
		g.Ledger,
	)
	if err != nil {
		return err
	}

	g.Node = n

	return nil
}

func (g *GCL) initService() {
	if g.Config.NoService {
		return
	}

	g.Service = service.NewService(
		g.Config.ServiceAddr,
		g.Node,
		g.Registry,
		g.logger.WithField("prefix", "service"),
	)
}

// Run serves the API until ctx is cancelled or the service fails. Without a
// service it blocks until ctx is cancelled.
func (g *GCL) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	if g.Service != nil {
		group.Go(g.Service.Serve)
	}

	group.Go(func() error {
		<-ctx.Done()

		g.logger.Debug("Shutting down")

		if g.Service == nil {
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return g.Service.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// Close releases the store.
func (g *GCL) Close() error {
	if g.Store == nil {
		return nil
	}
	return g.Store.Close()
}
