package node

import (
	"testing"

	"github.com/mosaicnetworks/gcl/src/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// DefaultProposer is the proposer of blocks submitted without one.
const DefaultProposer = "val1"

// Config ...
type Config struct {
	Proposer   string
	Registerer prometheus.Registerer
	Logger     *logrus.Entry
}

// NewConfig ...
func NewConfig(proposer string, registerer prometheus.Registerer, logger *logrus.Entry) *Config {
	return &Config{
		Proposer:   proposer,
		Registerer: registerer,
		Logger:     logger,
	}
}

// DefaultConfig returns a Config with the default proposer, a debug logger
// and no metrics registry.
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		Proposer: DefaultProposer,
		Logger:   logrus.NewEntry(logger),
	}
}

// TestConfig is DefaultConfig with logs sent to t.
func TestConfig(t testing.TB) *Config {
	config := DefaultConfig()
	config.Logger = common.NewTestEntry(t, "node")
	return config
}
