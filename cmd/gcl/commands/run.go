package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mosaicnetworks/gcl/src/gcl"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//NewRunCmd returns the command that starts a GCL node
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run node",
		PreRunE: loadConfig,
		RunE:    runGCL,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runGCL(cmd *cobra.Command, args []string) error {
	engine := gcl.NewGCL(&_config.GCL)

	if err := engine.Init(); err != nil {
		_config.GCL.Logger().WithError(err).Error("Cannot initialize engine")
		return err
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return engine.Run(ctx)
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {

	cmd.Flags().String("datadir", _config.GCL.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.GCL.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", _config.GCL.LogFile, "Also write logs, as JSON, to this file")

	// Service
	cmd.Flags().StringP("service-listen", "s", _config.GCL.ServiceAddr, "Listen IP:Port for HTTP service")
	cmd.Flags().Bool("no-service", _config.GCL.NoService, "Disable HTTP service")

	// Store
	cmd.Flags().Bool("store", _config.GCL.Store, "Use badgerDB instead of in-mem DB")
	cmd.Flags().String("db", _config.GCL.DatabaseDir, "Dabatabase directory")
	cmd.Flags().Int("cache-size", _config.GCL.CacheSize, "Number of blocks in the LRU cache")

	// Consensus
	cmd.Flags().String("proposer", _config.GCL.Proposer, "Proposer of blocks submitted without one")
	cmd.Flags().String("signer", _config.GCL.Signer, "hash, ecdsa")
	cmd.Flags().Bool("strict-quorum", _config.GCL.StrictQuorum, "Only count distinct validators with valid signatures")
	cmd.Flags().String("validators", _config.GCL.ValidatorsFile, "Validators file (default [datadir]/validators.json)")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.GCL.SetDataDir(_config.GCL.DataDir)

	logFields := logrus.Fields{
		"gcl.DataDir":      _config.GCL.DataDir,
		"gcl.LogLevel":     _config.GCL.LogLevel,
		"gcl.ServiceAddr":  _config.GCL.ServiceAddr,
		"gcl.NoService":    _config.GCL.NoService,
		"gcl.Store":        _config.GCL.Store,
		"gcl.Proposer":     _config.GCL.Proposer,
		"gcl.Signer":       _config.GCL.Signer,
		"gcl.StrictQuorum": _config.GCL.StrictQuorum,
		"gcl.Validators":   _config.GCL.Validators(),
	}

	if _config.GCL.Store {
		logFields["gcl.DatabaseDir"] = _config.GCL.DatabaseDir
		logFields["gcl.CacheSize"] = _config.GCL.CacheSize
	}

	_config.GCL.Logger().WithFields(logFields).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/gcl.toml (.json, .yaml also work)
	viper.SetConfigName("gcl")               // name of config file (without extension)
	viper.AddConfigPath(_config.GCL.DataDir) // search root directory

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.GCL.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.GCL.Logger().Debugf("No config file found in: %s", _config.GCL.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}
