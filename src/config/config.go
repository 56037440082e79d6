package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mosaicnetworks/gcl/src/common"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultBadgerFile is the default name of the folder containing the Badger
	// database
	DefaultBadgerFile = "badger_db"

	// DefaultValidatorsFile is the default name of the file listing the
	// validator set.
	DefaultValidatorsFile = "validators.json"

	// DefaultKeysDir is the default name of the folder holding the private
	// keys of the validators this node signs for.
	DefaultKeysDir = "keys"
)

// Signer types.
const (
	HashSigner  = "hash"
	ECDSASigner = "ecdsa"
)

// Default configuration values.
const (
	DefaultLogLevel     = "debug"
	DefaultServiceAddr  = "127.0.0.1:8080"
	DefaultNoService    = false
	DefaultStore        = false
	DefaultCacheSize    = 500
	DefaultProposer     = "val1"
	DefaultSigner       = HashSigner
	DefaultStrictQuorum = false
)

// Config contains all the configuration properties of a GCL node.
type Config struct {
	// DataDir is the top-level directory containing GCL configuration and
	// data
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, if set, receives a copy of every log entry.
	LogFile string `mapstructure:"log-file"`

	// NoService disables the HTTP API service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the HTTP API service.
	ServiceAddr string `mapstructure:"service-listen"`

	// Store activates persistant storage.
	Store bool `mapstructure:"store"`

	// DatabaseDir is the directory containing database files.
	DatabaseDir string `mapstructure:"db"`

	// CacheSize is the max number of blocks in the store cache.
	CacheSize int `mapstructure:"cache-size"`

	// Proposer is the proposer of blocks submitted without one.
	Proposer string `mapstructure:"proposer"`

	// Signer selects how validator signatures are produced: "hash" or
	// "ecdsa".
	Signer string `mapstructure:"signer"`

	// StrictQuorum only counts distinct validators with valid signatures
	// towards quorum.
	StrictQuorum bool `mapstructure:"strict-quorum"`

	// ValidatorsFile overrides the path of validators.json. When neither
	// file exists, the three mock validators val1, val2 and val3 are used.
	ValidatorsFile string `mapstructure:"validators"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:      DefaultDataDir(),
		LogLevel:     DefaultLogLevel,
		ServiceAddr:  DefaultServiceAddr,
		NoService:    DefaultNoService,
		Store:        DefaultStore,
		DatabaseDir:  DefaultDatabaseDir(),
		CacheSize:    DefaultCacheSize,
		Proposer:     DefaultProposer,
		Signer:       DefaultSigner,
		StrictQuorum: DefaultStrictQuorum,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB) *Config {
	config := NewDefaultConfig()
	config.SetDataDir(t.TempDir())
	config.logger = common.NewTestLogger(t)
	return config
}

// SetDataDir sets the top-level GCL directory, and updates the database
// directory if it is currently set to the default value. If the database
// directory is not currently the default, it means the user has explicitely set
// it to something else, so avoid changing it again here.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// Validators returns the full path of the validator set file.
func (c *Config) Validators() string {
	if c.ValidatorsFile != "" {
		return c.ValidatorsFile
	}
	return filepath.Join(c.DataDir, DefaultValidatorsFile)
}

// KeysDir returns the full path of the folder holding validator keys.
func (c *Config) KeysDir() string {
	return filepath.Join(c.DataDir, DefaultKeysDir)
}

// Keyfile returns the full path of the private key of a validator.
func (c *Config) Keyfile(validatorID string) string {
	return filepath.Join(c.KeysDir(), validatorID)
}

// Logger returns a formatted logrus Entry, with prefix set to "gcl".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if c.LogFile != "" {
			c.logger.Hooks.Add(lfshook.NewHook(
				logFileMap(c.LogFile),
				&logrus.JSONFormatter{},
			))
		}
	}
	return c.logger.WithField("prefix", "gcl")
}

func logFileMap(path string) lfshook.PathMap {
	pathMap := lfshook.PathMap{}
	for _, level := range logrus.AllLevels {
		pathMap[level] = path
	}
	return pathMap
}

// DefaultDatabaseDir returns the default path for the badger database files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for top-level GCL config
// based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".GCL")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "GCL")
		} else {
			return filepath.Join(home, ".gcl")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
