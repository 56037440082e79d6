package commands

import (
	"github.com/mosaicnetworks/gcl/src/config"
)

//CLIConfig contains configuration for the Run command
type CLIConfig struct {
	GCL config.Config `mapstructure:",squash"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		GCL: *config.NewDefaultConfig(),
	}
}
