package commands

import (
	"github.com/FreeAllMedia/fam-rdt/src/config"
)

//CLIConfig contains configuration for the Run command
type CLIConfig struct {
	Rdt     config.Config `mapstructure:",squash"`
	Discard bool          `mapstructure:"discard"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Rdt: *config.NewDefaultConfig(),
	}
}
