package commands

//CLIConfig contains configuration for the dummy host command
type CLIConfig struct {
	Name             string `mapstructure:"name"`
	BindAddr         string `mapstructure:"listen"`
	Transport        string `mapstructure:"transport"`
	SignalAddr       string `mapstructure:"signal-addr"`
	SignalInsecure   bool   `mapstructure:"signal-insecure"`
	SignalSkipVerify bool   `mapstructure:"signal-skip-verify"`
	Discard          bool   `mapstructure:"discard"`
	LogLevel         string `mapstructure:"log"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Name:       "Dummy",
		BindAddr:   "127.0.0.1:1339",
		Transport:  "socket",
		SignalAddr: "127.0.0.1:2443",
		LogLevel:   "debug",
	}
}
