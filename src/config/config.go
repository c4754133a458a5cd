package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/FreeAllMedia/fam-rdt/src/common"
	"github.com/FreeAllMedia/fam-rdt/src/proxy"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultCertFile is the default name of the file containing the TLS
	// certificate for connecting to the WAMP router.
	DefaultCertFile = "cert.pem"
)

// Transport names.
const (
	// SocketTransport carries the channel over JSON-RPC/TCP sockets.
	SocketTransport = "socket"

	// WampTransport routes the channel through a WAMP router.
	WampTransport = "wamp"
)

// Default configuration values.
const (
	DefaultLogLevel         = "debug"
	DefaultName             = "rdt"
	DefaultTransport        = SocketTransport
	DefaultTimeout          = 1000 * time.Millisecond
	DefaultSignalAddr       = "127.0.0.1:2443"
	DefaultSignalSkipVerify = false
	DefaultSignalInsecure   = false
)

// Config contains all the configuration properties of a RequestProxy
// instance.
type Config struct {
	// DataDir is the top-level directory containing configuration and data.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// HostURL is the address of a host whose request endpoint the proxy
	// forwards verb calls to. It is ignored when ChildURL is set.
	HostURL string `mapstructure:"host"`

	// ChildURL is the address of a child counterpart. When set, the proxy
	// takes the parent role and declares RemoteFunctions as callable there.
	ChildURL string `mapstructure:"child"`

	// Name identifies this instance. It isolates channels from one another:
	// with the WAMP transport it is used as the routing realm.
	Name string `mapstructure:"name"`

	// BindAddr is the local address:port where the socket transport serves
	// the local function bindings. When empty, nothing is exposed locally.
	BindAddr string `mapstructure:"listen"`

	// Transport selects the channel implementation: "socket" or "wamp".
	Transport string `mapstructure:"transport"`

	// Timeout applies to dialing and to waiting for call results. Delivery
	// semantics within that window belong to the channel.
	Timeout time.Duration `mapstructure:"timeout"`

	// SignalAddr is the IP:PORT of the WAMP router. It is ignored unless the
	// WAMP transport is selected.
	SignalAddr string `mapstructure:"signal-addr"`

	// SignalInsecure makes the WAMP connection use plain websockets instead
	// of wss. This should only be used for testing.
	SignalInsecure bool `mapstructure:"signal-insecure"`

	// SignalSkipVerify controls whether the WAMP client verifies the
	// router's certificate chain and host name. In this mode, TLS is
	// susceptible to man-in-the-middle attacks. This should be used only for
	// testing.
	SignalSkipVerify bool `mapstructure:"signal-skip-verify"`

	// RemoteFunctions are the names declared as callable on the child
	// counterpart. Only meaningful in the parent role.
	RemoteFunctions []string `mapstructure:"remote-functions"`

	// LocalFunctions are the functions this side exposes to the remote side.
	// They are set programmatically, not parsed from configuration files.
	LocalFunctions map[string]proxy.FunctionHandler

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values. All the
// default configuration values are set, even if they cancel eachother out.
// For example, when Transport is "socket", all the Signal options are
// ignored.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:          DefaultDataDir(),
		LogLevel:         DefaultLogLevel,
		Name:             DefaultName,
		Transport:        DefaultTransport,
		Timeout:          DefaultTimeout,
		SignalAddr:       DefaultSignalAddr,
		SignalInsecure:   DefaultSignalInsecure,
		SignalSkipVerify: DefaultSignalSkipVerify,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t)
	return config
}

// SetDataDir sets the top-level directory.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
}

// CertFile returns the full path of the file containing the WAMP router TLS
// certificate.
func (c *Config) CertFile() string {
	return filepath.Join(c.DataDir, DefaultCertFile)
}

// Logger returns a formatted logrus Entry, with prefix set to "rdt".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
	}
	return c.logger.WithField("prefix", "rdt")
}

// DefaultDataDir returns the default directory name for top-level config
// based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Rdt")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Rdt")
		} else {
			return filepath.Join(home, ".rdt")
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
