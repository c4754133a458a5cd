package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/FreeAllMedia/fam-rdt/src/rdt"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//NewRunCmd returns the command that starts the interactive client
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the interactive client",
		PreRunE: loadConfig,
		RunE:    runRdt,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runRdt(cmd *cobra.Command, args []string) error {
	engine := rdt.New(&_config.Rdt)

	if err := engine.Init(); err != nil {
		_config.Rdt.Logger().Error("Cannot initialize rdt:", err)
		return err
	}

	defer engine.Shutdown()

	//Read commands from tty: "<verb> <path> [json]" or "call <function> [json]"
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		result, err := dispatch(engine, line)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Println(string(result))
	}

	return nil
}

func dispatch(engine *rdt.RDT, line string) (json.RawMessage, error) {
	parts := strings.SplitN(line, " ", 3)

	verb := strings.ToLower(parts[0])

	if len(parts) < 2 {
		return nil, fmt.Errorf("usage: %s <path> [json]", verb)
	}

	var data interface{}
	if len(parts) == 3 {
		data = json.RawMessage(parts[2])
	}

	switch verb {
	case "get":
		return engine.Proxy.Get(parts[1])
	case "post":
		return engine.Proxy.Post(parts[1], data)
	case "put":
		return engine.Proxy.Put(parts[1], data)
	case "destroy":
		return engine.Proxy.Destroy(parts[1])
	case "call":
		return engine.Proxy.Call(parts[1], data)
	}

	return nil, fmt.Errorf("unknown verb %s", verb)
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {

	cmd.Flags().String("datadir", _config.Rdt.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.Rdt.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("name", _config.Rdt.Name, "Instance name, isolates channels")
	cmd.Flags().Bool("discard", _config.Discard, "Discard output to stderr and stdout")

	// Role
	cmd.Flags().String("host", _config.Rdt.HostURL, "Host to forward verb calls to")
	cmd.Flags().String("child", _config.Rdt.ChildURL, "Child counterpart, takes precedence over --host")
	cmd.Flags().StringSlice("remote-functions", _config.Rdt.RemoteFunctions, "Functions declared callable on the child")

	// Transport
	cmd.Flags().String("transport", _config.Rdt.Transport, "socket or wamp")
	cmd.Flags().StringP("listen", "l", _config.Rdt.BindAddr, "Listen IP:Port for local function bindings")
	cmd.Flags().DurationP("timeout", "t", _config.Rdt.Timeout, "Dial and response timeout")
	cmd.Flags().String("signal-addr", _config.Rdt.SignalAddr, "IP:Port of the WAMP router")
	cmd.Flags().Bool("signal-insecure", _config.Rdt.SignalInsecure, "Use plain websockets to reach the router")
	cmd.Flags().Bool("signal-skip-verify", _config.Rdt.SignalSkipVerify, "Skip verification of the router's certificate")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	logger := newLogger()
	logger.Level = logLevel(_config.Rdt.LogLevel)

	logger.WithFields(logrus.Fields{
		"datadir":   _config.Rdt.DataDir,
		"host":      _config.Rdt.HostURL,
		"child":     _config.Rdt.ChildURL,
		"name":      _config.Rdt.Name,
		"transport": _config.Rdt.Transport,
		"listen":    _config.Rdt.BindAddr,
		"log":       _config.Rdt.LogLevel,
		"discard":   _config.Discard,
	}).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/rdt.toml (.json, .yaml also work)
	viper.SetConfigName("rdt")
	viper.AddConfigPath(_config.Rdt.DataDir)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Rdt.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Rdt.Logger().Debugf("No config file found in: %s", _config.Rdt.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from the config file
	return viper.Unmarshal(_config)
}

func newLogger() *logrus.Logger {
	logger := logrus.New()

	pathMap := lfshook.PathMap{}

	_, err := os.OpenFile("rdt_info.log", os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Info("Failed to open rdt_info.log file, using default stderr")
	} else {
		pathMap[logrus.InfoLevel] = "rdt_info.log"
	}

	_, err = os.OpenFile("rdt_debug.log", os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Info("Failed to open rdt_debug.log file, using default stderr")
	} else {
		pathMap[logrus.DebugLevel] = "rdt_debug.log"
	}

	if err == nil && _config.Discard {
		logger.Out = io.Discard
	}

	logger.Hooks.Add(lfshook.NewHook(
		pathMap,
		&logrus.TextFormatter{},
	))

	return logger
}

func logLevel(l string) logrus.Level {
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
