package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/FreeAllMedia/fam-rdt/src/dummy"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	config = NewDefaultCLIConfig()
	logger *logrus.Logger
)

func init() {
	RootCmd.Flags().String("name", config.Name, "Host name, isolates channels")
	RootCmd.Flags().String("listen", config.BindAddr, "Listen IP:Port of the dummy host")
	RootCmd.Flags().String("transport", config.Transport, "socket or wamp")
	RootCmd.Flags().String("signal-addr", config.SignalAddr, "IP:Port of the WAMP router")
	RootCmd.Flags().Bool("signal-insecure", config.SignalInsecure, "Use plain websockets to reach the router")
	RootCmd.Flags().Bool("signal-skip-verify", config.SignalSkipVerify, "Skip verification of the router's certificate")
	RootCmd.Flags().Bool("discard", config.Discard, "Discard output to stderr and stdout")
	RootCmd.Flags().String("log", config.LogLevel, "debug, info, warn, error, fatal, panic")
}

//RootCmd is the root command for the dummy host
var RootCmd = &cobra.Command{
	Use:     "dummy",
	Short:   "Dummy host for rdt",
	PreRunE: loadConfig,
	RunE:    runDummy,
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runDummy(cmd *cobra.Command, args []string) error {

	switch config.Transport {
	case "socket":
		_, err := dummy.NewSocketDummyHost(
			config.BindAddr,
			logger.WithField("component", "DUMMY"))
		if err != nil {
			return err
		}

	case "wamp":
		host, err := dummy.NewWampDummyHost(
			config.SignalAddr,
			config.Name,
			config.SignalInsecure,
			"",
			config.SignalSkipVerify,
			1*time.Second,
			logger.WithField("component", "DUMMY"))
		if err != nil {
			return err
		}
		defer host.Close()

	default:
		return fmt.Errorf("unknown transport %s", config.Transport)
	}

	//Serve until killed
	select {}
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

func loadConfig(cmd *cobra.Command, args []string) error {

	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		return err
	}

	config, err = parseConfig()
	if err != nil {
		return err
	}

	logger = newLogger()
	logger.Level = logLevel(config.LogLevel)

	logger.WithFields(logrus.Fields{
		"name":      config.Name,
		"listen":    config.BindAddr,
		"transport": config.Transport,
		"discard":   config.Discard,
		"log":       config.LogLevel,
	}).Debug("RUN")

	return nil
}

//Retrieve the default environment configuration.
func parseConfig() (*CLIConfig, error) {
	conf := NewDefaultCLIConfig()
	err := viper.Unmarshal(conf)
	if err != nil {
		return nil, err
	}
	return conf, err
}

func newLogger() *logrus.Logger {
	logger := logrus.New()

	pathMap := lfshook.PathMap{}

	_, err := os.OpenFile("dummy_info.log", os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Info("Failed to open dummy_info.log file, using default stderr")
	} else {
		pathMap[logrus.InfoLevel] = "dummy_info.log"
	}

	_, err = os.OpenFile("dummy_debug.log", os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Info("Failed to open dummy_debug.log file, using default stderr")
	} else {
		pathMap[logrus.DebugLevel] = "dummy_debug.log"
	}

	if err == nil && config.Discard {
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
