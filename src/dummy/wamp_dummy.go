package dummy

import (
	"time"

	"github.com/FreeAllMedia/fam-rdt/src/proxy/wamp"
	"github.com/sirupsen/logrus"
)

// WampDummyHost is a WAMP implementation of the dummy host. It meets its
// counterpart at a WAMP router, serving the request capability and example
// functions as registered procedures.
type WampDummyHost struct {
	state   *State
	channel *wamp.WampChannel
	logger  *logrus.Entry
}

// NewWampDummyHost instantiates a WampDummyHost connected to the router at
// server, within realm.
func NewWampDummyHost(
	server string,
	realm string,
	plaintext bool,
	caFile string,
	insecureSkipVerify bool,
	timeout time.Duration,
	logger *logrus.Entry,
) (*WampDummyHost, error) {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	state := NewState(logger)

	channel, err := wamp.NewWampChannel(
		server,
		realm,
		plaintext,
		caFile,
		insecureSkipVerify,
		state.Handle,
		state.Functions(),
		timeout,
		logger,
	)
	if err != nil {
		return nil, err
	}

	host := &WampDummyHost{
		state:   state,
		channel: channel,
		logger:  logger,
	}

	return host, nil
}

// State returns the host's state.
func (h *WampDummyHost) State() *State {
	return h.state
}

// Close disconnects the host from the router.
func (h *WampDummyHost) Close() error {
	return h.channel.Close()
}
