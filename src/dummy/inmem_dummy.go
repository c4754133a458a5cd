package dummy

import (
	"github.com/FreeAllMedia/fam-rdt/src/proxy/inmem"
	"github.com/sirupsen/logrus"
)

// InmemDummyHost is an in-memory implementation of the dummy host. Its state
// is wired straight into an InmemChannel, which can be handed to a
// RequestProxy directly.
type InmemDummyHost struct {
	channel *inmem.InmemChannel
	state   *State
	logger  *logrus.Logger
}

// NewInmemDummyHost instantiates an InmemDummyHost.
func NewInmemDummyHost(logger *logrus.Logger) *InmemDummyHost {
	if logger == nil {
		logger = logrus.New()

		logger.Level = logrus.DebugLevel
	}

	state := NewState(logrus.NewEntry(logger))

	channel := inmem.NewInmemChannel(state.Handle, state.Functions(), logger)

	host := &InmemDummyHost{
		channel: channel,
		state:   state,
		logger:  logger,
	}

	return host
}

// Channel returns the channel a RequestProxy should be bound to.
func (h *InmemDummyHost) Channel() *inmem.InmemChannel {
	return h.channel
}

// State returns the host's state.
func (h *InmemDummyHost) State() *State {
	return h.state
}
