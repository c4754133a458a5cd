package dummy

import (
	"github.com/FreeAllMedia/fam-rdt/src/proxy/socket"
	"github.com/sirupsen/logrus"
)

// SocketDummyHost is a socket implementation of the dummy host. The proxy
// and the host run in separate processes and communicate through TCP
// sockets; the host serves the request capability and its example functions
// over the receiving half of a SocketChannel.
type SocketDummyHost struct {
	state  *State
	server *socket.SocketChannelServer
	logger *logrus.Entry
}

// NewSocketDummyHost instantiates a SocketDummyHost and starts serving on
// bindAddress.
func NewSocketDummyHost(bindAddress string, logger *logrus.Entry) (*SocketDummyHost, error) {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	state := NewState(logger)

	server, err := socket.Serve(bindAddress, state.Handle, state.Functions(), logger)
	if err != nil {
		return nil, err
	}

	host := &SocketDummyHost{
		state:  state,
		server: server,
		logger: logger,
	}

	return host, nil
}

// State returns the host's state.
func (h *SocketDummyHost) State() *State {
	return h.state
}
