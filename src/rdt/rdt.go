// Package rdt ties a configuration to a running RequestProxy: it resolves
// the role, builds the selected channel, and binds the facade to it.
package rdt

import (
	"fmt"

	"github.com/FreeAllMedia/fam-rdt/src/config"
	"github.com/FreeAllMedia/fam-rdt/src/proxy"
	"github.com/FreeAllMedia/fam-rdt/src/proxy/socket"
	"github.com/FreeAllMedia/fam-rdt/src/proxy/wamp"
)

// RDT is the top-level object wiring a configuration to a RequestProxy over
// a channel.
type RDT struct {
	Config  *config.Config
	Role    proxy.Role
	Channel proxy.Channel
	Proxy   *proxy.RequestProxy
}

// New instantiates an RDT from a configuration. Call Init before using it.
func New(cfg *config.Config) *RDT {
	return &RDT{
		Config: cfg,
	}
}

// Init resolves the role, builds the channel, and binds the proxy. The role
// and channel are fixed for the lifetime of the instance.
func (r *RDT) Init() error {
	if err := r.initRole(); err != nil {
		return err
	}

	if err := r.initChannel(); err != nil {
		return err
	}

	r.initProxy()

	return nil
}

func (r *RDT) initRole() error {
	role, err := proxy.NewRole(
		r.Config.HostURL,
		r.Config.ChildURL,
		r.Config.LocalFunctions,
		r.Config.RemoteFunctions,
	)

	if err != nil {
		return err
	}

	r.Config.Logger().WithField("role", role.Kind.String()).Debug("initRole")

	r.Role = role

	return nil
}

func (r *RDT) initChannel() error {
	logger := r.Config.Logger()

	switch r.Config.Transport {
	case "", config.SocketTransport:
		if len(r.Role.LocalFunctions) > 0 && r.Config.BindAddr == "" {
			logger.Warn("Local functions are set but no listen address; nothing will be exposed")
		}

		channel, err := socket.NewSocketChannel(
			r.Role.Target,
			r.Config.BindAddr,
			nil,
			r.Role.LocalFunctions,
			r.Config.Timeout,
			logger,
		)

		if err != nil {
			return err
		}

		r.Channel = channel

	case config.WampTransport:
		channel, err := wamp.NewWampChannel(
			r.Config.SignalAddr,
			r.realm(),
			r.Config.SignalInsecure,
			r.Config.CertFile(),
			r.Config.SignalSkipVerify,
			nil,
			r.Role.LocalFunctions,
			r.Config.Timeout,
			logger,
		)

		if err != nil {
			return err
		}

		r.Channel = channel

	default:
		return fmt.Errorf("unknown transport %s", r.Config.Transport)
	}

	return nil
}

func (r *RDT) initProxy() {
	r.Proxy = proxy.NewRequestProxy(r.Role, r.Channel, r.Config.Logger())
}

// realm returns the WAMP realm isolating this instance: the configured name,
// falling back to the default.
func (r *RDT) realm() string {
	if r.Config.Name != "" {
		return r.Config.Name
	}
	return config.DefaultName
}

// Shutdown releases the channel.
func (r *RDT) Shutdown() error {
	if r.Channel != nil {
		return r.Channel.Close()
	}

	return nil
}
