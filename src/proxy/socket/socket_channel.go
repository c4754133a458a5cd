// Package socket implements the Channel interface over JSON-RPC/TCP
// sockets. The two sides run in separate processes and the counterpart can
// be written in any programming language, as long as it serves the RDT
// JSON-RPC service.
package socket

import (
	"encoding/json"
	"time"

	"github.com/FreeAllMedia/fam-rdt/src/proxy"
	"github.com/FreeAllMedia/fam-rdt/src/proxy/proto"
	"github.com/sirupsen/logrus"
)

// SocketChannel composes a calling half pointing at the target and,
// optionally, a receiving half exposing local bindings on bindAddress.
type SocketChannel struct {
	target      string
	bindAddress string

	client *SocketChannelClient
	server *SocketChannelServer

	logger *logrus.Entry
}

// NewSocketChannel creates a new SocketChannel. The receiving half is only
// started when bindAddress is set; a proxy with nothing to expose runs the
// calling half alone.
func NewSocketChannel(
	target string,
	bindAddress string,
	requestHandler proxy.RequestHandler,
	functions map[string]proxy.FunctionHandler,
	timeout time.Duration,
	logger *logrus.Entry,
) (*SocketChannel, error) {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	client := NewSocketChannelClient(target, timeout, logger)

	channel := &SocketChannel{
		target:      target,
		bindAddress: bindAddress,
		client:      client,
		logger:      logger,
	}

	if bindAddress != "" {
		server, err := NewSocketChannelServer(bindAddress, requestHandler, functions, logger)

		if err != nil {
			return nil, err
		}

		channel.server = server

		go channel.server.listen()
	}

	return channel, nil
}

// Serve starts a receiving half alone, for hosts that only answer requests
// and never initiate them.
func Serve(
	bindAddress string,
	requestHandler proxy.RequestHandler,
	functions map[string]proxy.FunctionHandler,
	logger *logrus.Entry,
) (*SocketChannelServer, error) {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	server, err := NewSocketChannelServer(bindAddress, requestHandler, functions, logger)

	if err != nil {
		return nil, err
	}

	go server.listen()

	return server, nil
}

// Request implements the Channel interface.
func (c *SocketChannel) Request(req proto.Request) (json.RawMessage, error) {
	return c.client.Request(req)
}

// Call implements the Channel interface.
func (c *SocketChannel) Call(function string, args interface{}) (json.RawMessage, error) {
	raw, err := proto.Encode(args)
	if err != nil {
		return nil, err
	}

	return c.client.Invoke(proto.FunctionCall{Name: function, Args: raw})
}

// Close implements the Channel interface. It tears down both halves.
func (c *SocketChannel) Close() error {
	if c.server != nil {
		if err := c.server.close(); err != nil {
			c.logger.WithField("error", err).Error("Failed to close listener")
		}
	}

	return c.client.Close()
}
