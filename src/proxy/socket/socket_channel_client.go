package socket

import (
	"encoding/json"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"time"

	"github.com/FreeAllMedia/fam-rdt/src/proxy"
	"github.com/FreeAllMedia/fam-rdt/src/proxy/proto"
	"github.com/sirupsen/logrus"
)

// SocketChannelClient is the calling half of a SocketChannel. It lazily
// dials the target and issues JSON-RPC calls against the counterpart's
// registered service.
type SocketChannelClient struct {
	target  string
	addr    string
	timeout time.Duration
	logger  *logrus.Entry
	rpc     *rpc.Client
}

// NewSocketChannelClient creates a client half pointing at target. The
// target may carry the request endpoint suffix; it is stripped to recover
// the dialable address.
func NewSocketChannelClient(target string, timeout time.Duration, logger *logrus.Entry) *SocketChannelClient {
	return &SocketChannelClient{
		target:  target,
		addr:    strings.TrimSuffix(target, proxy.RequestEndpoint),
		timeout: timeout,
		logger:  logger,
	}
}

func (p *SocketChannelClient) getConnection() error {
	if p.rpc == nil {
		conn, err := net.DialTimeout("tcp", p.addr, p.timeout)

		if err != nil {
			return err
		}

		p.rpc = jsonrpc.NewClient(conn)
	}

	return nil
}

// Request forwards a request envelope to the counterpart's generic request
// capability.
func (p *SocketChannelClient) Request(req proto.Request) (json.RawMessage, error) {
	if err := p.getConnection(); err != nil {
		return nil, err
	}

	var result json.RawMessage

	if err := p.rpc.Call("RDT.Request", req, &result); err != nil {
		p.rpc = nil

		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL,
	}).Debug("SocketChannelClient.Request")

	return result, nil
}

// Invoke calls a named function on the counterpart.
func (p *SocketChannelClient) Invoke(call proto.FunctionCall) (json.RawMessage, error) {
	if err := p.getConnection(); err != nil {
		return nil, err
	}

	var result json.RawMessage

	if err := p.rpc.Call("RDT.Invoke", call, &result); err != nil {
		p.rpc = nil

		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"function": call.Name,
	}).Debug("SocketChannelClient.Invoke")

	return result, nil
}

// Close tears down the connection, if one was established.
func (p *SocketChannelClient) Close() error {
	if p.rpc == nil {
		return nil
	}

	err := p.rpc.Close()

	p.rpc = nil

	return err
}
