package socket

import (
	"encoding/json"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"

	"github.com/FreeAllMedia/fam-rdt/src/proxy"
	"github.com/FreeAllMedia/fam-rdt/src/proxy/proto"
	"github.com/sirupsen/logrus"
)

// SocketChannelServer is the receiving half of a SocketChannel. It exposes
// the local function bindings, and the generic request capability when a
// request handler is installed, as a JSON-RPC service named RDT.
type SocketChannelServer struct {
	netListener    *net.Listener
	rpcServer      *rpc.Server
	requestHandler proxy.RequestHandler
	functions      map[string]proxy.FunctionHandler
	logger         *logrus.Entry
}

// NewSocketChannelServer creates a server half bound to bindAddress.
func NewSocketChannelServer(
	bindAddress string,
	requestHandler proxy.RequestHandler,
	functions map[string]proxy.FunctionHandler,
	logger *logrus.Entry,
) (*SocketChannelServer, error) {

	server := &SocketChannelServer{
		requestHandler: requestHandler,
		functions:      functions,
		logger:         logger,
	}

	if err := server.register(bindAddress); err != nil {
		return nil, err
	}

	return server, nil
}

func (p *SocketChannelServer) register(bindAddress string) error {
	rpcServer := rpc.NewServer()

	rpcServer.RegisterName("RDT", p)

	p.rpcServer = rpcServer

	l, err := net.Listen("tcp", bindAddress)
	if err != nil {
		p.logger.WithField("error", err).Error("Failed to listen")
		return err
	}

	p.netListener = &l

	return nil
}

func (p *SocketChannelServer) listen() {
	for {
		conn, err := (*p.netListener).Accept()
		if err != nil {
			return
		}

		go (*p.rpcServer).ServeCodec(jsonrpc.NewServerCodec(conn))
	}
}

// Request serves the generic request capability.
func (p *SocketChannelServer) Request(req proto.Request, reply *json.RawMessage) error {
	p.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL,
	}).Debug("SocketChannelServer.Request")

	if p.requestHandler == nil {
		return fmt.Errorf("no request handler bound to channel")
	}

	result, err := p.requestHandler(req)
	if err != nil {
		return err
	}

	raw, err := proto.Encode(result)
	if err != nil {
		return err
	}

	*reply = raw

	return nil
}

// Invoke serves calls to the local function bindings.
func (p *SocketChannelServer) Invoke(call proto.FunctionCall, reply *json.RawMessage) error {
	p.logger.WithField("function", call.Name).Debug("SocketChannelServer.Invoke")

	fn, ok := p.functions[call.Name]
	if !ok {
		return fmt.Errorf("no function %s bound to channel", call.Name)
	}

	result, err := fn(call.Args)
	if err != nil {
		return err
	}

	raw, err := proto.Encode(result)
	if err != nil {
		return err
	}

	*reply = raw

	return nil
}

func (p *SocketChannelServer) close() error {
	if p.netListener == nil {
		return nil
	}

	return (*p.netListener).Close()
}
