package inmem

import (
	"encoding/json"
	"fmt"

	"github.com/FreeAllMedia/fam-rdt/src/proxy"
	"github.com/FreeAllMedia/fam-rdt/src/proxy/proto"
	"github.com/sirupsen/logrus"
)

// InmemChannel implements the Channel interface natively. Both sides live in
// the same process: requests and calls are dispatched straight to the
// counterpart's handlers. Results still go through the proto codec so that
// callers observe the same raw-json shape as over a real transport.
type InmemChannel struct {
	requestHandler proxy.RequestHandler
	functions      map[string]proxy.FunctionHandler
	logger         *logrus.Logger
}

// NewInmemChannel instantiates an InmemChannel bound to the counterpart's
// handlers. If no logger, a new one is created.
func NewInmemChannel(
	requestHandler proxy.RequestHandler,
	functions map[string]proxy.FunctionHandler,
	logger *logrus.Logger,
) *InmemChannel {

	if logger == nil {
		logger = logrus.New()

		logger.Level = logrus.DebugLevel
	}

	return &InmemChannel{
		requestHandler: requestHandler,
		functions:      functions,
		logger:         logger,
	}
}

// Request dispatches the envelope to the counterpart's request handler.
func (c *InmemChannel) Request(req proto.Request) (json.RawMessage, error) {
	if c.requestHandler == nil {
		return nil, fmt.Errorf("no request handler bound to channel")
	}

	result, err := c.requestHandler(req)

	c.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL,
		"err":    err,
	}).Debug("InmemChannel.Request")

	if err != nil {
		return nil, err
	}

	return proto.Encode(result)
}

// Call dispatches to one of the counterpart's named functions.
func (c *InmemChannel) Call(function string, args interface{}) (json.RawMessage, error) {
	fn, ok := c.functions[function]
	if !ok {
		return nil, fmt.Errorf("no function %s bound to channel", function)
	}

	raw, err := proto.Encode(args)
	if err != nil {
		return nil, err
	}

	result, err := fn(raw)

	c.logger.WithFields(logrus.Fields{
		"function": function,
		"err":      err,
	}).Debug("InmemChannel.Call")

	if err != nil {
		return nil, err
	}

	return proto.Encode(result)
}

// Close implements the Channel interface. There is nothing to release.
func (c *InmemChannel) Close() error {
	return nil
}
