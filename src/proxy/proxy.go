package proxy

import (
	"encoding/json"
	"fmt"

	"github.com/FreeAllMedia/fam-rdt/src/proxy/proto"
	"github.com/sirupsen/logrus"
)

// Channel is the opaque messaging channel that carries requests and function
// calls between the two sides. Implementations own connection establishment,
// framing and delivery; the proxy only invokes them. A channel is acquired
// at construction and owned exclusively by its RequestProxy until Close.
type Channel interface {
	// Request forwards a request envelope to the generic request
	// capability on the other side and returns the raw result.
	Request(req proto.Request) (json.RawMessage, error)

	// Call invokes a named function on the other side.
	Call(function string, args interface{}) (json.RawMessage, error)

	// Close releases the channel. No methods may be called afterwards.
	Close() error
}

// RequestProxy exposes HTTP-style verb methods that forward requests through
// a channel, untouched. All delivery semantics - success, failure, ordering -
// are those of the underlying channel; the proxy performs no validation,
// retry, timeout or transformation of its own.
type RequestProxy struct {
	role    Role
	channel Channel
	remote  map[string]bool
	logger  *logrus.Entry
}

// NewRequestProxy binds a role to a channel. If no logger, a new one is
// created.
func NewRequestProxy(role Role, channel Channel, logger *logrus.Entry) *RequestProxy {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	remote := make(map[string]bool, len(role.RemoteFunctions))
	for _, name := range role.RemoteFunctions {
		remote[name] = true
	}

	return &RequestProxy{
		role:    role,
		channel: channel,
		remote:  remote,
		logger:  logger,
	}
}

// Role returns the binding selected at construction.
func (p *RequestProxy) Role() Role {
	return p.role
}

// Get forwards a GET request for path.
func (p *RequestProxy) Get(path string) (json.RawMessage, error) {
	return p.forward(proto.Request{Method: proto.MethodGet, URL: path})
}

// Post forwards a POST request for path carrying data.
func (p *RequestProxy) Post(path string, data interface{}) (json.RawMessage, error) {
	return p.forward(proto.Request{Method: proto.MethodPost, URL: path, Data: data})
}

// Put forwards a PUT request for path carrying data.
func (p *RequestProxy) Put(path string, data interface{}) (json.RawMessage, error) {
	return p.forward(proto.Request{Method: proto.MethodPut, URL: path, Data: data})
}

// Destroy forwards a DELETE request for path.
func (p *RequestProxy) Destroy(path string) (json.RawMessage, error) {
	return p.forward(proto.Request{Method: proto.MethodDelete, URL: path})
}

func (p *RequestProxy) forward(req proto.Request) (json.RawMessage, error) {
	result, err := p.channel.Request(req)

	p.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL,
		"err":    err,
	}).Debug("RequestProxy.forward")

	return result, err
}

// Call invokes one of the functions declared as remotely callable at
// construction. Undeclared names fail without touching the channel.
func (p *RequestProxy) Call(function string, args interface{}) (json.RawMessage, error) {
	if !p.remote[function] {
		return nil, fmt.Errorf("%s: %w", function, ErrUnknownFunction)
	}

	result, err := p.channel.Call(function, args)

	p.logger.WithFields(logrus.Fields{
		"function": function,
		"err":      err,
	}).Debug("RequestProxy.Call")

	return result, err
}

// Close releases the underlying channel.
func (p *RequestProxy) Close() error {
	return p.channel.Close()
}
