package proxy

import (
	"encoding/json"
	"errors"

	"github.com/FreeAllMedia/fam-rdt/src/proxy/proto"
)

// RequestEndpoint is the fixed suffix appended to the host URL to form the
// target of the generic request capability.
const RequestEndpoint = "/cors/"

var (
	// ErrNoTarget is returned when a configuration provides neither a host
	// URL nor a child URL, so no binding can be selected.
	ErrNoTarget = errors.New("neither a host URL nor a child URL was provided")

	// ErrUnknownFunction is returned when calling a function that was not
	// declared as remotely callable.
	ErrUnknownFunction = errors.New("function was not declared as remotely callable")
)

// FunctionHandler is a local function exposed to the other side of the
// channel. Args carry the raw call arguments; the returned value is encoded
// and sent back as the call result.
type FunctionHandler func(args json.RawMessage) (interface{}, error)

// RequestHandler processes a generic request on the receiving side of the
// channel. Only hosts install one; the proxy itself never handles requests.
type RequestHandler func(req proto.Request) (interface{}, error)

// RoleKind discriminates the two bindings a RequestProxy can take.
type RoleKind int

const (
	// HostCaller binds to a host's request endpoint. Verb calls are
	// forwarded there, and local functions are exposed to the host.
	HostCaller RoleKind = iota

	// Parent binds to a child counterpart and declares a set of its
	// functions as remotely callable.
	Parent
)

func (k RoleKind) String() string {
	if k == Parent {
		return "parent"
	}
	return "host-caller"
}

// Role is the binding selected once at construction time. It is never
// re-evaluated for the lifetime of the proxy.
type Role struct {
	Kind            RoleKind
	Target          string
	LocalFunctions  map[string]FunctionHandler
	RemoteFunctions []string
}

// NewRole selects the binding from the two candidate URLs. A child URL
// always wins and produces a Parent role declaring the remote functions. A
// host URL alone produces a HostCaller role whose target is the host URL
// with the request endpoint appended, exposing the local functions. With
// neither, NewRole fails with ErrNoTarget rather than proceeding with an
// undefined target.
func NewRole(hostURL string, childURL string, local map[string]FunctionHandler, remote []string) (Role, error) {
	if childURL != "" {
		return Role{
			Kind:            Parent,
			Target:          childURL,
			RemoteFunctions: remote,
		}, nil
	}

	if hostURL == "" {
		return Role{}, ErrNoTarget
	}

	return Role{
		Kind:           HostCaller,
		Target:         hostURL + RequestEndpoint,
		LocalFunctions: local,
	}, nil
}
