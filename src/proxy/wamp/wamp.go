// Package wamp implements the Channel interface using RPC over WebSockets.
//
// This package contains a WAMP server that relays RPC requests between
// connected clients, and a client-side channel that registers the local
// bindings as WAMP procedures and calls the counterpart's procedures. It is
// useful when the two sides cannot dial each other directly and must meet at
// a router instead.
//
// The connection to the router is over secured web-sockets, wss, unless the
// channel is created in plaintext mode. A self-signed certificate can be
// passed directly to the channel; there is also an option to skip
// certificate verification, but this should only be used for testing.
package wamp

const (
	// ErrCallFailed indicates that the counterpart ran into an error while
	// processing a request or function call.
	ErrCallFailed = "com.freeallmedia.rdt.call_failed"

	// RequestProcedure is the WAMP procedure serving the generic request
	// capability within a realm.
	RequestProcedure = "com.freeallmedia.rdt.request"

	// FunctionPrefix is prepended to function names to form their WAMP
	// procedure URIs.
	FunctionPrefix = "com.freeallmedia.rdt.fn."
)
