// Package proxy defines and implements RequestProxy: a thin facade over a
// cross-process messaging channel.
//
// The proxy communicates through a Channel interface, which has three
// implementations:
//
// - SocketChannel: connects the two sides via JSON-RPC over TCP sockets. It
// enables the counterpart to run in a separate process or machine, and to be
// written in any programming language.
//
// - WampChannel: routes calls through a WAMP router over websockets, for
// counterparts that cannot be dialed directly.
//
// - InmemChannel: uses native callback handlers to integrate both sides as a
// regular Go dependency.
package proxy
