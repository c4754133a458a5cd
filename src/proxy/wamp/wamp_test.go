package wamp

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/FreeAllMedia/fam-rdt/src/common"
	"github.com/FreeAllMedia/fam-rdt/src/proxy"
	"github.com/FreeAllMedia/fam-rdt/src/proxy/proto"
)

// connect retries while the websocket server is coming up.
func connect(
	t *testing.T,
	server string,
	realm string,
	requestHandler proxy.RequestHandler,
	functions map[string]proxy.FunctionHandler,
) *WampChannel {

	var channel *WampChannel
	var err error

	for i := 0; i < 20; i++ {
		channel, err = NewWampChannel(
			server,
			realm,
			true,
			"",
			false,
			requestHandler,
			functions,
			1*time.Second,
			common.NewTestEntry(t),
		)

		if err == nil {
			return channel
		}

		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("Cannot connect to router: %s", err)

	return nil
}

func TestWampChannel(t *testing.T) {
	url := "127.0.0.1:8008"

	server, err := NewServer(url, "office", "", "", common.NewTestEntry(t))
	if err != nil {
		t.Fatal(err)
	}

	go server.Run()
	defer server.Shutdown()

	// host side: serves the request capability and a function binding
	handler := func(req proto.Request) (interface{}, error) {
		return map[string]int{"id": 1}, nil
	}

	functions := map[string]proxy.FunctionHandler{
		"ping": func(args json.RawMessage) (interface{}, error) {
			return "pong", nil
		},
	}

	host := connect(t, url, "office", handler, functions)
	defer host.Close()

	// caller side: nothing to expose
	caller := connect(t, url, "office", nil, nil)
	defer caller.Close()

	result, err := caller.Request(proto.Request{
		Method: proto.MethodPost,
		URL:    "/users",
		Data:   map[string]string{"firstName": "Bob"},
	})

	if err != nil {
		t.Fatal(err)
	}

	if string(result) != `{"id":1}` {
		t.Fatalf("result should be {\"id\":1}, not %s", result)
	}

	pong, err := caller.Call("ping", nil)
	if err != nil {
		t.Fatal(err)
	}

	if string(pong) != `"pong"` {
		t.Fatalf("result should be \"pong\", not %s", pong)
	}

	// calling a function nobody registered must surface a router error
	if _, err := caller.Call("missing", nil); err == nil ||
		!strings.Contains(err.Error(), "no_such_procedure") {
		t.Fatalf("Should have received a no_such_procedure error, got %v", err)
	}
}

func TestWampChannelHandlerError(t *testing.T) {
	url := "127.0.0.1:8009"

	server, err := NewServer(url, "office", "", "", common.NewTestEntry(t))
	if err != nil {
		t.Fatal(err)
	}

	go server.Run()
	defer server.Shutdown()

	handler := func(req proto.Request) (interface{}, error) {
		return nil, &notFoundError{}
	}

	host := connect(t, url, "office", handler, nil)
	defer host.Close()

	caller := connect(t, url, "office", nil, nil)
	defer caller.Close()

	// We expect the call to reach the host and to come back as an
	// ErrCallFailed error. We are only trying to test that the error is
	// relayed, not its shape.
	_, err = caller.Request(proto.Request{Method: proto.MethodGet, URL: "/missing"})
	if err == nil || !strings.Contains(err.Error(), ErrCallFailed) {
		t.Fatalf("Should have received an ErrCallFailed error, got %v", err)
	}
}

type notFoundError struct{}

func (e *notFoundError) Error() string {
	return "Resource not found"
}
