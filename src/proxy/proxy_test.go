package proxy

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/FreeAllMedia/fam-rdt/src/proxy/proto"
)

// recordingChannel records everything forwarded through it and answers with
// canned values.
type recordingChannel struct {
	requests []proto.Request
	calls    []string
	result   json.RawMessage
	err      error
	closed   bool
}

func (c *recordingChannel) Request(req proto.Request) (json.RawMessage, error) {
	c.requests = append(c.requests, req)
	return c.result, c.err
}

func (c *recordingChannel) Call(function string, args interface{}) (json.RawMessage, error) {
	c.calls = append(c.calls, function)
	return c.result, c.err
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func TestRoleSelection(t *testing.T) {
	parent, err := NewRole("http://host", "http://child", nil, []string{"ping"})
	if err != nil {
		t.Fatal(err)
	}

	if parent.Kind != Parent {
		t.Fatalf("role should be %v, not %v", Parent, parent.Kind)
	}

	if parent.Target != "http://child" {
		t.Fatalf("target should be the child URL, not %s", parent.Target)
	}

	caller, err := NewRole("http://host", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if caller.Kind != HostCaller {
		t.Fatalf("role should be %v, not %v", HostCaller, caller.Kind)
	}

	if caller.Target != "http://host"+RequestEndpoint {
		t.Fatalf("target should be the host URL with the request endpoint appended, not %s", caller.Target)
	}

	_, err = NewRole("", "", nil, nil)
	if !errors.Is(err, ErrNoTarget) {
		t.Fatalf("err should be ErrNoTarget, not %v", err)
	}
}

func TestVerbRequests(t *testing.T) {
	channel := &recordingChannel{}

	role, err := NewRole("http://host", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	p := NewRequestProxy(role, channel, nil)

	data := map[string]string{"firstName": "Bob"}
	dataCopy := map[string]string{"firstName": "Bob"}

	p.Get("/users/1")
	p.Post("/users", data)
	p.Put("/users/1", data)
	p.Destroy("/users/1")

	expected := []proto.Request{
		{Method: proto.MethodGet, URL: "/users/1"},
		{Method: proto.MethodPost, URL: "/users", Data: data},
		{Method: proto.MethodPut, URL: "/users/1", Data: data},
		{Method: proto.MethodDelete, URL: "/users/1"},
	}

	if !reflect.DeepEqual(channel.requests, expected) {
		t.Fatalf("requests should be %#v, not %#v", expected, channel.requests)
	}

	// the caller's data must not have been mutated
	if !reflect.DeepEqual(data, dataCopy) {
		t.Fatalf("data should be %#v, not %#v", dataCopy, data)
	}
}

func TestGetIsIdempotent(t *testing.T) {
	channel := &recordingChannel{}

	role, err := NewRole("http://host", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	p := NewRequestProxy(role, channel, nil)

	p.Get("/users/1")
	p.Get("/users/1")

	if len(channel.requests) != 2 {
		t.Fatalf("each call should forward exactly one request, got %d", len(channel.requests))
	}

	if !reflect.DeepEqual(channel.requests[0], channel.requests[1]) {
		t.Fatalf("repeated requests should be identical: %#v %#v",
			channel.requests[0], channel.requests[1])
	}
}

func TestResultPassthrough(t *testing.T) {
	expected := json.RawMessage(`{"id":1}`)

	channel := &recordingChannel{result: expected}

	role, err := NewRole("http://host", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	p := NewRequestProxy(role, channel, nil)

	result, err := p.Post("/users", map[string]string{"firstName": "Bob"})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(result, expected) {
		t.Fatalf("result should be %s, not %s", expected, result)
	}
}

func TestErrorPassthrough(t *testing.T) {
	expected := errors.New("transport failure")

	channel := &recordingChannel{err: expected}

	role, err := NewRole("http://host", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	p := NewRequestProxy(role, channel, nil)

	if _, err := p.Get("/users/1"); err != expected {
		t.Fatalf("err should be passed through unchanged, got %v", err)
	}
}

func TestCallDeclaredFunctions(t *testing.T) {
	channel := &recordingChannel{result: json.RawMessage(`"pong"`)}

	role, err := NewRole("", "http://child", nil, []string{"ping"})
	if err != nil {
		t.Fatal(err)
	}

	p := NewRequestProxy(role, channel, nil)

	if _, err := p.Call("ping", nil); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(channel.calls, []string{"ping"}) {
		t.Fatalf("calls should be [ping], not %v", channel.calls)
	}

	_, err = p.Call("shutdown", nil)
	if !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("err should be ErrUnknownFunction, not %v", err)
	}

	if len(channel.calls) != 1 {
		t.Fatalf("undeclared calls must not touch the channel, got %v", channel.calls)
	}
}

func TestClose(t *testing.T) {
	channel := &recordingChannel{}

	role, err := NewRole("http://host", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	p := NewRequestProxy(role, channel, nil)

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	if !channel.closed {
		t.Fatal("Close should release the channel")
	}
}
