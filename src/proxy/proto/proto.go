// Package proto defines the values that cross the channel: the generic
// request envelope used by the verb methods, and the function-call envelope
// used by the RPC bindings.
package proto

import (
	"bytes"
	"encoding/json"

	"github.com/ugorji/go/codec"
)

// Request method names. They map 1:1 to HTTP-style verbs.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

// Request is the envelope built by the verb methods. Data is only set for
// POST and PUT. The proxy never mutates or copies Data; it is handed to the
// channel as-is.
type Request struct {
	Method string      `json:"method"`
	URL    string      `json:"url"`
	Data   interface{} `json:"data,omitempty"`
}

// Marshal - canonical json encoding of Request
func (r *Request) Marshal() ([]byte, error) {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(r); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Unmarshal ...
func (r *Request) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(b, jh)

	if err := dec.Decode(r); err != nil {
		return err
	}

	return nil
}

// FunctionCall is the envelope for invoking a named function on the other
// side of the channel.
type FunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Marshal - canonical json encoding of FunctionCall
func (c *FunctionCall) Marshal() ([]byte, error) {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(c); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Unmarshal ...
func (c *FunctionCall) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(b, jh)

	if err := dec.Decode(c); err != nil {
		return err
	}

	return nil
}

// Encode normalizes an arbitrary value into raw json bytes. Values that are
// already raw bytes pass through untouched, so results produced by a handler
// reach the caller byte-for-byte.
func Encode(v interface{}) (json.RawMessage, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}

	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
