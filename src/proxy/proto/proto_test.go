package proto

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRequestMarshal(t *testing.T) {
	req := Request{
		Method: MethodPost,
		URL:    "/users",
		Data:   map[string]string{"firstName": "Bob"},
	}

	raw, err := req.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	// the canonical handle orders keys, so the encoding is stable
	expected := `{"data":{"firstName":"Bob"},"method":"POST","url":"/users"}`
	if string(raw) != expected {
		t.Fatalf("encoding should be %s, not %s", expected, raw)
	}

	decoded := Request{}
	if err := decoded.Unmarshal(raw); err != nil {
		t.Fatal(err)
	}

	if decoded.Method != req.Method || decoded.URL != req.URL {
		t.Fatalf("round-trip mismatch: %#v %#v", req, decoded)
	}
}

func TestEncodePassesRawBytesThrough(t *testing.T) {
	result, err := Encode(json.RawMessage(`{"id":1}`))
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(result, json.RawMessage(`{"id":1}`)) {
		t.Fatalf("raw bytes should pass through untouched, got %s", result)
	}
}
