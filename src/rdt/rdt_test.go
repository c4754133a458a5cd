package rdt

import (
	"errors"
	"testing"

	"github.com/FreeAllMedia/fam-rdt/src/common"
	"github.com/FreeAllMedia/fam-rdt/src/config"
	"github.com/FreeAllMedia/fam-rdt/src/dummy"
	"github.com/FreeAllMedia/fam-rdt/src/proxy"
)

func TestInitWithoutTarget(t *testing.T) {
	cfg := config.NewTestConfig(t)

	engine := New(cfg)

	if err := engine.Init(); !errors.Is(err, proxy.ErrNoTarget) {
		t.Fatalf("Init without host or child URL should fail with ErrNoTarget, got %v", err)
	}
}

func TestInitUnknownTransport(t *testing.T) {
	cfg := config.NewTestConfig(t)
	cfg.HostURL = "127.0.0.1:9994"
	cfg.Transport = "pigeon"

	engine := New(cfg)

	if err := engine.Init(); err == nil {
		t.Fatal("Init with an unknown transport should fail")
	}
}

func TestSocketEndToEnd(t *testing.T) {
	hostAddr := "127.0.0.1:9995"

	host, err := dummy.NewSocketDummyHost(hostAddr, common.NewTestEntry(t))
	if err != nil {
		t.Fatalf("Cannot start dummy host: %s", err)
	}

	cfg := config.NewTestConfig(t)
	cfg.HostURL = hostAddr

	engine := New(cfg)

	if err := engine.Init(); err != nil {
		t.Fatal(err)
	}
	defer engine.Shutdown()

	if engine.Role.Kind != proxy.HostCaller {
		t.Fatalf("role should be host-caller, not %s", engine.Role.Kind)
	}

	if engine.Role.Target != hostAddr+proxy.RequestEndpoint {
		t.Fatalf("target should carry the request endpoint, got %s", engine.Role.Target)
	}

	result, err := engine.Proxy.Post("/users", map[string]string{"firstName": "Bob"})
	if err != nil {
		t.Fatal(err)
	}

	if string(result) != `{"id":1}` {
		t.Fatalf("result should be {\"id\":1}, not %s", result)
	}

	stored, ok := host.State().Resource("/users/1")
	if !ok {
		t.Fatal("the host should have stored the document under /users/1")
	}

	if string(stored) != `{"firstName":"Bob"}` {
		t.Fatalf("stored document should be {\"firstName\":\"Bob\"}, not %s", stored)
	}

	fetched, err := engine.Proxy.Get("/users/1")
	if err != nil {
		t.Fatal(err)
	}

	if string(fetched) != `{"firstName":"Bob"}` {
		t.Fatalf("GET should return the stored document, not %s", fetched)
	}

	if _, err := engine.Proxy.Destroy("/users/1"); err != nil {
		t.Fatal(err)
	}

	if _, err := engine.Proxy.Get("/users/1"); err == nil {
		t.Fatal("GET after DELETE should fail")
	}
}

func TestSocketParentCall(t *testing.T) {
	childAddr := "127.0.0.1:9996"

	if _, err := dummy.NewSocketDummyHost(childAddr, common.NewTestEntry(t)); err != nil {
		t.Fatalf("Cannot start dummy child: %s", err)
	}

	cfg := config.NewTestConfig(t)
	cfg.ChildURL = childAddr
	cfg.RemoteFunctions = []string{"ping"}

	engine := New(cfg)

	if err := engine.Init(); err != nil {
		t.Fatal(err)
	}
	defer engine.Shutdown()

	if engine.Role.Kind != proxy.Parent {
		t.Fatalf("role should be parent, not %s", engine.Role.Kind)
	}

	pong, err := engine.Proxy.Call("ping", nil)
	if err != nil {
		t.Fatal(err)
	}

	if string(pong) != `"pong"` {
		t.Fatalf("result should be \"pong\", not %s", pong)
	}

	if _, err := engine.Proxy.Call("echo", nil); !errors.Is(err, proxy.ErrUnknownFunction) {
		t.Fatalf("undeclared functions should fail with ErrUnknownFunction, got %v", err)
	}
}
