package dummy

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/FreeAllMedia/fam-rdt/src/proxy"
	"github.com/FreeAllMedia/fam-rdt/src/proxy/proto"
	"github.com/sirupsen/logrus"
)

// State represents the state of our dummy host application. It doesn't do
// anything useful but keep an in-memory store of resources keyed by URL
// path, and answer the four request methods against it. POST allocates
// incrementing ids per collection, so posting to /users stores the document
// under /users/1, /users/2, and so on.
type State struct {
	sync.Mutex
	resources map[string]json.RawMessage
	nextID    map[string]int
	logger    *logrus.Entry
}

// NewState creates a new dummy state.
func NewState(logger *logrus.Entry) *State {
	state := &State{
		resources: make(map[string]json.RawMessage),
		nextID:    make(map[string]int),
		logger:    logger,
	}

	logger.Info("Init Dummy State")

	return state
}

// Handle answers a request against the store. It is installed as the request
// handler of whichever channel serves this host.
func (s *State) Handle(req proto.Request) (interface{}, error) {
	s.Lock()
	defer s.Unlock()

	s.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL,
	}).Debug("State.Handle")

	switch req.Method {
	case proto.MethodGet:
		resource, ok := s.resources[req.URL]
		if !ok {
			return nil, fmt.Errorf("Resource %s not found", req.URL)
		}
		return resource, nil

	case proto.MethodPost:
		raw, err := proto.Encode(req.Data)
		if err != nil {
			return nil, err
		}

		s.nextID[req.URL]++
		id := s.nextID[req.URL]

		s.resources[fmt.Sprintf("%s/%d", req.URL, id)] = raw

		return map[string]int{"id": id}, nil

	case proto.MethodPut:
		raw, err := proto.Encode(req.Data)
		if err != nil {
			return nil, err
		}

		s.resources[req.URL] = raw

		return raw, nil

	case proto.MethodDelete:
		if _, ok := s.resources[req.URL]; !ok {
			return nil, fmt.Errorf("Resource %s not found", req.URL)
		}

		delete(s.resources, req.URL)

		return true, nil
	}

	return nil, fmt.Errorf("Unsupported method %s", req.Method)
}

// Functions returns the example function bindings this host exposes.
func (s *State) Functions() map[string]proxy.FunctionHandler {
	return map[string]proxy.FunctionHandler{
		"ping": func(args json.RawMessage) (interface{}, error) {
			return "pong", nil
		},
		"echo": func(args json.RawMessage) (interface{}, error) {
			return args, nil
		},
	}
}

// Resource returns the stored document at path, for inspection in tests.
func (s *State) Resource(path string) (json.RawMessage, bool) {
	s.Lock()
	defer s.Unlock()

	resource, ok := s.resources[path]

	return resource, ok
}
