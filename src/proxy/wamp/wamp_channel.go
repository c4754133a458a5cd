package wamp

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/FreeAllMedia/fam-rdt/src/proxy"
	"github.com/FreeAllMedia/fam-rdt/src/proxy/proto"
	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"
	"github.com/sirupsen/logrus"
)

// WampChannel implements the Channel interface. It sends requests and
// function calls through a WAMP router using WebSockets, and serves the
// local bindings as registered procedures.
type WampChannel struct {
	routerURL      string
	config         client.Config
	client         *client.Client
	requestHandler proxy.RequestHandler
	functions      map[string]proxy.FunctionHandler
	logger         *logrus.Entry
}

// NewWampChannel instantiates a new WampChannel, opens a connection to the
// WAMP router, and registers the local bindings. The realm isolates
// instances from one another; both sides must use the same one.
func NewWampChannel(
	server string,
	realm string,
	plaintext bool,
	caFile string,
	insecureSkipVerify bool,
	requestHandler proxy.RequestHandler,
	functions map[string]proxy.FunctionHandler,
	responseTimeout time.Duration,
	logger *logrus.Entry,
) (*WampChannel, error) {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	cfg := client.Config{
		Realm:           realm,
		ResponseTimeout: responseTimeout,
		Logger:          logger,
	}

	scheme := "wss"

	if plaintext {
		scheme = "ws"
	} else {
		tlscfg := &tls.Config{}

		if insecureSkipVerify {
			logger.Debug("Skip Verify. Accepting any certificate provided by the router.")
			tlscfg.InsecureSkipVerify = true
		} else if _, err := os.Stat(caFile); os.IsNotExist(err) {
			logger.Debugf("No certificate file found. Relying on platform trusted certificates.")
		} else {
			// Load PEM-encoded certificate to trust.
			certPEM, err := os.ReadFile(caFile)
			if err != nil {
				return nil, err
			}

			// Create CertPool containing the certificate to trust.
			roots := x509.NewCertPool()
			if !roots.AppendCertsFromPEM(certPEM) {
				return nil, errors.New("Failed to import certificate to trust")
			}

			tlscfg.RootCAs = roots

			// Decode and parse the server cert to extract the subject info.
			block, _ := pem.Decode(certPEM)
			if block == nil {
				return nil, errors.New("Failed to decode certificate to trust")
			}

			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, err
			}

			logger.Debugf("Trusting certificate %s with CN: %s", caFile, cert.Subject.CommonName)

			// Set ServerName in TLS config to CN from the trusted cert so
			// that the certificate will validate if CN does not match the
			// DNS name.
			tlscfg.ServerName = cert.Subject.CommonName
		}

		cfg.TlsCfg = tlscfg
	}

	res := &WampChannel{
		routerURL:      fmt.Sprintf("%s://%s", scheme, server),
		config:         cfg,
		requestHandler: requestHandler,
		functions:      functions,
		logger:         logger,
	}

	if err := res.connect(); err != nil {
		return nil, err
	}

	if err := res.bind(); err != nil {
		return nil, err
	}

	return res, nil
}

// connect creates a new WAMP client connected to the router. If a client
// already exists and is connected, it does nothing.
func (c *WampChannel) connect() error {
	if c.client != nil && c.client.Connected() {
		return nil
	}

	cli, err := client.ConnectNet(
		context.Background(),
		c.routerURL,
		c.config,
	)
	if err != nil {
		return err
	}

	c.client = cli

	return nil
}

// bind registers the local bindings with the router: the generic request
// capability when a request handler is installed, and one procedure per
// local function.
func (c *WampChannel) bind() error {
	if c.requestHandler != nil {
		if err := c.client.Register(RequestProcedure, c.requestInvocation, nil); err != nil {
			c.logger.WithError(err).Error("Failed to register request procedure")
			return err
		}
	}

	for name, fn := range c.functions {
		if err := c.client.Register(FunctionPrefix+name, c.functionInvocation(name, fn), nil); err != nil {
			c.logger.WithError(err).Errorf("Failed to register procedure %s", name)
			return err
		}
	}

	return nil
}

// Request implements the Channel interface. It calls the counterpart's
// request procedure and waits for the result.
func (c *WampChannel) Request(req proto.Request) (json.RawMessage, error) {
	raw, err := req.Marshal()
	if err != nil {
		return nil, err
	}

	return c.call(RequestProcedure, raw)
}

// Call implements the Channel interface. It calls the procedure registered
// for the named function.
func (c *WampChannel) Call(function string, args interface{}) (json.RawMessage, error) {
	raw, err := proto.Encode(args)
	if err != nil {
		return nil, err
	}

	return c.call(FunctionPrefix+function, raw)
}

func (c *WampChannel) call(procedure string, payload []byte) (json.RawMessage, error) {
	callArgs := wamp.List{
		string(payload),
	}

	// Create a context to cancel the call after timeout.
	ctx, cancel := context.WithTimeout(
		context.Background(),
		c.config.ResponseTimeout,
	)
	defer cancel()

	result, err := c.client.Call(ctx, procedure, nil, callArgs, nil, nil)
	if err != nil {
		c.logger.Error(err)
		return nil, err
	}

	res, ok := wamp.AsString(result.Arguments[0])
	if !ok {
		return nil, errors.New("Error reading call result")
	}

	return json.RawMessage(res), nil
}

// Close unregisters the local bindings and closes the connection to the
// router.
func (c *WampChannel) Close() error {
	if c.requestHandler != nil {
		c.client.Unregister(RequestProcedure)
	}

	for name := range c.functions {
		c.client.Unregister(FunctionPrefix + name)
	}

	return c.client.Close()
}

// requestInvocation is called when the counterpart forwards a request
// through the router.
func (c *WampChannel) requestInvocation(ctx context.Context, inv *wamp.Invocation) client.InvokeResult {
	payload, ok := invocationPayload(inv)
	if !ok {
		return errResult("Error reading invocation argument")
	}

	req := proto.Request{}
	if err := req.Unmarshal([]byte(payload)); err != nil {
		return errResult(fmt.Sprintf("Error parsing request: %v", err))
	}

	result, err := c.requestHandler(req)
	if err != nil {
		return errResult(err.Error())
	}

	raw, err := proto.Encode(result)
	if err != nil {
		return errResult(fmt.Sprintf("Error encoding result: %v", err))
	}

	return client.InvokeResult{
		Args: wamp.List{string(raw)},
	}
}

// functionInvocation builds the handler serving one local function binding.
func (c *WampChannel) functionInvocation(name string, fn proxy.FunctionHandler) client.InvocationHandler {
	return func(ctx context.Context, inv *wamp.Invocation) client.InvokeResult {
		payload, ok := invocationPayload(inv)
		if !ok {
			return errResult("Error reading invocation argument")
		}

		c.logger.WithField("function", name).Debug("WampChannel.invoke")

		result, err := fn(json.RawMessage(payload))
		if err != nil {
			return errResult(err.Error())
		}

		raw, err := proto.Encode(result)
		if err != nil {
			return errResult(fmt.Sprintf("Error encoding result: %v", err))
		}

		return client.InvokeResult{
			Args: wamp.List{string(raw)},
		}
	}
}

func invocationPayload(inv *wamp.Invocation) (string, bool) {
	if len(inv.Arguments) != 1 {
		return "", false
	}

	return wamp.AsString(inv.Arguments[0])
}

func errResult(msg string) client.InvokeResult {
	return client.InvokeResult{
		Err:  ErrCallFailed,
		Args: wamp.List{msg},
	}
}
