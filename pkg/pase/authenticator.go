package pase

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/mash-protocol/mash-channel/pkg/network"
)

// Name is the registry name of the PASE authenticator.
const Name = "pase"

// Identities used when the configuration names none.
const (
	DefaultClientIdentity = "mash-client"
	DefaultServerIdentity = "mash-server"
)

var (
	// ErrIdentityMismatch is returned when the server announces an
	// identity other than the configured one.
	ErrIdentityMismatch = errors.New("server identity mismatch")

	errAuthClosed = errors.New("authenticator closed")
)

func init() {
	network.RegisterAuthenticator(Name, Provider)
}

// Options configures one side of the exchange.
type Options struct {
	// SetupCode is the shared password.
	SetupCode SetupCode

	// ClientIdentity names the client. A server ignores it and takes
	// the identity from the request.
	ClientIdentity string

	// ServerIdentity names the server.
	ServerIdentity string

	// Window, when set on a server, gates which requests are accepted.
	Window *Window
}

// Provider builds a factory from network.KeyPASESetupCode,
// network.KeyPASEClientIdentity and network.KeyPASEServerIdentity. A
// *Window under network.KeyPASEWindow gates a server.
func Provider(cfg network.Config, mode network.Mode) (network.AuthenticatorFactory, error) {
	raw, ok := cfg.String(network.KeyPASESetupCode)
	if !ok || raw == "" {
		return nil, fmt.Errorf("missing %s", network.KeyPASESetupCode)
	}
	code, err := ParseSetupCode(raw)
	if err != nil {
		return nil, err
	}
	opts := Options{
		SetupCode:      code,
		ClientIdentity: cfg.StringOr(network.KeyPASEClientIdentity, DefaultClientIdentity),
		ServerIdentity: cfg.StringOr(network.KeyPASEServerIdentity, DefaultServerIdentity),
	}
	if v, ok := cfg[network.KeyPASEWindow]; ok && v != nil {
		w, ok := v.(*Window)
		if !ok {
			return nil, fmt.Errorf("%s: expected *pase.Window, got %T", network.KeyPASEWindow, v)
		}
		opts.Window = w
	}
	return func(t network.TransportLayer) (network.Authenticator, error) {
		return New(t, mode, opts)
	}, nil
}

type step uint8

const (
	stepSendRequest step = iota
	stepAwaitRequest
	stepAwaitResponse
	stepAwaitConfirm
	stepAwaitComplete
	stepFinishing
	stepDone
)

// Authenticator runs the SPAKE2+ exchange over a transport it does not
// own. Not safe for concurrent use.
type Authenticator struct {
	mode   network.Mode
	opts   Options
	f      framer
	step   step
	client *ClientExchange
	server *ServerExchange

	session string // window reservation held by a server

	state     network.AuthState
	principal network.Principal
	secret    []byte
	err       error
	closed    bool
}

// New creates an authenticator for one channel. The client side derives
// its password scalars here; the server waits for the request.
func New(t network.TransportLayer, mode network.Mode, opts Options) (*Authenticator, error) {
	if t == nil {
		return nil, errors.New("nil transport")
	}
	if err := opts.SetupCode.Validate(); err != nil {
		return nil, err
	}
	a := &Authenticator{mode: mode, opts: opts, f: framer{t: t}}
	if mode == network.ModeServer {
		a.step = stepAwaitRequest
		return a, nil
	}
	c, err := NewClientExchange(opts.SetupCode, []byte(opts.ClientIdentity), []byte(opts.ServerIdentity))
	if err != nil {
		return nil, err
	}
	a.client = c
	a.step = stepSendRequest
	return a, nil
}

// Authenticate advances the exchange as far as available input and
// output space allow. A failure is permanent.
func (a *Authenticator) Authenticate() error {
	if a.err != nil {
		return a.err
	}
	if a.state == network.AuthComplete {
		return nil
	}
	if a.closed {
		return fmt.Errorf("%w: %w", network.ErrAuthentication, errAuthClosed)
	}
	if err := a.advance(); err != nil {
		a.err = fmt.Errorf("%w: pase: %w", network.ErrAuthentication, err)
		a.client, a.server = nil, nil
		if rerr := a.release(false); rerr != nil {
			a.err = multierr.Append(a.err, rerr)
		}
		return a.err
	}
	return nil
}

func (a *Authenticator) advance() error {
	for {
		done, err := a.f.flush()
		if err != nil || !done {
			return err
		}
		switch a.step {
		case stepSendRequest:
			req := &PASERequest{
				MsgType:        MsgPASERequest,
				PublicValue:    a.client.PublicValue(),
				ClientIdentity: []byte(a.opts.ClientIdentity),
			}
			if err := a.f.queue(req); err != nil {
				return err
			}
			a.step = stepAwaitResponse
		case stepFinishing:
			return a.finish(a.server.SharedSecret())
		case stepDone:
			return nil
		default:
			data, err := a.f.next()
			if err != nil || data == nil {
				return err
			}
			msg, err := DecodeMessage(data)
			if err != nil {
				return err
			}
			if e, ok := msg.(*PASEError); ok {
				return e
			}
			if err := a.handle(msg); err != nil {
				return err
			}
		}
	}
}

func (a *Authenticator) handle(msg any) error {
	switch a.step {
	case stepAwaitRequest:
		req, ok := msg.(*PASERequest)
		if !ok {
			return a.abort(ErrCodeUnexpected, unexpected("PASERequest", msg))
		}
		return a.onRequest(req)
	case stepAwaitResponse:
		resp, ok := msg.(*PASEResponse)
		if !ok {
			return unexpected("PASEResponse", msg)
		}
		return a.onResponse(resp)
	case stepAwaitConfirm:
		confirm, ok := msg.(*PASEConfirm)
		if !ok {
			return a.abort(ErrCodeUnexpected, unexpected("PASEConfirm", msg))
		}
		return a.onConfirm(confirm)
	case stepAwaitComplete:
		complete, ok := msg.(*PASEComplete)
		if !ok {
			return unexpected("PASEComplete", msg)
		}
		return a.onComplete(complete)
	}
	return unexpected("nothing", msg)
}

func (a *Authenticator) onRequest(req *PASERequest) error {
	if w := a.opts.Window; w != nil {
		id, err := w.BeginPASE()
		switch {
		case errors.Is(err, ErrWindowBusy):
			return a.abort(ErrCodeBusy, err)
		case err != nil:
			return a.abort(ErrCodeWindowClosed, err)
		}
		a.session = id
	}
	v, err := GenerateVerifier(a.opts.SetupCode, req.ClientIdentity, []byte(a.opts.ServerIdentity))
	if err != nil {
		return a.abort(ErrCodeInternalError, err)
	}
	s, err := NewServerExchange(v, []byte(a.opts.ServerIdentity))
	if err != nil {
		return a.abort(ErrCodeInternalError, err)
	}
	if err := s.ProcessClientValue(req.PublicValue); err != nil {
		return a.abort(ErrCodeInvalidPublicKey, err)
	}
	a.server = s
	a.principal = network.Principal{Name: string(req.ClientIdentity), Trust: network.TrustAuthenticated}
	a.step = stepAwaitConfirm
	return a.f.queue(&PASEResponse{
		MsgType:        MsgPASEResponse,
		PublicValue:    s.PublicValue(),
		ServerIdentity: []byte(a.opts.ServerIdentity),
	})
}

func (a *Authenticator) onResponse(resp *PASEResponse) error {
	if len(resp.ServerIdentity) > 0 && !bytes.Equal(resp.ServerIdentity, []byte(a.opts.ServerIdentity)) {
		return fmt.Errorf("%w: got %q", ErrIdentityMismatch, resp.ServerIdentity)
	}
	if err := a.client.ProcessServerValue(resp.PublicValue); err != nil {
		return err
	}
	a.principal = network.Principal{Name: a.opts.ServerIdentity, Trust: network.TrustAuthenticated}
	a.step = stepAwaitComplete
	return a.f.queue(&PASEConfirm{
		MsgType:      MsgPASEConfirm,
		Confirmation: a.client.Confirmation(),
	})
}

func (a *Authenticator) onConfirm(confirm *PASEConfirm) error {
	if err := a.server.VerifyClientConfirmation(confirm.Confirmation); err != nil {
		a.sendFinal(&PASEComplete{MsgType: MsgPASEComplete, ErrorCode: ErrCodeConfirmFailed})
		return err
	}
	a.step = stepFinishing
	return a.f.queue(&PASEComplete{
		MsgType:      MsgPASEComplete,
		Confirmation: a.server.Confirmation(),
		ErrorCode:    ErrCodeSuccess,
	})
}

func (a *Authenticator) onComplete(complete *PASEComplete) error {
	if complete.ErrorCode != ErrCodeSuccess {
		if complete.ErrorCode == ErrCodeConfirmFailed {
			return fmt.Errorf("server rejected confirmation: %w", ErrConfirmationFailed)
		}
		return fmt.Errorf("server reported error code %d", complete.ErrorCode)
	}
	if err := a.client.VerifyServerConfirmation(complete.Confirmation); err != nil {
		return err
	}
	return a.finish(a.client.SharedSecret())
}

// abort tells the peer why the exchange stopped and returns err.
func (a *Authenticator) abort(code uint8, err error) error {
	a.sendFinal(&PASEError{MsgType: MsgPASEError, ErrorCode: code, Message: err.Error()})
	return err
}

// sendFinal makes a single attempt to deliver a last message.
func (a *Authenticator) sendFinal(msg any) {
	if a.f.queue(msg) == nil {
		_, _ = a.f.flush()
	}
}

// finish completes the exchange. A window that no longer holds this
// exchange's reservation fails it instead.
func (a *Authenticator) finish(secret []byte) error {
	if err := a.release(true); err != nil {
		clear(secret)
		return err
	}
	a.secret = secret
	a.client, a.server = nil, nil
	a.step = stepDone
	a.state = network.AuthComplete
	return nil
}

// release hands a window reservation back.
func (a *Authenticator) release(success bool) error {
	if a.session == "" {
		return nil
	}
	session := a.session
	a.session = ""
	if err := a.opts.Window.EndPASE(session, success); err != nil {
		return fmt.Errorf("release pairing window: %w", err)
	}
	return nil
}

func unexpected(want string, got any) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrInvalidMessage, want, got)
}

// Complete reports whether the exchange succeeded.
func (a *Authenticator) Complete() bool {
	return a.state == network.AuthComplete
}

// State returns the negotiation state.
func (a *Authenticator) State() network.AuthState {
	return a.state
}

// Principal returns the authenticated peer identity once complete.
func (a *Authenticator) Principal() (network.Principal, bool) {
	if a.state != network.AuthComplete {
		return network.Principal{}, false
	}
	return a.principal, true
}

// SharedSecret returns the secret derived by the exchange, or nil before
// completion and after Close.
func (a *Authenticator) SharedSecret() []byte {
	return a.secret
}

// Close discards the exchange state and hands back a pairing window
// reservation, reporting when the window no longer held it. The
// transport is left alone.
func (a *Authenticator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	err := a.release(false)
	clear(a.secret)
	a.secret = nil
	a.client, a.server = nil, nil
	return err
}
