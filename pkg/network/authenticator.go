package network

import (
	"fmt"
	"sort"
	"sync"
)

// AuthState is the negotiation state of an Authenticator. It only moves
// from AuthNegotiating to AuthComplete.
type AuthState uint8

const (
	// AuthNegotiating means identity negotiation is in progress.
	AuthNegotiating AuthState = iota
	// AuthComplete means the peer identity is settled.
	AuthComplete
)

// String returns the state name.
func (s AuthState) String() string {
	switch s {
	case AuthNegotiating:
		return "NEGOTIATING"
	case AuthComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Authenticator negotiates the peer identity over a TransportLayer it
// references but does not own.
type Authenticator interface {
	// Authenticate advances negotiation. It never blocks; when it has to
	// wait it sets READ or WRITE interest through the transport and
	// returns nil. Failures wrap ErrAuthentication.
	Authenticate() error

	// Complete reports whether negotiation finished.
	Complete() bool

	// State returns the current negotiation state.
	State() AuthState

	// Principal returns the identity negotiated by the authenticator.
	// ok is false when it establishes none of its own.
	Principal() (p Principal, ok bool)

	// Close releases authenticator state. It does not touch the transport.
	Close() error
}

// AuthenticatorFactory creates the authenticator for one channel.
type AuthenticatorFactory func(t TransportLayer) (Authenticator, error)

// AuthenticatorProvider turns configuration into a factory. It is called
// once per builder, from Configure.
type AuthenticatorProvider func(cfg Config, mode Mode) (AuthenticatorFactory, error)

// DefaultAuthenticatorName is the complete-on-first-call authenticator.
const DefaultAuthenticatorName = "default"

var (
	authMu        sync.RWMutex
	authProviders = map[string]AuthenticatorProvider{
		DefaultAuthenticatorName: func(Config, Mode) (AuthenticatorFactory, error) {
			return func(TransportLayer) (Authenticator, error) {
				return &DefaultAuthenticator{}, nil
			}, nil
		},
	}
)

// RegisterAuthenticator makes an authenticator available under name.
// It panics if name is empty or already registered.
func RegisterAuthenticator(name string, provider AuthenticatorProvider) {
	authMu.Lock()
	defer authMu.Unlock()
	if name == "" || provider == nil {
		panic("network: RegisterAuthenticator with empty name or nil provider")
	}
	if _, dup := authProviders[name]; dup {
		panic("network: RegisterAuthenticator called twice for " + name)
	}
	authProviders[name] = provider
}

// Authenticators lists the registered authenticator names.
func Authenticators() []string {
	authMu.RLock()
	defer authMu.RUnlock()
	names := make([]string, 0, len(authProviders))
	for n := range authProviders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func lookupAuthenticator(cfg Config, mode Mode) (AuthenticatorFactory, error) {
	name := cfg.StringOr(KeyAuthenticator, DefaultAuthenticatorName)
	authMu.RLock()
	provider, ok := authProviders[name]
	authMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown authenticator %q", ErrConfiguration, name)
	}
	factory, err := provider(cfg, mode)
	if err != nil {
		return nil, wrapErr(ErrConfiguration, "authenticator "+name, err)
	}
	return factory, nil
}

// DefaultAuthenticator performs no negotiation. It completes on the first
// Authenticate call and leaves the identity to the transport.
type DefaultAuthenticator struct {
	state AuthState
}

// Authenticate moves to AuthComplete.
func (a *DefaultAuthenticator) Authenticate() error {
	a.state = AuthComplete
	return nil
}

// Complete reports whether Authenticate has been called.
func (a *DefaultAuthenticator) Complete() bool {
	return a.state == AuthComplete
}

// State returns the negotiation state.
func (a *DefaultAuthenticator) State() AuthState {
	return a.state
}

// Principal returns false; the transport principal applies.
func (a *DefaultAuthenticator) Principal() (Principal, bool) {
	return Principal{}, false
}

// Close is a no-op.
func (a *DefaultAuthenticator) Close() error {
	return nil
}
