package network

import (
	"fmt"
	"sort"
	"sync"
)

// PrincipalBuilder derives the channel principal once handshake and
// authentication are complete. It is configured once per ChannelBuilder.
type PrincipalBuilder interface {
	Configure(cfg Config) error
	BuildPrincipal(t TransportLayer, a Authenticator) (Principal, error)
	Close() error
}

// DefaultPrincipalBuilderName is the builder used when none is configured.
const DefaultPrincipalBuilderName = "default"

var (
	pbMu       sync.RWMutex
	pbRegistry = map[string]func() PrincipalBuilder{
		DefaultPrincipalBuilderName: func() PrincipalBuilder { return DefaultPrincipalBuilder{} },
	}
)

// RegisterPrincipalBuilder makes a principal builder available under
// name. It panics if name is empty or already registered.
func RegisterPrincipalBuilder(name string, factory func() PrincipalBuilder) {
	pbMu.Lock()
	defer pbMu.Unlock()
	if name == "" || factory == nil {
		panic("network: RegisterPrincipalBuilder with empty name or nil factory")
	}
	if _, dup := pbRegistry[name]; dup {
		panic("network: RegisterPrincipalBuilder called twice for " + name)
	}
	pbRegistry[name] = factory
}

// PrincipalBuilders lists the registered principal builder names.
func PrincipalBuilders() []string {
	pbMu.RLock()
	defer pbMu.RUnlock()
	names := make([]string, 0, len(pbRegistry))
	for n := range pbRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// newPrincipalBuilder resolves and configures the builder named in cfg.
func newPrincipalBuilder(cfg Config) (PrincipalBuilder, error) {
	name := cfg.StringOr(KeyPrincipalBuilder, DefaultPrincipalBuilderName)
	pbMu.RLock()
	factory, ok := pbRegistry[name]
	pbMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown principal builder %q", ErrConfiguration, name)
	}
	pb := factory()
	if pb == nil {
		return nil, fmt.Errorf("%w: principal builder %q returned nil", ErrConfiguration, name)
	}
	if err := pb.Configure(cfg); err != nil {
		return nil, wrapErr(ErrConfiguration, "principal builder "+name, err)
	}
	return pb, nil
}

// DefaultPrincipalBuilder prefers the authenticator identity and falls
// back to the transport peer principal.
type DefaultPrincipalBuilder struct{}

// Configure accepts any configuration.
func (DefaultPrincipalBuilder) Configure(Config) error { return nil }

// BuildPrincipal returns the authenticator or transport principal.
func (DefaultPrincipalBuilder) BuildPrincipal(t TransportLayer, a Authenticator) (Principal, error) {
	if a != nil {
		if p, ok := a.Principal(); ok {
			return p, nil
		}
	}
	return t.PeerPrincipal()
}

// Close is a no-op.
func (DefaultPrincipalBuilder) Close() error { return nil }
