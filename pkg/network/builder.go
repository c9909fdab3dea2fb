package network

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/multierr"

	"github.com/mash-protocol/mash-channel/pkg/log"
)

// Mode is the side of the connection a builder serves.
type Mode uint8

const (
	// ModeClient builds channels for outbound connections.
	ModeClient Mode = iota
	// ModeServer builds channels for accepted connections.
	ModeServer
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeClient:
		return "client"
	case ModeServer:
		return "server"
	default:
		return "unknown"
	}
}

func (m Mode) role() log.Role {
	if m == ModeServer {
		return log.RoleServer
	}
	return log.RoleClient
}

// ParseMode parses "client" or "server".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client":
		return ModeClient, nil
	case "server":
		return ModeServer, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrConfiguration, s)
	}
}

// SecurityProtocol names a transport variant.
type SecurityProtocol string

const (
	// ProtocolPlaintext selects PlaintextTransport.
	ProtocolPlaintext SecurityProtocol = "PLAINTEXT"
	// ProtocolNoise selects NoiseTransport.
	ProtocolNoise SecurityProtocol = "NOISE"
)

// ParseSecurityProtocol parses a protocol name, ignoring case.
func ParseSecurityProtocol(s string) (SecurityProtocol, error) {
	switch p := SecurityProtocol(strings.ToUpper(strings.TrimSpace(s))); p {
	case ProtocolPlaintext, ProtocolNoise:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown security protocol %q", ErrConfiguration, s)
	}
}

// ChannelBuilder creates channels of one transport variant. The variant
// is chosen when the builder is created, never per connection.
type ChannelBuilder interface {
	// Configure resolves the principal builder and authenticator named
	// in cfg. It must succeed before BuildChannel is called.
	Configure(cfg Config) error

	// BuildChannel takes ownership of conn and key and returns the
	// composed channel. Once the builder is configured, a failure
	// releases both. An unconfigured builder returns ErrConfiguration
	// and leaves them with the caller.
	BuildChannel(id string, conn Conn, key SelectionKey) (*Channel, error)

	// Protocol returns the transport variant.
	Protocol() SecurityProtocol

	// Close releases the principal builder. Call at most once.
	Close() error
}

var errNotConfigured = errors.New("builder not configured")

// BuilderOption customizes a channel builder.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	logger         *slog.Logger
	protocolLogger log.Logger
	noise          *NoiseConfig
}

// WithLogger sets the operational logger. Nil disables logging.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(o *builderOptions) { o.logger = l }
}

// WithProtocolLogger captures channel events. Nil disables capture.
func WithProtocolLogger(l log.Logger) BuilderOption {
	return func(o *builderOptions) { o.protocolLogger = l }
}

// WithNoiseConfig supplies the Noise static key and trusted peers
// directly. Configuration keys still add trusted peers.
func WithNoiseConfig(cfg NoiseConfig) BuilderOption {
	return func(o *builderOptions) { o.noise = &cfg }
}

// NewChannelBuilder returns the builder for protocol. It still needs
// Configure.
func NewChannelBuilder(protocol SecurityProtocol, mode Mode, opts ...BuilderOption) (ChannelBuilder, error) {
	switch protocol {
	case ProtocolPlaintext:
		return NewPlaintextChannelBuilder(mode, opts...), nil
	case ProtocolNoise:
		return NewSecureChannelBuilder(mode, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown security protocol %q", ErrConfiguration, protocol)
	}
}

// builderCore holds what both builder variants share.
type builderCore struct {
	mode        Mode
	opts        builderOptions
	pb          PrincipalBuilder
	authFactory AuthenticatorFactory
	cfgErr      error
}

func newBuilderCore(mode Mode, opts []BuilderOption) builderCore {
	c := builderCore{mode: mode, cfgErr: errNotConfigured}
	for _, o := range opts {
		o(&c.opts)
	}
	return c
}

func (b *builderCore) configure(cfg Config) error {
	if b.pb != nil {
		return fmt.Errorf("%w: builder already configured", ErrConfiguration)
	}
	pb, err := newPrincipalBuilder(cfg)
	if err != nil {
		b.cfgErr = err
		return err
	}
	factory, err := lookupAuthenticator(cfg, b.mode)
	if err != nil {
		b.cfgErr = multierr.Append(err, pb.Close())
		return b.cfgErr
	}
	b.pb = pb
	b.authFactory = factory
	b.cfgErr = nil
	return nil
}

// usable reports the configuration failure, if any. It runs before
// anything touches the connection.
func (b *builderCore) usable() error {
	if b.cfgErr != nil {
		return wrapErr(ErrConfiguration, "build channel", b.cfgErr)
	}
	return nil
}

// compose wires an authenticator to t and returns the channel. On failure
// t is closed, which releases the connection and key.
func (b *builderCore) compose(id string, protocol SecurityProtocol, t TransportLayer) (*Channel, error) {
	a, err := b.authFactory(t)
	if err == nil && a == nil {
		err = errors.New("authenticator factory returned nil")
	}
	if err != nil {
		return nil, b.abort(id, wrapErr(ErrAuthentication, "create authenticator", err), t.Close())
	}

	ch := newChannel(id, b.mode, protocol, t, a, b.pb, b.opts.protocolLogger)
	ch.logState(log.StateEntityChannel, "", "CREATED", "")

	// Authenticators that exchange nothing complete immediately when the
	// transport has no handshake.
	if _, ok := a.(*DefaultAuthenticator); ok && t.IsReady() {
		if err := ch.Prepare(); err != nil {
			return nil, b.abort(id, err, ch.Close())
		}
	}
	return ch, nil
}

// abort logs a construction failure and returns err. closeErr is the
// result of releasing the partially built resources.
func (b *builderCore) abort(id string, err, closeErr error) error {
	if logger := b.opts.logger; logger != nil {
		logger.Warn("channel build failed",
			"connID", id,
			"error", err)
		if closeErr != nil {
			logger.Warn("channel cleanup failed",
				"connID", id,
				"error", closeErr)
		}
	}
	return err
}

// release frees conn and key when no transport could take them.
func release(conn Conn, key SelectionKey) error {
	var err error
	if key != nil {
		err = multierr.Append(err, key.Cancel())
	}
	if conn != nil {
		err = multierr.Append(err, conn.Close())
	}
	return err
}

func (b *builderCore) close() error {
	if b.pb == nil {
		return nil
	}
	err := b.pb.Close()
	b.pb = nil
	b.authFactory = nil
	b.cfgErr = errNotConfigured
	return err
}

// PlaintextChannelBuilder builds channels over PlaintextTransport.
type PlaintextChannelBuilder struct {
	builderCore
}

// NewPlaintextChannelBuilder creates an unconfigured plaintext builder.
func NewPlaintextChannelBuilder(mode Mode, opts ...BuilderOption) *PlaintextChannelBuilder {
	return &PlaintextChannelBuilder{builderCore: newBuilderCore(mode, opts)}
}

// Configure resolves the principal builder and authenticator.
func (b *PlaintextChannelBuilder) Configure(cfg Config) error {
	return b.configure(cfg)
}

// BuildChannel composes a plaintext channel.
func (b *PlaintextChannelBuilder) BuildChannel(id string, conn Conn, key SelectionKey) (*Channel, error) {
	if err := b.usable(); err != nil {
		return nil, err
	}
	t, err := NewPlaintextTransport(conn, key)
	if err != nil {
		return nil, b.abort(id, err, release(conn, key))
	}
	return b.compose(id, ProtocolPlaintext, t)
}

// Protocol returns ProtocolPlaintext.
func (b *PlaintextChannelBuilder) Protocol() SecurityProtocol {
	return ProtocolPlaintext
}

// Close releases the principal builder.
func (b *PlaintextChannelBuilder) Close() error {
	return b.close()
}

// SecureChannelBuilder builds channels over NoiseTransport.
type SecureChannelBuilder struct {
	builderCore
	noise *NoiseConfig
}

// NewSecureChannelBuilder creates an unconfigured Noise builder.
func NewSecureChannelBuilder(mode Mode, opts ...BuilderOption) *SecureChannelBuilder {
	return &SecureChannelBuilder{builderCore: newBuilderCore(mode, opts)}
}

// Configure loads the trust configuration, then resolves the principal
// builder and authenticator. Without a configured static key a fresh
// one is generated.
func (b *SecureChannelBuilder) Configure(cfg Config) error {
	nc, err := b.noiseConfig(cfg)
	if err != nil {
		b.cfgErr = err
		return err
	}
	if err := b.configure(cfg); err != nil {
		return err
	}
	b.noise = nc
	if logger := b.opts.logger; logger != nil {
		logger.Info("noise channel builder configured",
			"mode", b.mode.String(),
			"staticKey", fmt.Sprintf("%x", nc.StaticKey.Public),
			"trustedPeers", len(nc.TrustedPeers))
	}
	return nil
}

func (b *SecureChannelBuilder) noiseConfig(cfg Config) (*NoiseConfig, error) {
	nc := &NoiseConfig{}
	if b.opts.noise != nil {
		*nc = *b.opts.noise
		nc.TrustedPeers = append([][]byte(nil), nc.TrustedPeers...)
	}
	if priv, ok := cfg.String(KeyNoiseStaticKey); ok && priv != "" {
		key, err := ParseNoiseKey(priv)
		if err != nil {
			return nil, wrapErr(ErrConfiguration, KeyNoiseStaticKey, err)
		}
		nc.StaticKey = key
	}
	if len(nc.StaticKey.Private) == 0 {
		key, err := GenerateNoiseKey()
		if err != nil {
			return nil, wrapErr(ErrConfiguration, "generate noise key", err)
		}
		nc.StaticKey = key
	}
	peers, err := cfg.Strings(KeyNoiseTrustedPeers)
	if err != nil {
		return nil, wrapErr(ErrConfiguration, KeyNoiseTrustedPeers, err)
	}
	for _, p := range peers {
		pub, err := ParsePeerKey(p)
		if err != nil {
			return nil, wrapErr(ErrConfiguration, KeyNoiseTrustedPeers, err)
		}
		nc.TrustedPeers = append(nc.TrustedPeers, pub)
	}
	return nc, nil
}

// StaticPublicKey returns the local Noise public key once configured.
func (b *SecureChannelBuilder) StaticPublicKey() []byte {
	if b.noise == nil {
		return nil
	}
	return b.noise.StaticKey.Public
}

// BuildChannel composes a Noise channel. The handshake starts on the
// first Prepare call.
func (b *SecureChannelBuilder) BuildChannel(id string, conn Conn, key SelectionKey) (*Channel, error) {
	if err := b.usable(); err != nil {
		return nil, err
	}
	t, err := NewNoiseTransport(conn, key, b.mode, b.noise)
	if err != nil {
		return nil, b.abort(id, err, release(conn, key))
	}
	return b.compose(id, ProtocolNoise, t)
}

// Protocol returns ProtocolNoise.
func (b *SecureChannelBuilder) Protocol() SecurityProtocol {
	return ProtocolNoise
}

// Close releases the principal builder.
func (b *SecureChannelBuilder) Close() error {
	return b.close()
}
