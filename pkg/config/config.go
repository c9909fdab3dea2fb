// Package config loads channel configuration from YAML files and turns
// it into configured channel builders.
//
// Example:
//
//	protocol: NOISE
//	mode: server
//	address: ":8443"
//	authenticator: pase
//	pase:
//	  setupCode: "12345678"
//	  serverIdentity: wallbox
//	  pairingWindow: 2m
//	noise:
//	  staticPrivateKey: 3f1a...
//	  trustedPeers: [9c0e...]
//	logging:
//	  level: debug
//	  format: json
//	  protocolLog: /var/log/mash/channel.mlog
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/mash-channel/pkg/log"
	"github.com/mash-protocol/mash-channel/pkg/network"
	"github.com/mash-protocol/mash-channel/pkg/pase"
)

// DefaultAddress is used when the file names no address.
const DefaultAddress = "127.0.0.1:8443"

// File is the on-disk configuration.
type File struct {
	// Protocol is PLAINTEXT or NOISE.
	Protocol string `yaml:"protocol"`

	// Mode is client or server.
	Mode string `yaml:"mode"`

	// Address is the listen address of a server or the dial target of a
	// client.
	Address string `yaml:"address"`

	// Advertise is the mDNS instance name a server announces. Empty
	// disables advertising.
	Advertise string `yaml:"advertise,omitempty"`

	PrincipalBuilder string `yaml:"principalBuilder,omitempty"`
	Authenticator    string `yaml:"authenticator,omitempty"`

	PASE  *PASE  `yaml:"pase,omitempty"`
	Noise *Noise `yaml:"noise,omitempty"`

	Logging Logging `yaml:"logging"`

	// PluginOptions are passed to plugins unchanged and may override any of
	// the keys derived above.
	PluginOptions map[string]any `yaml:"options,omitempty"`
}

// PASE configures the pase authenticator.
type PASE struct {
	SetupCode      string `yaml:"setupCode"`
	ClientIdentity string `yaml:"clientIdentity,omitempty"`
	ServerIdentity string `yaml:"serverIdentity,omitempty"`

	// PairingWindow, when set on a server, only accepts exchanges for
	// this long after start and closes after the first success.
	PairingWindow time.Duration `yaml:"pairingWindow,omitempty"`
}

// Noise configures the secure transport.
type Noise struct {
	StaticPrivateKey string   `yaml:"staticPrivateKey,omitempty"`
	TrustedPeers     []string `yaml:"trustedPeers,omitempty"`
}

// Logging configures operational and protocol logging.
type Logging struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`

	// ProtocolLog is a file receiving CBOR channel events.
	ProtocolLog string `yaml:"protocolLog,omitempty"`
}

// Default returns a plaintext client configuration.
func Default() *File {
	return &File{
		Protocol: string(network.ProtocolPlaintext),
		Mode:     network.ModeClient.String(),
		Address:  DefaultAddress,
		Logging:  Logging{Level: "info", Format: "text"},
	}
}

// Load reads and validates the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// fields are rejected.
func Parse(data []byte) (*File, error) {
	f := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the values the builders cannot check themselves.
func (f *File) Validate() error {
	var errs []error
	if _, err := network.ParseSecurityProtocol(f.Protocol); err != nil {
		errs = append(errs, err)
	}
	if _, err := network.ParseMode(f.Mode); err != nil {
		errs = append(errs, err)
	}
	if f.Address == "" {
		errs = append(errs, errors.New("address must not be empty"))
	}
	if f.PASE != nil {
		if _, err := pase.ParseSetupCode(f.PASE.SetupCode); err != nil {
			errs = append(errs, fmt.Errorf("pase.setupCode: %w", err))
		}
		if w := f.PASE.PairingWindow; w != 0 && (w < pase.MinWindowTimeout || w > pase.MaxWindowTimeout) {
			errs = append(errs, fmt.Errorf("pase.pairingWindow: %w: %s", pase.ErrInvalidTimeout, w))
		}
	}
	if f.Authenticator == pase.Name && f.PASE == nil {
		if _, ok := f.PluginOptions[network.KeyPASESetupCode]; !ok {
			errs = append(errs, errors.New("authenticator pase needs a pase section"))
		}
	}
	if _, err := ParseLevel(f.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(f.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", f.Logging.Format))
	}
	return errors.Join(errs...)
}

// SecurityProtocol returns the parsed protocol.
func (f *File) SecurityProtocol() (network.SecurityProtocol, error) {
	return network.ParseSecurityProtocol(f.Protocol)
}

// ChannelMode returns the parsed mode.
func (f *File) ChannelMode() (network.Mode, error) {
	return network.ParseMode(f.Mode)
}

// Options flattens the file into the option map handed to builders.
func (f *File) Options() network.Config {
	cfg := network.Config{}
	if f.PrincipalBuilder != "" {
		cfg[network.KeyPrincipalBuilder] = f.PrincipalBuilder
	}
	if f.Authenticator != "" {
		cfg[network.KeyAuthenticator] = f.Authenticator
	}
	if p := f.PASE; p != nil {
		cfg[network.KeyPASESetupCode] = p.SetupCode
		if p.ClientIdentity != "" {
			cfg[network.KeyPASEClientIdentity] = p.ClientIdentity
		}
		if p.ServerIdentity != "" {
			cfg[network.KeyPASEServerIdentity] = p.ServerIdentity
		}
	}
	if n := f.Noise; n != nil {
		if n.StaticPrivateKey != "" {
			cfg[network.KeyNoiseStaticKey] = n.StaticPrivateKey
		}
		if len(n.TrustedPeers) > 0 {
			cfg[network.KeyNoiseTrustedPeers] = append([]string(nil), n.TrustedPeers...)
		}
	}
	maps.Copy(cfg, f.PluginOptions)
	return cfg
}

// OpenPairingWindow opens the configured pairing window and adds it to
// Options. It returns nil when none is configured or the mode is client.
func (f *File) OpenPairingWindow() (*pase.Window, error) {
	if f.PASE == nil || f.PASE.PairingWindow == 0 {
		return nil, nil
	}
	if mode, err := f.ChannelMode(); err != nil || mode != network.ModeServer {
		return nil, err
	}
	w := pase.NewWindow()
	if err := w.Open(f.PASE.PairingWindow); err != nil {
		return nil, fmt.Errorf("pase.pairingWindow: %w", err)
	}
	if f.PluginOptions == nil {
		f.PluginOptions = make(map[string]any)
	}
	f.PluginOptions[network.KeyPASEWindow] = w
	return w, nil
}

// NewChannelBuilder selects the builder for the configured protocol and
// mode and configures it.
func (f *File) NewChannelBuilder(opts ...network.BuilderOption) (network.ChannelBuilder, error) {
	protocol, err := f.SecurityProtocol()
	if err != nil {
		return nil, err
	}
	mode, err := f.ChannelMode()
	if err != nil {
		return nil, err
	}
	b, err := network.NewChannelBuilder(protocol, mode, opts...)
	if err != nil {
		return nil, err
	}
	if err := b.Configure(f.Options()); err != nil {
		return nil, err
	}
	return b, nil
}

// ParseLevel parses a log level name. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// Logger builds the operational logger writing to w.
func (f *File) Logger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(f.Logging.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(f.Logging.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ProtocolLogger opens the protocol event log. It returns nil when none
// is configured. The caller closes the returned logger.
func (f *File) ProtocolLogger() (*log.FileLogger, error) {
	if f.Logging.ProtocolLog == "" {
		return nil, nil
	}
	return log.NewFileLogger(f.Logging.ProtocolLog)
}
