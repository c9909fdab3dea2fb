//go:build linux

// Command mash-echo runs an echo server or an interactive echo client
// over a MASH channel.
//
// The server echoes every byte it receives once the channel is ready.
// The client reads lines from the terminal, sends them and prints what
// comes back.
//
// Usage:
//
//	mash-echo [flags]
//
// Flags:
//
//	-config string        Configuration file path
//	-mode string          client or server
//	-protocol string      PLAINTEXT or NOISE
//	-addr string          Listen or dial address
//	-setup-code string    8-digit PASE setup code (enables the pase authenticator)
//	-pairing-window dur   Accept PASE pairing only for this long (server)
//	-advertise string     mDNS instance name announced by a server
//	-log-level string     Log level: debug, info, warn, error
//	-protocol-log string  File receiving CBOR channel events
//	-reconnect            Redial with backoff when the connection drops (client)
//	-genkey               Print a new Noise key pair and exit
//
// Examples:
//
//	# Noise server authenticating clients with a setup code
//	mash-echo -mode server -protocol NOISE -addr :8443 -setup-code 12345678
//
//	# Matching client
//	mash-echo -protocol NOISE -addr 127.0.0.1:8443 -setup-code 12345678
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chzyer/readline"

	"github.com/mash-protocol/mash-channel/pkg/config"
	"github.com/mash-protocol/mash-channel/pkg/network"
	"github.com/mash-protocol/mash-channel/pkg/pase"
)

// Flags holds the command line overrides.
type Flags struct {
	ConfigFile  string
	Mode        string
	Protocol    string
	Address     string
	SetupCode   string
	Pairing     time.Duration
	Advertise   string
	LogLevel    string
	ProtocolLog string
	Reconnect   bool
	GenKey      bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.Mode, "mode", "", "Channel mode: client, server")
	flag.StringVar(&flags.Protocol, "protocol", "", "Security protocol: PLAINTEXT, NOISE")
	flag.StringVar(&flags.Address, "addr", "", "Listen or dial address")
	flag.StringVar(&flags.SetupCode, "setup-code", "", "8-digit PASE setup code")
	flag.DurationVar(&flags.Pairing, "pairing-window", 0, "Accept PASE pairing only for this long (server)")
	flag.StringVar(&flags.Advertise, "advertise", "", "mDNS instance name announced by a server")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&flags.ProtocolLog, "protocol-log", "", "File receiving CBOR channel events")
	flag.BoolVar(&flags.Reconnect, "reconnect", false, "Redial with backoff when the connection drops (client)")
	flag.BoolVar(&flags.GenKey, "genkey", false, "Print a new Noise key pair and exit")
}

func main() {
	flag.Parse()

	if flags.GenKey {
		if err := genKey(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "mash-echo: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mash-echo: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	f, err := loadConfig(flags)
	if err != nil {
		return err
	}
	mode, err := f.ChannelMode()
	if err != nil {
		return err
	}

	var rl *readline.Instance
	var logOut io.Writer = os.Stderr
	if mode == network.ModeClient {
		rl, err = readline.NewEx(&readline.Config{
			Prompt:          "echo> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("failed to create readline: %w", err)
		}
		defer rl.Close()
		logOut = rl.Stderr()
	}

	logger := f.Logger(logOut)
	opts := []network.BuilderOption{network.WithLogger(logger)}

	plog, err := f.ProtocolLogger()
	if err != nil {
		return err
	}
	if plog != nil {
		defer plog.Close()
		opts = append(opts, network.WithProtocolLogger(plog))
	}

	window, err := f.OpenPairingWindow()
	if err != nil {
		return err
	}
	if window != nil {
		defer window.Close()
		window.OnStateChange(func(oldState, newState pase.WindowState) {
			logger.Info("pairing window changed", "from", oldState.String(), "to", newState.String())
		})
		logger.Info("pairing window open", "remaining", window.Remaining().Round(time.Second))
	}

	builder, err := f.NewChannelBuilder(opts...)
	if err != nil {
		return err
	}
	defer builder.Close()

	if mode == network.ModeServer {
		return serve(ctx, f, builder, logger)
	}
	return interact(ctx, f, builder, logger, rl, flags.Reconnect)
}

// loadConfig reads the configuration file, if any, and applies the
// command line overrides on top.
func loadConfig(fl Flags) (*config.File, error) {
	f := config.Default()
	if fl.ConfigFile != "" {
		var err error
		if f, err = config.Load(fl.ConfigFile); err != nil {
			return nil, err
		}
	}
	if fl.Mode != "" {
		f.Mode = fl.Mode
	}
	if fl.Protocol != "" {
		f.Protocol = fl.Protocol
	}
	if fl.Address != "" {
		f.Address = fl.Address
	}
	if fl.SetupCode != "" {
		if f.PASE == nil {
			f.PASE = &config.PASE{}
		}
		f.PASE.SetupCode = fl.SetupCode
		f.Authenticator = pase.Name
	}
	if fl.Pairing != 0 {
		if f.PASE == nil {
			return nil, errors.New("-pairing-window needs a setup code")
		}
		f.PASE.PairingWindow = fl.Pairing
	}
	if fl.Advertise != "" {
		f.Advertise = fl.Advertise
	}
	if fl.LogLevel != "" {
		f.Logging.Level = fl.LogLevel
	}
	if fl.ProtocolLog != "" {
		f.Logging.ProtocolLog = fl.ProtocolLog
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func genKey(w io.Writer) error {
	key, err := network.GenerateNoiseKey()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "private: %s\n", hex.EncodeToString(key.Private))
	fmt.Fprintf(w, "public:  %s\n", hex.EncodeToString(key.Public))
	return nil
}
