//go:build linux

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chzyer/readline"

	"github.com/mash-protocol/mash-channel/internal/reactor"
	"github.com/mash-protocol/mash-channel/pkg/config"
	"github.com/mash-protocol/mash-channel/pkg/connection"
	"github.com/mash-protocol/mash-channel/pkg/network"
)

// interact dials the server and sends every terminal line. The reactor
// is only touched from this goroutine; readline runs on its own and
// hands lines over a channel.
//
// With reconnect set, a dropped or failed connection is redialed with
// backoff until the context ends or input reaches EOF. Lines typed while
// disconnected are dropped.
func interact(ctx context.Context, f *config.File, builder network.ChannelBuilder, logger *slog.Logger, rl *readline.Instance, reconnect bool) error {
	var (
		conn     *reactor.Conn
		closeErr error
		eof      bool
	)

	redial := connection.NewRedialer(connection.NewBackoff())
	redial.OnWaiting(func(attempt int, delay time.Duration) {
		logger.Warn("connection lost, redialing", "attempt", attempt, "delay", delay.Round(time.Millisecond))
	})
	if !reconnect {
		redial.Stop()
	}

	r, err := reactor.New(reactor.Config{
		Builder: builder,
		Logger:  logger,
		OnReady: func(c *reactor.Conn) {
			redial.Connected()
			p, _ := c.Channel().Principal()
			fmt.Fprintf(rl.Stdout(), "connected to %s as peer %s (%s)\n", c.RemoteAddr(), p.Name, p.Trust)
		},
		OnData: func(_ *reactor.Conn, data []byte) {
			_, _ = rl.Stdout().Write(data)
		},
		OnClose: func(_ *reactor.Conn, err error) {
			conn = nil
			closeErr = err
			redial.Lost()
		},
	})
	if err != nil {
		return err
	}
	defer r.Close()

	dial := func() error {
		redial.Dialing()
		c, err := r.Dial(f.Address)
		if err != nil {
			if redial.State() == connection.StateStopped {
				return err
			}
			logger.Debug("dial failed", "addr", f.Address, "error", err)
			redial.Lost()
			return nil
		}
		conn = c
		return nil
	}
	if err := dial(); err != nil {
		return err
	}

	lines := readLines(ctx, rl)
	for {
		if conn == nil {
			if eof || redial.State() != connection.StateWaiting {
				return closeErr
			}
			if redial.Due() {
				if err := dial(); err != nil {
					return err
				}
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				eof = true
				redial.Stop()
				if conn != nil {
					conn.CloseWhenFlushed()
				}
				continue
			}
			if conn == nil {
				fmt.Fprintln(rl.Stderr(), "not connected, line dropped")
				continue
			}
			if err := conn.Send([]byte(line + "\n")); err != nil {
				return err
			}
		default:
		}
		if err := r.Poll(redial.Wait(reactor.DefaultPollInterval)); err != nil {
			return err
		}
	}
}

// readLines feeds terminal input into the returned channel until EOF.
func readLines(ctx context.Context, rl *readline.Instance) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			}
			if err != nil {
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
