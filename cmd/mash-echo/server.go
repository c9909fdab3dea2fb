//go:build linux

package main

import (
	"context"
	"encoding/hex"
	"log/slog"

	"github.com/mash-protocol/mash-channel/internal/reactor"
	"github.com/mash-protocol/mash-channel/pkg/config"
	"github.com/mash-protocol/mash-channel/pkg/network"
)

func serve(ctx context.Context, f *config.File, builder network.ChannelBuilder, logger *slog.Logger) error {
	r, err := reactor.New(reactor.Config{
		Builder: builder,
		Logger:  logger,
		OnReady: func(c *reactor.Conn) {
			p, _ := c.Channel().Principal()
			logger.Info("peer connected",
				"connID", c.ID(),
				"remote", c.RemoteAddr(),
				"principal", p.Name,
				"trust", p.Trust.String())
		},
		OnData: func(c *reactor.Conn, data []byte) {
			// Send drops the connection itself on failure.
			_ = c.Send(data)
		},
		OnClose: func(c *reactor.Conn, err error) {
			logger.Info("peer disconnected", "connID", c.ID(), "error", err)
		},
	})
	if err != nil {
		return err
	}
	if err := r.Listen(f.Address); err != nil {
		_ = r.Close()
		return err
	}

	attrs := []any{"address", r.Addr(), "protocol", builder.Protocol()}
	if sb, ok := builder.(*network.SecureChannelBuilder); ok {
		attrs = append(attrs, "staticKey", hex.EncodeToString(sb.StaticPublicKey()))
	}
	logger.Info("echo server listening", attrs...)

	if f.Advertise != "" {
		stopAdvertising, err := advertise(f.Advertise, r.Addr(), builder.Protocol())
		if err != nil {
			logger.Warn("mDNS advertising failed", "error", err)
		} else {
			defer stopAdvertising()
			logger.Info("advertising", "instance", f.Advertise, "service", ServiceType)
		}
	}

	return r.Run(ctx)
}
