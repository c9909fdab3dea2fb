//go:build linux

package socket

import "github.com/mash-protocol/mash-channel/pkg/network"

// Compile-time interface satisfaction check.
var _ network.Conn = (*Socket)(nil)
