//go:build linux

package selector

import "github.com/mash-protocol/mash-channel/pkg/network"

// Compile-time interface satisfaction check.
var _ network.SelectionKey = (*Key)(nil)
