//go:build tools

package tools

// Mocks under pkg/network/mocks are generated with mockery.
// Run: go run github.com/vektra/mockery/v2 (from the repository root).
import (
	_ "github.com/vektra/mockery/v2"
)
