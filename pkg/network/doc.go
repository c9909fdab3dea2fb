// Package network provides the transport layer for non-blocking MASH
// channels.
//
// The package handles:
//   - Plaintext and Noise secured transports behind one TransportLayer
//   - Pluggable identity negotiation (Authenticator, PrincipalBuilder)
//   - Channel builders that compose a transport and an authenticator
//   - Interest set management used by a reactor for backpressure
//
// # Layering
//
//	┌────────────────────────────────┐
//	│   Channel (reactor facing)     │
//	├────────────────────────────────┤
//	│   Authenticator (PASE, ...)    │
//	├────────────────────────────────┤
//	│   TransportLayer               │
//	│   (plaintext | Noise XX)       │
//	├────────────────────────────────┤
//	│   Conn + SelectionKey          │
//	└────────────────────────────────┘
//
// # Non-blocking Contract
//
// No call in this package blocks or retries. Reads and writes return
// (0, nil) when the socket would block and io.EOF once the peer closed
// its side. Handshake and Authenticate advance as far as the socket
// allows and express what they are waiting for by toggling READ or
// WRITE interest on the connection's SelectionKey. The reactor invokes
// Channel.Prepare on every readiness notification until Channel.IsReady
// reports true; only then are Read and Write permitted.
//
// # Ownership
//
// A Channel, its TransportLayer and its Authenticator belong to one
// reactor goroutine. There is no internal locking. Moving a Channel to
// another goroutine requires handing over ownership entirely.
//
// # Trust Tiers
//
// Plaintext transports perform no verification and always report the
// Anonymous principal (TrustNone). The Noise transport reports the peer
// static key (TrustTransport). Authenticators such as PASE report a
// verified identity (TrustAuthenticated).
package network
