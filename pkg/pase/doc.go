// Package pase implements a password-authenticated channel authenticator
// based on SPAKE2+.
//
// # Overview
//
// Both peers share an 8-digit setup code. The client proves knowledge of
// the code to the server without sending it; the server stores only a
// verifier derived from it. After a successful exchange each side knows
// the other's identity and the channel principal becomes that identity
// at network.TrustAuthenticated.
//
// # Exchange
//
//	client                         server
//	PASERequest(pA, clientID)  ->
//	                           <-  PASEResponse(pB)
//	PASEConfirm(cA)            ->
//	                           <-  PASEComplete(cB, code)
//
// Messages are CBOR maps with integer keys, framed by a 4-byte big-endian
// length. The authenticator runs over an established network.TransportLayer
// and never blocks: every Authenticate call flushes pending output, then
// sends or consumes at most the next message, and sets READ or WRITE
// interest when it has to wait.
//
// # Configuration
//
// The authenticator registers itself as "pase". It reads
// network.KeyPASESetupCode, network.KeyPASEClientIdentity and
// network.KeyPASEServerIdentity from the builder configuration.
//
// # Cryptographic Parameters
//
//   - Curve: P-256 (NIST)
//   - Hash: SHA-256
//   - KDF: HKDF-SHA256
//   - MAC: HMAC-SHA256
package pase
