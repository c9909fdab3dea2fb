// Package connection schedules client reconnects for a reactor.
//
// Nothing here blocks or starts goroutines. A Redialer is polled from the
// same loop that drives the channels: it says when the next dial is due,
// and the loop reports back whether the channel came up.
//
// # Reconnection Strategy
//
// After a lost or failed connection the client waits with exponential
// backoff:
//
//  1. Initial delay: 1 second
//  2. Exponential increase: 2s, 4s, 8s, 16s, 32s
//  3. Maximum delay: 60 seconds
//  4. Reset to 1s once a channel is ready
//
// # Jitter
//
// To keep many clients from reconnecting in lockstep:
//
//	actual_delay = base_delay + random(0, base_delay * 0.25)
//
// # Success Criteria
//
// A reconnect counts as successful only when the channel is ready: the
// transport handshake and the authenticator have both completed. A peer
// that accepts TCP and then rejects authentication keeps backing off.
package connection
