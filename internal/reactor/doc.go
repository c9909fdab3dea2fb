// Package reactor runs channels on a single-threaded readiness loop.
//
// A Reactor owns a selector, an optional listener and a table of
// connections keyed by uuid connection id. On each readiness report it
// completes outbound connects, drives Channel.Prepare until the channel
// is ready, drains inbound data to the OnData callback and flushes the
// per-connection outbound queue. While a queue is not empty the channel
// keeps WRITE interest; past the high-water mark the channel is muted
// until the peer catches up.
//
// All methods, including Conn.Send, must be called from the goroutine
// running Poll or Run, or from the callbacks.
package reactor
