// Package socket provides non-blocking TCP and Unix stream sockets that
// satisfy network.Conn.
//
// Sockets are raw file descriptors driven by a readiness selector rather
// than the Go runtime poller. Reads and writes never block: EAGAIN is
// reported as (0, nil) and an orderly shutdown by the peer as io.EOF,
// which stays sticky on later reads.
package socket
