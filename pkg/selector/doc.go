// Package selector multiplexes readiness events for non-blocking sockets.
//
// A Selector wraps a level-triggered epoll instance. Registering a
// descriptor returns a Key, which implements network.SelectionKey: the
// transport owning the descriptor updates the key's interest set to
// express backpressure and the Selector reports which interests are
// ready. A Selector and its keys belong to a single reactor goroutine.
package selector
