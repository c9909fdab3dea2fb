package network

import (
	"go.uber.org/multierr"

	"github.com/mash-protocol/mash-channel/pkg/log"
)

// Channel composes a TransportLayer and an Authenticator into the unit a
// reactor stores in its connection table. Application I/O is refused
// until the handshake and authentication have both completed.
//
// A Channel is owned by one reactor goroutine and is not safe for
// concurrent use.
type Channel struct {
	id        string
	mode      Mode
	protocol  SecurityProtocol
	transport TransportLayer
	auth      Authenticator
	pb        PrincipalBuilder
	logger    log.Logger

	principal Principal
	settled   bool // principal built
	closed    bool
}

func newChannel(id string, mode Mode, protocol SecurityProtocol, t TransportLayer, a Authenticator, pb PrincipalBuilder, logger log.Logger) *Channel {
	return &Channel{
		id:        id,
		mode:      mode,
		protocol:  protocol,
		transport: t,
		auth:      a,
		pb:        pb,
		logger:    logger,
	}
}

// ID returns the connection id assigned by the reactor.
func (c *Channel) ID() string {
	return c.id
}

// Transport returns the transport layer.
func (c *Channel) Transport() TransportLayer {
	return c.transport
}

// IsReady reports whether the handshake and authentication completed.
func (c *Channel) IsReady() bool {
	return !c.closed && c.transport.IsReady() && c.auth.Complete() && c.settled
}

// IsOpen reports whether the channel and its connection are open.
func (c *Channel) IsOpen() bool {
	return !c.closed && c.transport.IsOpen()
}

// FinishConnect completes a pending outbound connect.
func (c *Channel) FinishConnect() (bool, error) {
	if c.closed {
		return false, ErrClosedChannel
	}
	ok, err := c.transport.FinishConnect()
	if err != nil {
		c.logError(log.LayerTransport, "finish connect", err)
		return false, err
	}
	if ok {
		c.logState(log.StateEntityTransport, "CONNECTING", "CONNECTED", "")
	}
	return ok, nil
}

// Prepare advances the handshake and then authentication. Call it on
// every readiness notification until IsReady reports true.
func (c *Channel) Prepare() error {
	if c.closed {
		return ErrClosedChannel
	}
	if !c.transport.IsReady() {
		if err := c.transport.Handshake(); err != nil {
			c.logError(log.LayerHandshake, "handshake", err)
			return err
		}
		if !c.transport.IsReady() {
			return nil
		}
		c.logState(log.StateEntityTransport, "HANDSHAKING", "READY", "")
	}
	if !c.auth.Complete() {
		if err := c.auth.Authenticate(); err != nil {
			err = wrapErr(ErrAuthentication, "authenticate", err)
			c.logError(log.LayerAuth, "authenticate", err)
			return err
		}
		if !c.auth.Complete() {
			return nil
		}
		c.logState(log.StateEntityAuthenticator, AuthNegotiating.String(), AuthComplete.String(), "")
	}
	if !c.settled {
		p, err := c.pb.BuildPrincipal(c.transport, c.auth)
		if err != nil {
			err = wrapErr(ErrAuthentication, "build principal", err)
			c.logError(log.LayerAuth, "build principal", err)
			return err
		}
		c.principal = p
		c.settled = true
		c.logState(log.StateEntityChannel, "PREPARING", "READY", p.String())
	}
	return nil
}

// Principal returns the peer principal once the channel is ready.
func (c *Channel) Principal() (Principal, error) {
	if err := c.usable(); err != nil {
		return Principal{}, err
	}
	return c.principal, nil
}

// Pending reports whether the transport buffers bytes internally.
func (c *Channel) Pending() bool {
	return !c.closed && c.transport.Pending()
}

// Flushed reports whether everything written has left the transport.
func (c *Channel) Flushed() bool {
	return c.closed || c.transport.Flushed()
}

// Read reads application bytes. (0, nil) means no data is available.
func (c *Channel) Read(p []byte) (int, error) {
	if err := c.usable(); err != nil {
		return 0, err
	}
	n, err := c.transport.Read(p)
	if n > 0 {
		c.logFrame(log.DirectionIn, p[:n])
	}
	return n, err
}

// ReadBuffers scatters application bytes across bufs.
func (c *Channel) ReadBuffers(bufs [][]byte) (int64, error) {
	if err := c.usable(); err != nil {
		return 0, err
	}
	n, err := c.transport.ReadBuffers(bufs)
	if n > 0 {
		c.logBuffers(log.DirectionIn, bufs, n)
	}
	return n, err
}

// ReadRange reads into the length buffers of bufs starting at offset.
func (c *Channel) ReadRange(bufs [][]byte, offset, length int) (int64, error) {
	sub, err := BufferRange(bufs, offset, length)
	if err != nil {
		return 0, err
	}
	return c.ReadBuffers(sub)
}

// Write writes application bytes and returns how many were accepted.
func (c *Channel) Write(p []byte) (int, error) {
	if err := c.usable(); err != nil {
		return 0, err
	}
	n, err := c.transport.Write(p)
	if n > 0 {
		c.logFrame(log.DirectionOut, p[:n])
	}
	return n, err
}

// WriteBuffers gathers application bytes from bufs.
func (c *Channel) WriteBuffers(bufs [][]byte) (int64, error) {
	if err := c.usable(); err != nil {
		return 0, err
	}
	n, err := c.transport.WriteBuffers(bufs)
	if n > 0 {
		c.logBuffers(log.DirectionOut, bufs, n)
	}
	return n, err
}

// WriteRange writes the length buffers of bufs starting at offset.
func (c *Channel) WriteRange(bufs [][]byte, offset, length int) (int64, error) {
	sub, err := BufferRange(bufs, offset, length)
	if err != nil {
		return 0, err
	}
	return c.WriteBuffers(sub)
}

// InterestOps returns the channel's interest set.
func (c *Channel) InterestOps() Ops {
	return c.transport.InterestOps()
}

// AddInterestOps adds ops to the channel's interest set.
func (c *Channel) AddInterestOps(ops Ops) error {
	return c.updateInterest(ops, c.transport.AddInterestOps)
}

// RemoveInterestOps removes ops from the channel's interest set.
func (c *Channel) RemoveInterestOps(ops Ops) error {
	return c.updateInterest(ops, c.transport.RemoveInterestOps)
}

func (c *Channel) updateInterest(ops Ops, apply func(Ops) error) error {
	if c.closed {
		return ErrClosedChannel
	}
	old := c.transport.InterestOps()
	if err := apply(ops); err != nil {
		return err
	}
	if cur := c.transport.InterestOps(); cur != old {
		c.logInterest(old, cur)
	}
	return nil
}

// Mute stops read notifications.
func (c *Channel) Mute() error {
	return c.RemoveInterestOps(OpRead)
}

// Unmute resumes read notifications.
func (c *Channel) Unmute() error {
	return c.AddInterestOps(OpRead)
}

// Disconnect deregisters the channel from the reactor without releasing
// the connection.
func (c *Channel) Disconnect() error {
	if c.closed {
		return nil
	}
	return c.transport.Disconnect()
}

// Close closes the transport, then the authenticator, and marks the
// channel unusable. Later calls return nil.
func (c *Channel) Close() error {
	if c.closed {
		return nil
	}
	err := multierr.Combine(c.transport.Close(), c.auth.Close())
	c.closed = true
	c.logState(log.StateEntityChannel, "", "CLOSED", "")
	return err
}

func (c *Channel) usable() error {
	if c.closed {
		return ErrClosedChannel
	}
	if !c.IsReady() {
		return ErrNotReady
	}
	return nil
}

func (c *Channel) event(layer log.Layer, cat log.Category) log.Event {
	ev := log.Event{
		ConnectionID: c.id,
		Layer:        layer,
		Category:     cat,
		LocalRole:    c.mode.role(),
		Protocol:     string(c.protocol),
	}
	if c.settled {
		ev.Principal = c.principal.Name
	}
	return ev
}

func (c *Channel) logFrame(dir log.Direction, data []byte) {
	if c.logger == nil {
		return
	}
	ev := c.event(log.LayerChannel, log.CategoryData)
	ev.Direction = dir
	ev.Frame = log.NewFrameEvent(data)
	log.Emit(c.logger, ev)
}

// logBuffers logs the first n bytes spread across bufs.
func (c *Channel) logBuffers(dir log.Direction, bufs [][]byte, n int64) {
	if c.logger == nil {
		return
	}
	total := n
	var data []byte
	for _, b := range bufs {
		if n <= 0 || len(data) >= log.MaxFrameData {
			break
		}
		take := int64(len(b))
		if take > n {
			take = n
		}
		data = append(data, b[:take]...)
		n -= take
	}
	ev := c.event(log.LayerChannel, log.CategoryData)
	ev.Direction = dir
	ev.Frame = log.NewFrameEvent(data)
	ev.Frame.Size = int(total)
	ev.Frame.Truncated = ev.Frame.Truncated || n > 0
	log.Emit(c.logger, ev)
}

func (c *Channel) logInterest(old, cur Ops) {
	if c.logger == nil {
		return
	}
	ev := c.event(log.LayerTransport, log.CategoryInterest)
	ev.Interest = &log.InterestEvent{Old: uint8(old), New: uint8(cur), Ops: cur.String()}
	log.Emit(c.logger, ev)
}

func (c *Channel) logState(entity log.StateEntity, from, to, reason string) {
	if c.logger == nil {
		return
	}
	ev := c.event(log.LayerChannel, log.CategoryState)
	ev.StateChange = &log.StateChangeEvent{
		Entity:   entity,
		OldState: from,
		NewState: to,
		Reason:   reason,
	}
	log.Emit(c.logger, ev)
}

func (c *Channel) logError(layer log.Layer, context string, err error) {
	if c.logger == nil {
		return
	}
	ev := c.event(layer, log.CategoryError)
	ev.Error = &log.ErrorEventData{
		Layer:   layer,
		Message: err.Error(),
		Context: context,
	}
	log.Emit(c.logger, ev)
}
