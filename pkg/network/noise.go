package network

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/flynn/noise"
	"go.uber.org/multierr"
	"golang.org/x/crypto/curve25519"
)

// Noise record constants.
const (
	// noiseLengthPrefixSize is the size of the frame length prefix.
	noiseLengthPrefixSize = 2

	// MaxRecordPlaintext is the largest payload carried by one record.
	MaxRecordPlaintext = 16 * 1024

	// noiseTagSize is the ChaChaPoly authentication tag size.
	noiseTagSize = 16

	// noiseReadChunk is the size of a single socket read.
	noiseReadChunk = noiseLengthPrefixSize + MaxRecordPlaintext + noiseTagSize

	// NoisePrincipalPrefix prefixes the hex static key in principal names.
	NoisePrincipalPrefix = "noise:"
)

// noiseCipherSuite is Noise_XX_25519_ChaChaPoly_SHA256.
var noiseCipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashSHA256)

var (
	errUntrustedPeer   = errors.New("peer static key is not trusted")
	errHandshakeClosed = errors.New("peer closed during handshake")
)

// NoiseConfig is the trust configuration of the Noise transport.
type NoiseConfig struct {
	// StaticKey is the local long-term key pair.
	StaticKey noise.DHKey

	// TrustedPeers lists the accepted remote static public keys.
	// Empty means any peer is accepted; its key still becomes the
	// principal.
	TrustedPeers [][]byte
}

// GenerateNoiseKey creates a new Curve25519 static key pair.
func GenerateNoiseKey() (noise.DHKey, error) {
	return noiseCipherSuite.GenerateKeypair(rand.Reader)
}

// ParseNoiseKey derives a static key pair from a hex encoded private key.
func ParseNoiseKey(privateHex string) (noise.DHKey, error) {
	priv, err := hex.DecodeString(privateHex)
	if err != nil {
		return noise.DHKey{}, fmt.Errorf("invalid private key: %w", err)
	}
	if len(priv) != curve25519.ScalarSize {
		return noise.DHKey{}, fmt.Errorf("invalid private key length %d", len(priv))
	}
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return noise.DHKey{}, fmt.Errorf("derive public key: %w", err)
	}
	return noise.DHKey{Private: priv, Public: pub}, nil
}

// ParsePeerKey decodes a hex encoded remote static public key.
func ParsePeerKey(publicHex string) ([]byte, error) {
	pub, err := hex.DecodeString(publicHex)
	if err != nil {
		return nil, fmt.Errorf("invalid peer key: %w", err)
	}
	if len(pub) != curve25519.PointSize {
		return nil, fmt.Errorf("invalid peer key length %d", len(pub))
	}
	return pub, nil
}

// trusts reports whether the remote static key is accepted.
func (c *NoiseConfig) trusts(peer []byte) bool {
	if len(c.TrustedPeers) == 0 {
		return true
	}
	for _, k := range c.TrustedPeers {
		if bytes.Equal(k, peer) {
			return true
		}
	}
	return false
}

// NoisePrincipal returns the principal for a remote static key.
func NoisePrincipal(peer []byte) Principal {
	return Principal{Name: NoisePrincipalPrefix + hex.EncodeToString(peer), Trust: TrustTransport}
}

// NoiseTransport secures a connection with a Noise XX handshake driven by
// readiness notifications. Handshake messages and records are framed with
// a 2-byte big-endian length.
type NoiseTransport struct {
	interest
	conn Conn
	mode Mode
	cfg  *NoiseConfig

	hs    *noise.HandshakeState
	step  int
	hsErr error

	send *noise.CipherState
	recv *noise.CipherState

	ready     bool
	principal Principal

	netIn   []byte // raw input not yet framed
	netOut  []byte // framed output not yet written
	appIn   []byte // decrypted input not yet delivered
	readBuf []byte
	eof     bool
	closed  bool
}

// NewNoiseTransport takes ownership of conn. Client mode initiates the
// handshake.
func NewNoiseTransport(conn Conn, key SelectionKey, mode Mode, cfg *NoiseConfig) (*NoiseTransport, error) {
	if conn == nil || key == nil {
		return nil, wrapErr(ErrConnection, "noise transport", errNilHandle)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: noise transport requires a trust configuration", ErrConfiguration)
	}
	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   noiseCipherSuite,
		Random:        rand.Reader,
		Pattern:       noise.HandshakeXX,
		Initiator:     mode == ModeClient,
		StaticKeypair: cfg.StaticKey,
	})
	if err != nil {
		return nil, wrapErr(ErrHandshake, "create handshake state", err)
	}
	return &NoiseTransport{
		interest: interest{key: key},
		conn:     conn,
		mode:     mode,
		cfg:      cfg,
		hs:       hs,
		readBuf:  make([]byte, noiseReadChunk),
	}, nil
}

// IsOpen reports whether the connection is open.
func (t *NoiseTransport) IsOpen() bool {
	return !t.closed && t.conn.IsOpen()
}

// IsReady reports whether the handshake completed.
func (t *NoiseTransport) IsReady() bool {
	return t.ready
}

// FinishConnect completes the connect and switches interest to READ.
func (t *NoiseTransport) FinishConnect() (bool, error) {
	ok, err := t.conn.FinishConnect()
	if err != nil {
		return false, wrapErr(ErrConnection, "finish connect", err)
	}
	if !ok {
		return false, nil
	}
	return true, t.connected()
}

// Conn returns the connection handle.
func (t *NoiseTransport) Conn() Conn {
	return t.conn
}

// Handshake advances the Noise XX exchange as far as the socket allows.
// A failure is sticky: later calls return the same error.
func (t *NoiseTransport) Handshake() error {
	switch {
	case t.closed:
		return ErrClosedChannel
	case t.hsErr != nil:
		return t.hsErr
	case t.ready:
		return nil
	}
	if err := t.handshake(); err != nil {
		t.hsErr = err
		return err
	}
	return nil
}

func (t *NoiseTransport) handshake() error {
	for {
		if len(t.netOut) > 0 {
			if err := t.flush(); err != nil {
				return wrapErr(ErrIO, "handshake write", err)
			}
			if len(t.netOut) > 0 {
				return t.AddInterestOps(OpWrite)
			}
		}

		if t.send != nil {
			return t.finishHandshake()
		}

		if t.writeTurn() {
			msg, cs1, cs2, err := t.hs.WriteMessage(nil, nil)
			if err != nil {
				return wrapErr(ErrHandshake, "write message", err)
			}
			t.netOut = appendFrame(t.netOut, msg)
			t.step++
			t.setCiphers(cs1, cs2)
			continue
		}

		frame, err := t.nextFrame()
		if err == io.EOF {
			return wrapErr(ErrHandshake, "read message", errHandshakeClosed)
		}
		if err != nil {
			return wrapErr(ErrIO, "handshake read", err)
		}
		if frame == nil {
			return t.awaitRead()
		}
		_, cs1, cs2, err := t.hs.ReadMessage(nil, frame)
		if err != nil {
			return wrapErr(ErrHandshake, "read message", err)
		}
		t.step++
		t.setCiphers(cs1, cs2)
	}
}

// writeTurn reports whether the next handshake message is ours to send.
func (t *NoiseTransport) writeTurn() bool {
	return (t.step%2 == 0) == (t.mode == ModeClient)
}

// setCiphers records the split cipher states once the last message is
// processed.
func (t *NoiseTransport) setCiphers(cs1, cs2 *noise.CipherState) {
	if cs1 == nil || cs2 == nil {
		return
	}
	if t.mode == ModeClient {
		t.send, t.recv = cs1, cs2
	} else {
		t.send, t.recv = cs2, cs1
	}
}

func (t *NoiseTransport) finishHandshake() error {
	peer := t.hs.PeerStatic()
	if !t.cfg.trusts(peer) {
		return wrapErr(ErrAuthentication, "noise peer "+hex.EncodeToString(peer), errUntrustedPeer)
	}
	t.principal = NoisePrincipal(peer)
	t.hs = nil
	t.ready = true
	return t.awaitRead()
}

// awaitRead drops WRITE interest and requests READ interest.
func (t *NoiseTransport) awaitRead() error {
	ops := t.key.InterestOps()
	want := ops&^OpWrite | OpRead
	if want == ops {
		return nil
	}
	return t.key.SetInterestOps(want)
}

// Pending reports buffered output, undelivered plaintext, or a complete
// record waiting to be decrypted.
func (t *NoiseTransport) Pending() bool {
	return len(t.netOut) > 0 || len(t.appIn) > 0 || hasFrame(t.netIn)
}

// Flushed reports whether all sealed records reached the connection.
func (t *NoiseTransport) Flushed() bool {
	return len(t.netOut) == 0
}

// Read decrypts records into p.
func (t *NoiseTransport) Read(p []byte) (int, error) {
	if err := t.checkReady(); err != nil {
		return 0, err
	}
	n := copy(p, t.appIn)
	t.appIn = t.appIn[n:]
	for n < len(p) {
		frame, err := t.nextFrame()
		if err == io.EOF {
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		if err != nil {
			return n, wrapIO("read", err)
		}
		if frame == nil {
			break
		}
		plain, err := t.recv.Decrypt(nil, nil, frame)
		if err != nil {
			return n, wrapErr(ErrIO, "decrypt record", err)
		}
		c := copy(p[n:], plain)
		n += c
		t.appIn = append(t.appIn, plain[c:]...)
	}
	return n, nil
}

// ReadBuffers fills bufs in order until input runs out.
func (t *NoiseTransport) ReadBuffers(bufs [][]byte) (int64, error) {
	if err := t.checkReady(); err != nil {
		return 0, err
	}
	var total int64
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		n, err := t.Read(b)
		total += int64(n)
		if err == io.EOF && total > 0 {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n < len(b) {
			break
		}
	}
	return total, nil
}

// Write encrypts at most one record of p. It returns 0 while ciphertext
// from an earlier call is still unflushed. Write(nil) only flushes.
func (t *NoiseTransport) Write(p []byte) (int, error) {
	if err := t.checkReady(); err != nil {
		return 0, err
	}
	if err := t.flush(); err != nil {
		return 0, wrapIO("write", err)
	}
	if len(t.netOut) > 0 || len(p) == 0 {
		return 0, nil
	}
	chunk := p
	if len(chunk) > MaxRecordPlaintext {
		chunk = chunk[:MaxRecordPlaintext]
	}
	sealed, err := t.send.Encrypt(nil, nil, chunk)
	if err != nil {
		return 0, wrapErr(ErrIO, "encrypt record", err)
	}
	t.netOut = appendFrame(t.netOut, sealed)
	if err := t.flush(); err != nil {
		return len(chunk), wrapIO("write", err)
	}
	return len(chunk), nil
}

// WriteBuffers writes bufs in order until one is only partly accepted.
func (t *NoiseTransport) WriteBuffers(bufs [][]byte) (int64, error) {
	if err := t.checkReady(); err != nil {
		return 0, err
	}
	if remaining(bufs) == 0 {
		_, err := t.Write(nil)
		return 0, err
	}
	var total int64
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		n, err := t.Write(b)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n < len(b) {
			break
		}
	}
	return total, nil
}

// PeerPrincipal returns the remote static key principal. It is only
// available once IsReady reports true.
func (t *NoiseTransport) PeerPrincipal() (Principal, error) {
	if !t.ready {
		return Principal{}, ErrNotReady
	}
	return t.principal, nil
}

// Close makes one attempt to flush buffered records, then deregisters the
// key and closes the connection. A failed flush is reported with the
// rest. Later calls return nil.
func (t *NoiseTransport) Close() error {
	if t.closed {
		return nil
	}
	var err error
	if t.ready {
		err = wrapIO("flush on close", t.flush())
	}
	t.closed = true
	t.netOut, t.appIn, t.netIn = nil, nil, nil
	return multierr.Combine(err, t.key.Cancel(), t.conn.Close())
}

func (t *NoiseTransport) checkReady() error {
	if t.closed {
		return ErrClosedChannel
	}
	if !t.ready {
		return ErrNotReady
	}
	return nil
}

// flush writes buffered frames until the socket stops accepting bytes.
func (t *NoiseTransport) flush() error {
	for len(t.netOut) > 0 {
		n, err := t.conn.Write(t.netOut)
		t.netOut = t.netOut[n:]
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	if len(t.netOut) == 0 {
		t.netOut = nil
	}
	return nil
}

// nextFrame returns the next complete frame, reading from the connection
// once when none is buffered. A nil frame without error means more input
// is needed.
func (t *NoiseTransport) nextFrame() ([]byte, error) {
	if f := t.takeFrame(); f != nil {
		return f, nil
	}
	if t.eof {
		return nil, t.endOfStream()
	}
	n, err := t.conn.Read(t.readBuf)
	if n > 0 {
		t.netIn = append(t.netIn, t.readBuf[:n]...)
	}
	switch {
	case err == io.EOF:
		t.eof = true
	case err != nil:
		return nil, err
	}
	if f := t.takeFrame(); f != nil {
		return f, nil
	}
	if t.eof {
		return nil, t.endOfStream()
	}
	return nil, nil
}

func (t *NoiseTransport) endOfStream() error {
	if len(t.netIn) > 0 {
		return io.ErrUnexpectedEOF
	}
	return io.EOF
}

// takeFrame removes one complete frame from netIn.
func (t *NoiseTransport) takeFrame() []byte {
	if !hasFrame(t.netIn) {
		return nil
	}
	size := int(binary.BigEndian.Uint16(t.netIn))
	end := noiseLengthPrefixSize + size
	frame := make([]byte, size)
	copy(frame, t.netIn[noiseLengthPrefixSize:end])
	t.netIn = t.netIn[end:]
	if len(t.netIn) == 0 {
		t.netIn = nil
	}
	return frame
}

func (t *NoiseTransport) transportLayer() {}

// hasFrame reports whether buf starts with a complete frame.
func hasFrame(buf []byte) bool {
	if len(buf) < noiseLengthPrefixSize {
		return false
	}
	size := int(binary.BigEndian.Uint16(buf))
	return len(buf) >= noiseLengthPrefixSize+size
}

// appendFrame appends a length prefixed frame to dst.
func appendFrame(dst, msg []byte) []byte {
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(msg)))
	return append(dst, msg...)
}
