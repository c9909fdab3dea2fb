package pase

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-channel/internal/memconn"
	"github.com/mash-protocol/mash-channel/pkg/network"
)

var testOptions = Options{
	SetupCode:      12345678,
	ClientIdentity: "controller-1",
	ServerIdentity: "evse-7",
}

type authPair struct {
	client, server         *Authenticator
	clientT, serverT       network.TransportLayer
	clientKey, serverKey   *network.DetachedKey
	clientConn, serverConn *memconn.Conn
}

func newPlaintextAuthPair(t *testing.T, capacity int, clientOpts, serverOpts Options) *authPair {
	t.Helper()
	p := &authPair{
		clientKey: network.NewDetachedKey(network.OpRead),
		serverKey: network.NewDetachedKey(network.OpRead),
	}
	p.clientConn, p.serverConn = memconn.Pair(capacity)
	ct, err := network.NewPlaintextTransport(p.clientConn, p.clientKey)
	require.NoError(t, err)
	st, err := network.NewPlaintextTransport(p.serverConn, p.serverKey)
	require.NoError(t, err)
	p.clientT, p.serverT = ct, st
	p.attach(t, clientOpts, serverOpts)
	return p
}

func (p *authPair) attach(t *testing.T, clientOpts, serverOpts Options) {
	t.Helper()
	var err error
	p.client, err = New(p.clientT, network.ModeClient, clientOpts)
	require.NoError(t, err)
	p.server, err = New(p.serverT, network.ModeServer, serverOpts)
	require.NoError(t, err)
}

// run alternates both sides until both complete or one fails.
func (p *authPair) run(rounds int) (clientErr, serverErr error) {
	for i := 0; i < rounds && !(p.client.Complete() && p.server.Complete()); i++ {
		clientErr = p.client.Authenticate()
		serverErr = p.server.Authenticate()
		if clientErr != nil && serverErr != nil {
			return
		}
	}
	return
}

func frame(t *testing.T, msg any) []byte {
	t.Helper()
	data, err := EncodeMessage(msg)
	require.NoError(t, err)
	return append(binary.BigEndian.AppendUint32(nil, uint32(len(data))), data...)
}

func TestAuthenticateOverPlaintext(t *testing.T) {
	p := newPlaintextAuthPair(t, 4096, testOptions, testOptions)
	assert.Equal(t, network.AuthNegotiating, p.client.State())

	cerr, serr := p.run(10)
	require.NoError(t, cerr)
	require.NoError(t, serr)
	require.True(t, p.client.Complete())
	require.True(t, p.server.Complete())
	assert.Equal(t, network.AuthComplete, p.server.State())

	cp, ok := p.client.Principal()
	require.True(t, ok)
	assert.Equal(t, network.Principal{Name: "evse-7", Trust: network.TrustAuthenticated}, cp)

	sp, ok := p.server.Principal()
	require.True(t, ok)
	assert.Equal(t, network.Principal{Name: "controller-1", Trust: network.TrustAuthenticated}, sp)

	assert.Len(t, p.client.SharedSecret(), SharedSecretSize)
	assert.Equal(t, p.client.SharedSecret(), p.server.SharedSecret())

	// Completed authenticators stay complete.
	require.NoError(t, p.client.Authenticate())
	assert.True(t, p.client.Complete())
}

func TestPrincipalUnavailableWhileNegotiating(t *testing.T) {
	p := newPlaintextAuthPair(t, 4096, testOptions, testOptions)
	require.NoError(t, p.client.Authenticate())

	_, ok := p.client.Principal()
	assert.False(t, ok)
	assert.False(t, p.client.Complete())
	assert.Nil(t, p.client.SharedSecret())
}

func TestAuthenticateSetsWriteInterestUnderBackpressure(t *testing.T) {
	p := newPlaintextAuthPair(t, 16, testOptions, testOptions)

	require.NoError(t, p.client.Authenticate())
	assert.Equal(t, network.OpRead|network.OpWrite, p.clientKey.InterestOps())

	cerr, serr := p.run(200)
	require.NoError(t, cerr)
	require.NoError(t, serr)
	require.True(t, p.client.Complete())
	require.True(t, p.server.Complete())
	assert.Equal(t, network.OpRead, p.clientKey.InterestOps())
	assert.Equal(t, network.OpRead, p.serverKey.InterestOps())
}

func TestAuthenticateWrongSetupCode(t *testing.T) {
	wrong := testOptions
	wrong.SetupCode = 87654321
	p := newPlaintextAuthPair(t, 4096, wrong, testOptions)

	cerr, serr := p.run(10)
	require.Error(t, serr)
	assert.ErrorIs(t, serr, network.ErrAuthentication)
	assert.ErrorIs(t, serr, ErrConfirmationFailed)

	require.Error(t, cerr)
	assert.ErrorIs(t, cerr, network.ErrAuthentication)
	assert.ErrorIs(t, cerr, ErrConfirmationFailed)

	// Failures are permanent.
	assert.Equal(t, serr, p.server.Authenticate())
	assert.Equal(t, cerr, p.client.Authenticate())
	assert.False(t, p.client.Complete())
	assert.Equal(t, network.AuthNegotiating, p.server.State())
	_, ok := p.server.Principal()
	assert.False(t, ok)
}

func TestAuthenticateServerIdentityMismatch(t *testing.T) {
	other := testOptions
	other.ServerIdentity = "heat-pump-2"
	p := newPlaintextAuthPair(t, 4096, testOptions, other)

	cerr, _ := p.run(10)
	assert.ErrorIs(t, cerr, ErrIdentityMismatch)
	assert.ErrorIs(t, cerr, network.ErrAuthentication)
}

func TestAuthenticateLeavesApplicationBytes(t *testing.T) {
	p := newPlaintextAuthPair(t, 4096, testOptions, testOptions)

	// Drive until the server is done but the client has not yet read
	// PASEComplete.
	for i := 0; i < 10 && !p.server.Complete(); i++ {
		require.NoError(t, p.client.Authenticate())
		require.NoError(t, p.server.Authenticate())
	}
	require.True(t, p.server.Complete())
	require.False(t, p.client.Complete())

	_, err := p.serverT.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, p.client.Authenticate())
	require.True(t, p.client.Complete())

	buf := make([]byte, 16)
	n, err := p.clientT.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestAuthenticatePeerClosed(t *testing.T) {
	p := newPlaintextAuthPair(t, 4096, testOptions, testOptions)
	require.NoError(t, p.client.Authenticate())
	require.NoError(t, p.serverConn.Close())

	err := p.client.Authenticate()
	assert.ErrorIs(t, err, network.ErrAuthentication)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestAuthenticateUnexpectedMessageAborts(t *testing.T) {
	p := newPlaintextAuthPair(t, 4096, testOptions, testOptions)
	p.serverConn.Inject(frame(t, &PASEConfirm{MsgType: MsgPASEConfirm, Confirmation: []byte{1}}))

	serr := p.server.Authenticate()
	assert.ErrorIs(t, serr, ErrInvalidMessage)

	cerr := p.client.Authenticate()
	var abort *PASEError
	require.True(t, errors.As(cerr, &abort), "got %v", cerr)
	assert.Equal(t, ErrCodeUnexpected, abort.ErrorCode)
}

func TestAuthenticateRejectsOversizedFrame(t *testing.T) {
	p := newPlaintextAuthPair(t, 4096, testOptions, testOptions)
	p.serverConn.Inject([]byte{0xff, 0xff, 0xff, 0xff})

	err := p.server.Authenticate()
	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.ErrorIs(t, err, network.ErrAuthentication)
}

func TestAuthenticateWaitsForPartialFrame(t *testing.T) {
	p := newPlaintextAuthPair(t, 4096, testOptions, testOptions)
	msg := frame(t, &PASERequest{MsgType: MsgPASERequest, PublicValue: []byte{1}, ClientIdentity: []byte("x")})

	p.serverConn.Inject(msg[:3])
	require.NoError(t, p.server.Authenticate())
	p.serverConn.Inject(msg[3:10])
	require.NoError(t, p.server.Authenticate())
	assert.False(t, p.server.Complete())

	// The remainder carries an invalid public value.
	p.serverConn.Inject(msg[10:])
	assert.ErrorIs(t, p.server.Authenticate(), ErrInvalidPublicKey)
}

func TestAuthenticatorClose(t *testing.T) {
	p := newPlaintextAuthPair(t, 4096, testOptions, testOptions)
	require.NoError(t, p.client.Close())
	require.NoError(t, p.client.Close())

	err := p.client.Authenticate()
	assert.ErrorIs(t, err, network.ErrAuthentication)
	assert.True(t, p.clientConn.IsOpen())
}

// newNoiseAuthPair returns authenticators over Noise transports that
// already finished their handshake.
func newNoiseAuthPair(t *testing.T, capacity int) *authPair {
	t.Helper()
	p := &authPair{
		clientKey: network.NewDetachedKey(network.OpRead),
		serverKey: network.NewDetachedKey(network.OpRead),
	}
	p.clientConn, p.serverConn = memconn.Pair(capacity)

	ck, err := network.GenerateNoiseKey()
	require.NoError(t, err)
	sk, err := network.GenerateNoiseKey()
	require.NoError(t, err)

	ct, err := network.NewNoiseTransport(p.clientConn, p.clientKey, network.ModeClient, &network.NoiseConfig{StaticKey: ck})
	require.NoError(t, err)
	st, err := network.NewNoiseTransport(p.serverConn, p.serverKey, network.ModeServer, &network.NoiseConfig{StaticKey: sk})
	require.NoError(t, err)
	for i := 0; i < 10 && !(ct.IsReady() && st.IsReady()); i++ {
		require.NoError(t, ct.Handshake())
		require.NoError(t, st.Handshake())
	}
	require.True(t, ct.IsReady() && st.IsReady())

	p.clientT, p.serverT = ct, st
	p.attach(t, testOptions, testOptions)
	return p
}

func TestAuthenticateOverNoise(t *testing.T) {
	p := newNoiseAuthPair(t, 64*1024)
	cerr, serr := p.run(10)
	require.NoError(t, cerr)
	require.NoError(t, serr)

	sp, ok := p.server.Principal()
	require.True(t, ok)
	assert.Equal(t, "controller-1", sp.Name)
	assert.Equal(t, p.client.SharedSecret(), p.server.SharedSecret())
}

func TestAuthenticateOverNoiseDrainsPartlySentRecord(t *testing.T) {
	p := newNoiseAuthPair(t, 64*1024)

	// The request record is sealed whole but only 10 bytes reach the
	// connection.
	p.clientConn.SetWriteLimit(10)
	require.NoError(t, p.client.Authenticate())
	assert.False(t, p.clientT.Flushed())
	assert.Equal(t, network.OpRead|network.OpWrite, p.clientKey.InterestOps())
	assert.False(t, p.client.Complete())

	p.clientConn.SetWriteLimit(64 * 1024)
	cerr, serr := p.run(20)
	require.NoError(t, cerr)
	require.NoError(t, serr)
	require.True(t, p.client.Complete())
	require.True(t, p.server.Complete())
	assert.True(t, p.clientT.Flushed())
	assert.True(t, p.serverT.Flushed())
	assert.Zero(t, p.clientKey.InterestOps()&network.OpWrite)
	assert.Zero(t, p.serverKey.InterestOps()&network.OpWrite)
}

func TestServerHoldsCompletionUntilFlushed(t *testing.T) {
	p := newNoiseAuthPair(t, 64*1024)

	// Request, then response and confirm.
	require.NoError(t, p.client.Authenticate())
	require.NoError(t, p.server.Authenticate())
	require.NoError(t, p.client.Authenticate())

	p.serverConn.SetWriteLimit(4)
	require.NoError(t, p.server.Authenticate())
	assert.False(t, p.server.Complete())
	assert.False(t, p.serverT.Flushed())

	p.serverConn.SetWriteLimit(64 * 1024)
	cerr, serr := p.run(10)
	require.NoError(t, cerr)
	require.NoError(t, serr)
	assert.True(t, p.server.Complete())
	assert.True(t, p.client.Complete())
}

func TestNewRejectsInvalidInput(t *testing.T) {
	_, err := New(nil, network.ModeClient, testOptions)
	assert.Error(t, err)

	conn, _ := memconn.Pair(8)
	tr, err := network.NewPlaintextTransport(conn, network.NewDetachedKey(network.OpRead))
	require.NoError(t, err)
	_, err = New(tr, network.ModeClient, Options{SetupCode: SetupCodeMax + 1})
	assert.ErrorIs(t, err, ErrInvalidSetupCode)
}

func TestServerWindowRejectsWhileClosed(t *testing.T) {
	serverOpts := testOptions
	serverOpts.Window = NewWindow()

	p := newPlaintextAuthPair(t, 4096, testOptions, serverOpts)
	cerr, serr := p.run(10)
	require.ErrorIs(t, serr, ErrWindowClosed)
	require.ErrorIs(t, serr, network.ErrAuthentication)

	var perr *PASEError
	require.ErrorAs(t, cerr, &perr)
	assert.Equal(t, ErrCodeWindowClosed, perr.ErrorCode)
}

func TestServerWindowClosesAfterPairing(t *testing.T) {
	w := NewWindow()
	require.NoError(t, w.Open(time.Minute))
	serverOpts := testOptions
	serverOpts.Window = w

	p := newPlaintextAuthPair(t, 4096, testOptions, serverOpts)
	cerr, serr := p.run(10)
	require.NoError(t, cerr)
	require.NoError(t, serr)
	require.True(t, p.server.Complete())
	assert.Equal(t, WindowClosed, w.State())
}

func TestServerWindowAdmitsOneExchange(t *testing.T) {
	w := NewWindow()
	require.NoError(t, w.Open(time.Minute))
	defer w.Close()
	serverOpts := testOptions
	serverOpts.Window = w

	first := newPlaintextAuthPair(t, 4096, testOptions, serverOpts)
	require.NoError(t, first.client.Authenticate())
	require.NoError(t, first.server.Authenticate())
	require.Equal(t, WindowBusy, w.State())

	second := newPlaintextAuthPair(t, 4096, testOptions, serverOpts)
	cerr, serr := second.run(10)
	require.ErrorIs(t, serr, ErrWindowBusy)
	var perr *PASEError
	require.ErrorAs(t, cerr, &perr)
	assert.Equal(t, ErrCodeBusy, perr.ErrorCode)

	// Closing the running exchange hands the window back.
	require.NoError(t, first.server.Close())
	assert.Equal(t, WindowOpen, w.State())
}

func TestServerWindowReopensAfterFailure(t *testing.T) {
	w := NewWindow()
	require.NoError(t, w.Open(time.Minute))
	defer w.Close()
	serverOpts := testOptions
	serverOpts.Window = w
	clientOpts := testOptions
	clientOpts.SetupCode = 87654321

	p := newPlaintextAuthPair(t, 4096, clientOpts, serverOpts)
	_, serr := p.run(10)
	require.ErrorIs(t, serr, ErrConfirmationFailed)
	assert.Equal(t, WindowOpen, w.State())
}

func TestServerCloseReportsLostReservation(t *testing.T) {
	w := NewWindow()
	require.NoError(t, w.Open(time.Minute))
	defer w.Close()
	serverOpts := testOptions
	serverOpts.Window = w

	p := newPlaintextAuthPair(t, 4096, testOptions, serverOpts)
	require.NoError(t, p.client.Authenticate())
	require.NoError(t, p.server.Authenticate())
	require.NotEmpty(t, p.server.session)

	// Someone else ends the reservation first.
	require.NoError(t, w.EndPASE(p.server.session, false))

	err := p.server.Close()
	assert.ErrorIs(t, err, ErrWindowNotBusy)
	assert.NoError(t, p.server.Close())
}

func TestServerFailsWhenReservationIsLost(t *testing.T) {
	w := NewWindow()
	require.NoError(t, w.Open(time.Minute))
	defer w.Close()
	serverOpts := testOptions
	serverOpts.Window = w

	p := newPlaintextAuthPair(t, 4096, testOptions, serverOpts)
	require.NoError(t, p.client.Authenticate())
	require.NoError(t, p.server.Authenticate())
	require.NoError(t, w.EndPASE(p.server.session, false))

	_, serr := p.run(10)
	require.ErrorIs(t, serr, network.ErrAuthentication)
	assert.ErrorIs(t, serr, ErrWindowNotBusy)
	assert.False(t, p.server.Complete())
	assert.Nil(t, p.server.SharedSecret())
	assert.Equal(t, WindowOpen, w.State())
}

func TestProviderRejectsWrongWindowType(t *testing.T) {
	_, err := Provider(network.Config{
		network.KeyPASESetupCode: "12345678",
		network.KeyPASEWindow:    "open",
	}, network.ModeServer)
	assert.Error(t, err)

	w := NewWindow()
	f, err := Provider(network.Config{
		network.KeyPASESetupCode: "12345678",
		network.KeyPASEWindow:    w,
	}, network.ModeServer)
	require.NoError(t, err)

	conn, _ := memconn.Pair(64)
	tr, err := network.NewPlaintextTransport(conn, network.NewDetachedKey(network.OpRead))
	require.NoError(t, err)
	auth, err := f(tr)
	require.NoError(t, err)
	assert.Same(t, w, auth.(*Authenticator).opts.Window)
}
