package pase

import (
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

const (
	// SharedSecretSize is the size of the derived shared secret.
	SharedSecretSize = 32

	// ConfirmationSize is the size of a confirmation MAC.
	ConfirmationSize = 32
)

var (
	ErrInvalidPublicKey   = errors.New("invalid public key")
	ErrConfirmationFailed = errors.New("confirmation failed")
	ErrInvalidVerifier    = errors.New("invalid verifier")
)

const (
	passwordInfo = "SPAKE2+-P256-SHA256 w"
	keyInfo      = "SPAKE2+-P256-SHA256"
)

var curve = elliptic.P256()

// Fixed generator points M and N for P-256 (RFC 9383).
var (
	pointM = point{
		x: mustHex("886e2f97ace46e55ba9dd7242579f2993b64e16ef3dcab95afd497333d8fa12f"),
		y: mustHex("5ff355163e43ce224e0b0e65ff02ac8e5c7be09419c785e0ca547d55a12e2d20"),
	}
	pointN = point{
		x: mustHex("d8bbd6c639c62937b04d997f38c3770719c629d7014d49a24b4f98baa1292b49"),
		y: mustHex("07d60aa6bfade45008a636337f5168c64d9bd36034808cd564490b1e656edbe7"),
	}
)

type point struct {
	x, y *big.Int
}

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("pase: bad constant " + s)
	}
	return n
}

// Verifier is the server-side material derived from a setup code. It
// never contains the code itself.
type Verifier struct {
	// W0 is the first password scalar.
	W0 []byte `cbor:"1,keyasint"`

	// L is w1*G, compressed.
	L []byte `cbor:"2,keyasint"`

	// Identity is the client identity the verifier was derived for.
	Identity []byte `cbor:"3,keyasint"`
}

// GenerateVerifier derives the verifier for clientID talking to serverID.
func GenerateVerifier(code SetupCode, clientID, serverID []byte) (*Verifier, error) {
	w0, w1, err := passwordScalars(code, clientID, serverID)
	if err != nil {
		return nil, err
	}
	lx, ly := curve.ScalarBaseMult(w1.Bytes())
	return &Verifier{
		W0:       w0.Bytes(),
		L:        elliptic.MarshalCompressed(curve, lx, ly),
		Identity: append([]byte(nil), clientID...),
	}, nil
}

// passwordScalars stretches the setup code into w0 and w1 mod n.
func passwordScalars(code SetupCode, clientID, serverID []byte) (w0, w1 *big.Int, err error) {
	salt := append(append([]byte{}, clientID...), serverID...)
	r := hkdf.New(sha256.New, code.Bytes(), salt, []byte(passwordInfo))

	buf := make([]byte, 64)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, nil, fmt.Errorf("derive password scalars: %w", err)
	}
	n := curve.Params().N
	w0 = new(big.Int).Mod(new(big.Int).SetBytes(buf[:32]), n)
	w1 = new(big.Int).Mod(new(big.Int).SetBytes(buf[32:]), n)
	return w0, w1, nil
}

// ephemeral returns a random scalar in [1, n).
func ephemeral() (*big.Int, error) {
	for {
		k, err := rand.Int(rand.Reader, curve.Params().N)
		if err != nil {
			return nil, fmt.Errorf("generate ephemeral key: %w", err)
		}
		if k.Sign() > 0 {
			return k, nil
		}
	}
}

// share computes k*G + w0*P, the public value sent to the peer.
func share(k, w0 *big.Int, p point) []byte {
	kx, ky := curve.ScalarBaseMult(k.Bytes())
	wx, wy := curve.ScalarMult(p.x, p.y, w0.Bytes())
	x, y := curve.Add(kx, ky, wx, wy)
	return elliptic.Marshal(curve, x, y)
}

// unblind parses a peer share and removes w0*P from it.
func unblind(peer []byte, w0 *big.Int, p point) (x, y *big.Int, err error) {
	px, py := elliptic.Unmarshal(curve, peer)
	if px == nil {
		return nil, nil, ErrInvalidPublicKey
	}
	wx, wy := curve.ScalarMult(p.x, p.y, w0.Bytes())
	wy.Neg(wy).Mod(wy, curve.Params().P)
	x, y = curve.Add(px, py, wx, wy)
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, nil, ErrInvalidPublicKey
	}
	return x, y, nil
}

// sessionKeys holds the outputs of a finished exchange.
type sessionKeys struct {
	shared  []byte
	confirm []byte
}

func deriveKeys(clientID, serverID, pA, pB []byte, zx, zy, vx, vy, w0 *big.Int) sessionKeys {
	h := sha256.New()
	h.Write(clientID)
	h.Write(serverID)
	h.Write(pA)
	h.Write(pB)
	h.Write(elliptic.Marshal(curve, zx, zy))
	h.Write(elliptic.Marshal(curve, vx, vy))
	h.Write(w0.Bytes())

	r := hkdf.New(sha256.New, h.Sum(nil), nil, []byte(keyInfo))
	out := make([]byte, 2*SharedSecretSize)
	// HKDF-SHA256 can produce up to 8160 bytes; this read cannot fail.
	_, _ = io.ReadFull(r, out)
	return sessionKeys{shared: out[:SharedSecretSize], confirm: out[SharedSecretSize:]}
}

func (k sessionKeys) mac(label string, first, second []byte) []byte {
	m := hmac.New(sha256.New, k.confirm)
	m.Write([]byte(label))
	m.Write(first)
	m.Write(second)
	return m.Sum(nil)
}

// ClientExchange is the client (prover) side of SPAKE2+.
type ClientExchange struct {
	clientID, serverID []byte
	x, w0, w1          *big.Int
	pA, pB             []byte
	keys               *sessionKeys
}

// NewClientExchange starts a client exchange for code.
func NewClientExchange(code SetupCode, clientID, serverID []byte) (*ClientExchange, error) {
	w0, w1, err := passwordScalars(code, clientID, serverID)
	if err != nil {
		return nil, err
	}
	x, err := ephemeral()
	if err != nil {
		return nil, err
	}
	c := &ClientExchange{clientID: clientID, serverID: serverID, x: x, w0: w0, w1: w1}
	c.pA = share(x, w0, pointM)
	return c, nil
}

// PublicValue returns pA = x*G + w0*M.
func (c *ClientExchange) PublicValue() []byte {
	return c.pA
}

// ProcessServerValue consumes pB and derives the session keys.
func (c *ClientExchange) ProcessServerValue(pB []byte) error {
	yx, yy, err := unblind(pB, c.w0, pointN)
	if err != nil {
		return err
	}
	c.pB = pB
	zx, zy := curve.ScalarMult(yx, yy, c.x.Bytes())
	vx, vy := curve.ScalarMult(yx, yy, c.w1.Bytes())
	k := deriveKeys(c.clientID, c.serverID, c.pA, c.pB, zx, zy, vx, vy, c.w0)
	c.keys = &k
	return nil
}

// Confirmation returns the client confirmation MAC. Nil before
// ProcessServerValue.
func (c *ClientExchange) Confirmation() []byte {
	if c.keys == nil {
		return nil
	}
	return c.keys.mac("client", c.pA, c.pB)
}

// VerifyServerConfirmation checks the server confirmation MAC.
func (c *ClientExchange) VerifyServerConfirmation(mac []byte) error {
	if c.keys == nil || !hmac.Equal(mac, c.keys.mac("server", c.pB, c.pA)) {
		return ErrConfirmationFailed
	}
	return nil
}

// SharedSecret returns the derived secret, or nil before the peer value
// has been processed.
func (c *ClientExchange) SharedSecret() []byte {
	if c.keys == nil {
		return nil
	}
	return c.keys.shared
}

// ServerExchange is the server (verifier) side of SPAKE2+.
type ServerExchange struct {
	verifier *Verifier
	serverID []byte
	y, w0    *big.Int
	l        point
	pA, pB   []byte
	keys     *sessionKeys
}

// NewServerExchange starts a server exchange against v.
func NewServerExchange(v *Verifier, serverID []byte) (*ServerExchange, error) {
	if v == nil || len(v.W0) == 0 {
		return nil, ErrInvalidVerifier
	}
	lx, ly := elliptic.UnmarshalCompressed(curve, v.L)
	if lx == nil {
		return nil, fmt.Errorf("%w: bad L point", ErrInvalidVerifier)
	}
	y, err := ephemeral()
	if err != nil {
		return nil, err
	}
	s := &ServerExchange{
		verifier: v,
		serverID: serverID,
		y:        y,
		w0:       new(big.Int).SetBytes(v.W0),
		l:        point{x: lx, y: ly},
	}
	s.pB = share(y, s.w0, pointN)
	return s, nil
}

// PublicValue returns pB = y*G + w0*N.
func (s *ServerExchange) PublicValue() []byte {
	return s.pB
}

// ProcessClientValue consumes pA and derives the session keys.
func (s *ServerExchange) ProcessClientValue(pA []byte) error {
	xx, xy, err := unblind(pA, s.w0, pointM)
	if err != nil {
		return err
	}
	s.pA = pA
	zx, zy := curve.ScalarMult(xx, xy, s.y.Bytes())
	vx, vy := curve.ScalarMult(s.l.x, s.l.y, s.y.Bytes())
	k := deriveKeys(s.verifier.Identity, s.serverID, s.pA, s.pB, zx, zy, vx, vy, s.w0)
	s.keys = &k
	return nil
}

// Confirmation returns the server confirmation MAC. Nil before
// ProcessClientValue.
func (s *ServerExchange) Confirmation() []byte {
	if s.keys == nil {
		return nil
	}
	return s.keys.mac("server", s.pB, s.pA)
}

// VerifyClientConfirmation checks the client confirmation MAC.
func (s *ServerExchange) VerifyClientConfirmation(mac []byte) error {
	if s.keys == nil || !hmac.Equal(mac, s.keys.mac("client", s.pA, s.pB)) {
		return ErrConfirmationFailed
	}
	return nil
}

// SharedSecret returns the derived secret, or nil before the peer value
// has been processed.
func (s *ServerExchange) SharedSecret() []byte {
	if s.keys == nil {
		return nil
	}
	return s.keys.shared
}
