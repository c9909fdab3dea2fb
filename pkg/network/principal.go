package network

// TrustLevel labels how an identity was established.
type TrustLevel uint8

const (
	// TrustNone means no verification took place.
	TrustNone TrustLevel = iota

	// TrustTransport means the secure transport verified the peer key.
	TrustTransport

	// TrustAuthenticated means an authenticator verified the identity.
	TrustAuthenticated
)

// String returns the trust level name.
func (t TrustLevel) String() string {
	switch t {
	case TrustNone:
		return "NONE"
	case TrustTransport:
		return "TRANSPORT"
	case TrustAuthenticated:
		return "AUTHENTICATED"
	default:
		return "UNKNOWN"
	}
}

// Principal is the identity associated with a connection. It is a value
// type and never changes once produced.
type Principal struct {
	// Name identifies the peer.
	Name string

	// Trust labels how Name was established.
	Trust TrustLevel
}

// AnonymousName is the name reported when no verification occurs.
const AnonymousName = "ANONYMOUS"

// Anonymous is the principal of every plaintext connection. It is an
// explicit "no verification" tier, not a default.
var Anonymous = Principal{Name: AnonymousName, Trust: TrustNone}

// String returns the principal name.
func (p Principal) String() string {
	return p.Name
}

// IsAnonymous reports whether p carries no verified identity.
func (p Principal) IsAnonymous() bool {
	return p.Trust == TrustNone
}
