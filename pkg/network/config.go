package network

import (
	"fmt"
	"strings"
)

// Option keys understood by the builders and the registered plugins.
const (
	// KeyPrincipalBuilder names the registered PrincipalBuilder.
	KeyPrincipalBuilder = "principal.builder"

	// KeyAuthenticator names the registered authenticator.
	KeyAuthenticator = "authenticator"

	// KeyPASESetupCode is the shared setup code for the pase authenticator.
	KeyPASESetupCode = "pase.setup.code"

	// KeyPASEClientIdentity is the identity the client claims.
	KeyPASEClientIdentity = "pase.client.identity"

	// KeyPASEServerIdentity is the identity the server claims.
	KeyPASEServerIdentity = "pase.server.identity"

	// KeyPASEWindow holds a *pase.Window gating server-side exchanges.
	KeyPASEWindow = "pase.window"

	// KeyNoiseStaticKey is the hex encoded local static private key.
	KeyNoiseStaticKey = "noise.static.private.key"

	// KeyNoiseTrustedPeers lists hex encoded remote static public keys.
	KeyNoiseTrustedPeers = "noise.trusted.peers"
)

// Config is the string-keyed option mapping handed to builders and
// plugins at configuration time.
type Config map[string]any

// String returns the string value for key.
func (c Config) String(key string) (string, bool) {
	v, ok := c[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

// StringOr returns the string value for key, or def when unset or empty.
func (c Config) StringOr(key, def string) string {
	if s, ok := c.String(key); ok && s != "" {
		return s
	}
	return def
}

// Strings returns a list value for key. A comma separated string is
// split; blank entries are dropped.
func (c Config) Strings(key string) ([]string, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return nil, nil
	}
	var raw []string
	switch l := v.(type) {
	case string:
		raw = strings.Split(l, ",")
	case []string:
		raw = l
	case []any:
		for _, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%s: element %v is %T, not a string", key, e, e)
			}
			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported list type %T", key, v)
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// Clone returns a shallow copy.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
