package network

// Compile-time interface satisfaction checks.
var (
	_ TransportLayer   = (*PlaintextTransport)(nil)
	_ TransportLayer   = (*NoiseTransport)(nil)
	_ Authenticator    = (*DefaultAuthenticator)(nil)
	_ PrincipalBuilder = DefaultPrincipalBuilder{}
	_ ChannelBuilder   = (*PlaintextChannelBuilder)(nil)
	_ ChannelBuilder   = (*SecureChannelBuilder)(nil)
	_ SelectionKey     = (*DetachedKey)(nil)
)
