package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-channel/pkg/log"
)

// captureLogger records protocol events.
type captureLogger struct {
	events []log.Event
}

func (l *captureLogger) Log(e log.Event) {
	l.events = append(l.events, e)
}

func (l *captureLogger) states() []string {
	var out []string
	for _, e := range l.events {
		if e.StateChange != nil {
			out = append(out, e.StateChange.NewState)
		}
	}
	return out
}

func noiseKey(t *testing.T) NoiseConfig {
	t.Helper()
	k, err := GenerateNoiseKey()
	require.NoError(t, err)
	return NoiseConfig{StaticKey: k}
}

// handshakePair drives both transports until they are ready.
func handshakePair(t *testing.T, a, b TransportLayer) {
	t.Helper()
	for i := 0; i < 10 && !(a.IsReady() && b.IsReady()); i++ {
		require.NoError(t, a.Handshake())
		require.NoError(t, b.Handshake())
	}
	require.True(t, a.IsReady(), "client handshake did not complete")
	require.True(t, b.IsReady(), "server handshake did not complete")
}

// prepareChannels drives both channels until they are ready.
func prepareChannels(t *testing.T, a, b *Channel) {
	t.Helper()
	for i := 0; i < 20 && !(a.IsReady() && b.IsReady()); i++ {
		require.NoError(t, a.Prepare())
		require.NoError(t, b.Prepare())
	}
	require.True(t, a.IsReady(), "client channel not ready")
	require.True(t, b.IsReady(), "server channel not ready")
}
