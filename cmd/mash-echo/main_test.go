//go:build linux

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-channel/pkg/network"
	"github.com/mash-protocol/mash-channel/pkg/pase"
)

func TestLoadConfigDefaults(t *testing.T) {
	f, err := loadConfig(Flags{})
	require.NoError(t, err)
	assert.Equal(t, "PLAINTEXT", f.Protocol)
	assert.Equal(t, "client", f.Mode)
	assert.Empty(t, f.Authenticator)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("protocol: NOISE\nmode: server\naddress: \":9000\"\n"), 0o600))

	f, err := loadConfig(Flags{
		ConfigFile:  path,
		Address:     "127.0.0.1:9100",
		SetupCode:   "1234-5678",
		LogLevel:    "debug",
		ProtocolLog: filepath.Join(dir, "events.mlog"),
	})
	require.NoError(t, err)
	assert.Equal(t, "NOISE", f.Protocol)
	assert.Equal(t, "server", f.Mode)
	assert.Equal(t, "127.0.0.1:9100", f.Address)
	assert.Equal(t, pase.Name, f.Authenticator)
	require.NotNil(t, f.PASE)
	assert.Equal(t, "1234-5678", f.PASE.SetupCode)
	assert.Equal(t, "debug", f.Logging.Level)

	cfg := f.Options()
	assert.Equal(t, pase.Name, cfg[network.KeyAuthenticator])
}

func TestLoadConfigRejectsBadOverrides(t *testing.T) {
	_, err := loadConfig(Flags{Mode: "peer"})
	assert.Error(t, err)

	_, err = loadConfig(Flags{SetupCode: "12"})
	assert.Error(t, err)

	_, err = loadConfig(Flags{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestServicePort(t *testing.T) {
	port, err := servicePort("0.0.0.0:8443")
	require.NoError(t, err)
	assert.Equal(t, 8443, port)

	port, err = servicePort("[::1]:9000")
	require.NoError(t, err)
	assert.Equal(t, 9000, port)

	for _, addr := range []string{"8443", "host:", "host:0", "host:70000", "host:http"} {
		_, err := servicePort(addr)
		assert.Error(t, err, addr)
	}
}

func TestTXTRecords(t *testing.T) {
	assert.Equal(t, []string{"proto=NOISE", "txtvers=1"}, txtRecords(network.ProtocolNoise))
}

func TestGenKey(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, genKey(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	priv := strings.TrimSpace(strings.TrimPrefix(lines[0], "private:"))
	pub := strings.TrimSpace(strings.TrimPrefix(lines[1], "public:"))

	key, err := network.ParseNoiseKey(priv)
	require.NoError(t, err)
	peer, err := network.ParsePeerKey(pub)
	require.NoError(t, err)
	assert.Equal(t, key.Public, peer)
}

func TestLoadConfigPairingWindow(t *testing.T) {
	f, err := loadConfig(Flags{Mode: "server", SetupCode: "12345678", Pairing: 2 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, f.PASE.PairingWindow)

	w, err := f.OpenPairingWindow()
	require.NoError(t, err)
	require.NotNil(t, w)
	w.Close()

	_, err = loadConfig(Flags{Mode: "server", Pairing: time.Minute})
	assert.Error(t, err)
}
