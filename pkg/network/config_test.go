package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigString(t *testing.T) {
	cfg := Config{
		"name":  "pase",
		"num":   7,
		"proto": ProtocolNoise,
		"nil":   nil,
	}

	s, ok := cfg.String("name")
	assert.True(t, ok)
	assert.Equal(t, "pase", s)

	s, ok = cfg.String("num")
	assert.True(t, ok)
	assert.Equal(t, "7", s)

	s, _ = cfg.String("proto")
	assert.Equal(t, "NOISE", s)

	_, ok = cfg.String("nil")
	assert.False(t, ok)
	_, ok = cfg.String("missing")
	assert.False(t, ok)

	assert.Equal(t, "default", cfg.StringOr("missing", "default"))
	assert.Equal(t, "pase", cfg.StringOr("name", "default"))
}

func TestConfigStrings(t *testing.T) {
	cfg := Config{
		"csv":   "a, b,,c ",
		"slice": []string{"x", " y "},
		"any":   []any{"p", "q"},
		"bad":   []any{"p", 3},
		"int":   5,
	}

	got, err := cfg.Strings("csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got, err = cfg.Strings("slice")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got)

	got, err = cfg.Strings("any")
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "q"}, got)

	got, err = cfg.Strings("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = cfg.Strings("bad")
	assert.Error(t, err)
	_, err = cfg.Strings("int")
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := Config{"a": "1"}
	c := cfg.Clone()
	c["a"] = "2"
	assert.Equal(t, "1", cfg["a"])
}

func TestParseModeAndProtocol(t *testing.T) {
	m, err := ParseMode("Server")
	require.NoError(t, err)
	assert.Equal(t, ModeServer, m)
	_, err = ParseMode("peer")
	assert.ErrorIs(t, err, ErrConfiguration)

	p, err := ParseSecurityProtocol("noise")
	require.NoError(t, err)
	assert.Equal(t, ProtocolNoise, p)
	_, err = ParseSecurityProtocol("ssl")
	assert.ErrorIs(t, err, ErrConfiguration)
}
