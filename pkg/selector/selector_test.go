//go:build linux

package selector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/mash-protocol/mash-channel/pkg/network"
	"github.com/mash-protocol/mash-channel/pkg/socket"
)

func setup(t *testing.T) (*Selector, *socket.Socket, *socket.Socket) {
	t.Helper()
	sel, err := New()
	require.NoError(t, err)
	a, b, err := socket.Pair()
	require.NoError(t, err)
	t.Cleanup(func() {
		sel.Close()
		a.Close()
		b.Close()
	})
	return sel, a, b
}

func TestSelectReadable(t *testing.T) {
	sel, a, b := setup(t)
	key, err := sel.Register(b.Fd(), network.OpRead, "b")
	require.NoError(t, err)

	ready, err := sel.Select(0)
	require.NoError(t, err)
	assert.Empty(t, ready)

	_, err = a.Write([]byte("x"))
	require.NoError(t, err)

	ready, err = sel.Select(time.Second)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Same(t, key, ready[0])
	assert.Equal(t, network.OpRead, key.ReadyOps())
	assert.Equal(t, "b", key.Attachment())
}

func TestSelectWritableOnlyWithInterest(t *testing.T) {
	sel, a, _ := setup(t)
	key, err := sel.Register(a.Fd(), network.OpRead, nil)
	require.NoError(t, err)

	ready, err := sel.Select(0)
	require.NoError(t, err)
	assert.Empty(t, ready)

	require.NoError(t, key.SetInterestOps(network.OpRead|network.OpWrite))
	ready, err = sel.Select(time.Second)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, network.OpWrite, ready[0].ReadyOps())

	require.NoError(t, key.SetInterestOps(network.OpRead))
	ready, err = sel.Select(0)
	require.NoError(t, err)
	assert.Empty(t, ready)
}

func TestSelectHangupWakesReader(t *testing.T) {
	sel, a, b := setup(t)
	_, err := sel.Register(b.Fd(), network.OpRead, nil)
	require.NoError(t, err)

	require.NoError(t, a.Close())
	ready, err := sel.Select(time.Second)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, network.OpRead, ready[0].ReadyOps())
}

func TestKeyCancel(t *testing.T) {
	sel, a, b := setup(t)
	key, err := sel.Register(b.Fd(), network.OpRead, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, sel.Len())

	require.NoError(t, key.Cancel())
	require.NoError(t, key.Cancel())
	assert.False(t, key.Valid())
	assert.Equal(t, 0, sel.Len())
	assert.ErrorIs(t, key.SetInterestOps(network.OpWrite), network.ErrKeyCancelled)

	_, err = a.Write([]byte("x"))
	require.NoError(t, err)
	ready, err := sel.Select(0)
	require.NoError(t, err)
	assert.Empty(t, ready)

	// The descriptor can be registered again.
	_, err = sel.Register(b.Fd(), network.OpRead, nil)
	require.NoError(t, err)
}

func TestRegisterDuplicate(t *testing.T) {
	sel, _, b := setup(t)
	_, err := sel.Register(b.Fd(), network.OpRead, nil)
	require.NoError(t, err)
	_, err = sel.Register(b.Fd(), network.OpRead, nil)
	assert.ErrorIs(t, err, unix.EEXIST)
}

func TestCloseCancelsKeys(t *testing.T) {
	sel, _, b := setup(t)
	key, err := sel.Register(b.Fd(), network.OpRead, nil)
	require.NoError(t, err)

	require.NoError(t, sel.Close())
	require.NoError(t, sel.Close())
	assert.False(t, key.Valid())

	_, err = sel.Select(0)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = sel.Register(b.Fd(), network.OpRead, nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestReadyOps(t *testing.T) {
	all := network.OpRead | network.OpWrite | network.OpConnect
	assert.Equal(t, network.OpRead, readyOps(unix.EPOLLIN, all))
	assert.Equal(t, network.OpWrite|network.OpConnect, readyOps(unix.EPOLLOUT, all))
	assert.Equal(t, all, readyOps(unix.EPOLLERR, all))
	assert.Equal(t, network.OpConnect, readyOps(unix.EPOLLOUT, network.OpConnect))
	assert.Equal(t, network.Ops(0), readyOps(unix.EPOLLIN, network.OpWrite))
}

func TestPlaintextTransportDrivesKey(t *testing.T) {
	sel, a, b := setup(t)
	key, err := sel.Register(a.Fd(), network.OpRead, nil)
	require.NoError(t, err)

	tr, err := network.NewPlaintextTransport(a, key)
	require.NoError(t, err)

	require.NoError(t, tr.AddInterestOps(network.OpWrite))
	ready, err := sel.Select(time.Second)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, network.OpWrite, ready[0].ReadyOps())

	require.NoError(t, tr.RemoveInterestOps(network.OpWrite))
	assert.Equal(t, network.OpRead, key.InterestOps())

	require.NoError(t, tr.Close())
	assert.False(t, key.Valid())
	assert.False(t, a.IsOpen())

	n, err := b.Read(make([]byte, 1))
	assert.Equal(t, 0, n)
	assert.Error(t, err)
}
