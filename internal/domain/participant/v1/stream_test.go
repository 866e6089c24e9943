package participantv1

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	protocolv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/protocol/v1"
)

func startTestSession(t *testing.T) (*StreamSession, net.Conn, chan struct{}, chan struct{}) {
	t.Helper()

	server, client := net.Pipe()
	session := NewStreamSession(server)

	ready := make(chan struct{}, 16)
	died := make(chan struct{})
	session.Start(
		func() { ready <- struct{}{} },
		func() { close(died) },
	)

	t.Cleanup(func() {
		_ = session.Close()
		_ = client.Close()
	})
	return session, client, ready, died
}

func waitReady(t *testing.T, ready chan struct{}) {
	t.Helper()
	select {
	case <-ready:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for readiness")
	}
}

func TestStreamSession_SplitsOnTerminator(t *testing.T) {
	session, client, ready, _ := startTestSession(t)

	go func() {
		_, _ = client.Write([]byte("BUY 0 GPU 10 100;CANCEL 0;"))
	}()

	waitReady(t, ready)
	waitReady(t, ready)

	raw, ok := session.TryRead()
	require.True(t, ok)
	assert.Equal(t, "BUY 0 GPU 10 100;", raw)

	raw, ok = session.TryRead()
	require.True(t, ok)
	assert.Equal(t, "CANCEL 0;", raw)
}

func TestStreamSession_TryReadEmpty(t *testing.T) {
	session, _, _, _ := startTestSession(t)

	_, ok := session.TryRead()
	assert.False(t, ok)
}

func TestStreamSession_Write(t *testing.T) {
	session, client, _, _ := startTestSession(t)

	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := client.Read(buf)
		got <- string(buf[:n])
	}()

	require.NoError(t, session.Write("MARKET OPEN;"))
	select {
	case msg := <-got:
		assert.Equal(t, "MARKET OPEN;", msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for write")
	}
}

func TestStreamSession_DiedOnPeerClose(t *testing.T) {
	_, client, _, died := startTestSession(t)

	require.NoError(t, client.Close())

	select {
	case <-died:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for death notification")
	}
}

func TestStreamSession_PartialCommandDiscardedOnClose(t *testing.T) {
	session, client, ready, died := startTestSession(t)

	go func() {
		_, _ = client.Write([]byte("SELL 0 GPU 5 50;BUY 1 GP"))
		_ = client.Close()
	}()

	waitReady(t, ready)
	select {
	case <-died:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for death notification")
	}

	raw, ok := session.TryRead()
	require.True(t, ok)
	assert.Equal(t, "SELL 0 GPU 5 50;", raw)

	// The unterminated tail never surfaces.
	_, ok = session.TryRead()
	assert.False(t, ok)
}

func TestStreamSession_OversizedCommandTruncated(t *testing.T) {
	session, client, ready, _ := startTestSession(t)

	long := strings.Repeat("A", 300)
	go func() {
		_, _ = client.Write([]byte(long + ";BUY 0 GPU 10 100;"))
	}()

	waitReady(t, ready)
	waitReady(t, ready)

	// The over-long message surfaces cut at the wire limit, unterminated, so
	// it can never decode as a command.
	raw, ok := session.TryRead()
	require.True(t, ok)
	assert.Equal(t, long[:protocolv1.MaxMessageLen], raw)

	// The stream resyncs at the next terminator.
	raw, ok = session.TryRead()
	require.True(t, ok)
	assert.Equal(t, "BUY 0 GPU 10 100;", raw)
}

func TestStreamSession_MaxLengthCommandIntact(t *testing.T) {
	session, client, ready, _ := startTestSession(t)

	msg := strings.Repeat("B", protocolv1.MaxMessageLen-1) + ";"
	go func() {
		_, _ = client.Write([]byte(msg))
	}()

	waitReady(t, ready)

	raw, ok := session.TryRead()
	require.True(t, ok)
	assert.Equal(t, msg, raw)
}

func TestStreamSession_CloseIdempotent(t *testing.T) {
	session, _, _, _ := startTestSession(t)

	require.NoError(t, session.Close())
	assert.NoError(t, session.Close())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	t.Run("dense ids in registration order", func(t *testing.T) {
		server, _ := net.Pipe()
		defer server.Close()

		a := r.Add(NewStreamSession(server))
		b := r.Add(NewStreamSession(server))

		assert.Equal(t, 0, a.ID)
		assert.Equal(t, 1, b.ID)
		assert.Equal(t, 2, r.Len())
		assert.Equal(t, 2, r.Live())
	})

	t.Run("mark dead is once only", func(t *testing.T) {
		assert.True(t, r.MarkDead(0))
		assert.False(t, r.MarkDead(0))
		assert.Equal(t, 1, r.Live())

		p, ok := r.Get(0)
		require.True(t, ok)
		assert.False(t, p.Alive)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, ok := r.Get(9)
		assert.False(t, ok)
		assert.False(t, r.MarkDead(9))
	})
}
