package ws_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	gobwasws "github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/stretchr/testify/require"

	"github.com/hiraku/chatr/internal/chat"
	"github.com/hiraku/chatr/internal/transport/ws"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startDirectory(t *testing.T) *chat.Directory {
	t.Helper()
	d := chat.NewDirectory(10, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go d.Run(ctx)
	return d
}

func startServer(t *testing.T) *ws.Server {
	t.Helper()
	srv := ws.New(":0", startDirectory(t), discardLogger())
	go srv.Start()
	t.Cleanup(srv.Stop)

	require.Eventually(t, func() bool {
		return srv.Addr() != ""
	}, time.Second, 10*time.Millisecond)
	return srv
}

func TestConn_ImplementsInterface(t *testing.T) {
	var _ chat.Conn = (*ws.Conn)(nil)
}

func TestServer_HandlesProtocol(t *testing.T) {
	srv := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	conn, _, _, err := gobwasws.Dial(ctx, "ws://"+srv.Addr())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, wsutil.WriteClientText(conn, []byte("HELLO | alice")))

	data, err := wsutil.ReadServerText(conn)
	require.NoError(t, err)
	require.Equal(t, "WELCOME | alice | 1", string(data))

	require.NoError(t, wsutil.WriteClientText(conn, []byte("MESSAGE | hi")))
	data, err = wsutil.ReadServerText(conn)
	require.NoError(t, err)
	require.Equal(t, "OK | Success", string(data))
}

func TestServer_RelaysBetweenClients(t *testing.T) {
	srv := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	alice, _, _, err := gobwasws.Dial(ctx, "ws://"+srv.Addr())
	require.NoError(t, err)
	defer alice.Close()
	bob, _, _, err := gobwasws.Dial(ctx, "ws://"+srv.Addr())
	require.NoError(t, err)
	defer bob.Close()

	require.NoError(t, wsutil.WriteClientText(alice, []byte("HELLO | alice")))
	data, err := wsutil.ReadServerText(alice)
	require.NoError(t, err)
	require.Equal(t, "WELCOME | alice | 1", string(data))

	require.NoError(t, wsutil.WriteClientText(bob, []byte("HELLO | bob")))
	data, err = wsutil.ReadServerText(bob)
	require.NoError(t, err)
	require.Equal(t, "WELCOME | bob | 2", string(data))

	data, err = wsutil.ReadServerText(alice)
	require.NoError(t, err)
	require.Equal(t, "JOIN | bob", string(data))

	require.NoError(t, wsutil.WriteClientText(bob, []byte("MESSAGE | hi")))
	data, err = wsutil.ReadServerText(alice)
	require.NoError(t, err)
	require.Equal(t, "CHAT | bob | hi", string(data))
}
