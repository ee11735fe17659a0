package tcp_test

import (
	"bufio"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"log/slog"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hiraku/chatr/internal/chat"
	"github.com/hiraku/chatr/internal/transport/tcp"
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

func waitForAddr(t *testing.T, addr func() string) string {
	t.Helper()
	var got string
	require.Eventually(t, func() bool {
		got = addr()
		return got != ""
	}, time.Second, 10*time.Millisecond)
	return got
}

func TestServer_HandlesProtocol(t *testing.T) {
	srv := tcp.New(":0", startDirectory(t), discardLogger())
	go srv.Start()
	defer srv.Stop()

	conn, err := net.Dial("tcp", waitForAddr(t, srv.Addr))
	require.NoError(t, err)
	defer conn.Close()
	reader := bufio.NewReader(conn)

	_, err = conn.Write([]byte("HELLO | alice\n"))
	require.NoError(t, err)

	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "WELCOME | alice | 1\n", line)
}

func TestServer_Stop(t *testing.T) {
	srv := tcp.New(":0", startDirectory(t), discardLogger())
	go srv.Start()

	addr := waitForAddr(t, srv.Addr)
	srv.Stop()

	_, err := net.Dial("tcp", addr)
	require.Error(t, err)
}

func TestServer_TLS(t *testing.T) {
	cert := selfSignedCert(t)
	srv := tcp.NewTLS(":0", &tls.Config{Certificates: []tls.Certificate{cert}}, startDirectory(t), discardLogger())
	go srv.Start()
	defer srv.Stop()

	conn, err := tls.Dial("tcp", waitForAddr(t, srv.Addr), &tls.Config{InsecureSkipVerify: true})
	require.NoError(t, err)
	defer conn.Close()
	reader := bufio.NewReader(conn)

	_, err = conn.Write([]byte("HELLO | alice\n"))
	require.NoError(t, err)

	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "WELCOME | alice | 1\n", line)
}

func selfSignedCert(t *testing.T) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(time.Hour),
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}
}
