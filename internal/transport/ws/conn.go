// Package ws provides the WebSocket line-stream transport for the chat
// server, using gobwas/ws. One text frame carries exactly one protocol line.
package ws

import (
	"context"
	"net"
	"strings"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// Conn adapts an upgraded WebSocket connection to the chat.Conn interface.
type Conn struct {
	conn net.Conn
}

// NewConn wraps a server-side upgraded connection.
func NewConn(conn net.Conn) *Conn {
	return &Conn{conn: conn}
}

// ReadLine implements chat.Conn.
// Reads the next client text frame; any trailing newline is stripped so
// framed and newline-terminated clients behave identically.
func (c *Conn) ReadLine(ctx context.Context) (string, error) {
	data, err := wsutil.ReadClientText(c.conn)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// WriteLine implements chat.Conn.
func (c *Conn) WriteLine(ctx context.Context, line string) error {
	return wsutil.WriteServerText(c.conn, []byte(line))
}

// Close implements chat.Conn.
func (c *Conn) Close() error {
	_ = wsutil.WriteServerMessage(c.conn, ws.OpClose, nil)
	return c.conn.Close()
}

// RemoteAddr implements chat.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
