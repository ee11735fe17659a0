// Package tcp provides the TCP line-stream transport for the chat server.
package tcp

import (
	"bufio"
	"context"
	"net"
	"strings"
)

// Conn adapts a net.Conn to the chat.Conn line-stream interface.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader
}

// NewConn wraps a net.Conn (plain or TLS).
func NewConn(conn net.Conn) *Conn {
	return &Conn{conn: conn, reader: bufio.NewReader(conn)}
}

// ReadLine implements chat.Conn.
// Reads up to the next newline; the trailing newline is stripped.
func (c *Conn) ReadLine(ctx context.Context) (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// WriteLine implements chat.Conn.
func (c *Conn) WriteLine(ctx context.Context, line string) error {
	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}

// Close implements chat.Conn.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr implements chat.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
