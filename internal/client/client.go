// Package client provides a TCP client for the line protocol, used by the
// interactive client binary and by tests.
package client

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/hiraku/chatr/pkg/protocol"
)

// Client is a line-protocol chat client over TCP.
type Client struct {
	serverAddr string
	username   string
	conn       net.Conn
	events     chan protocol.Response
	done       chan struct{}
	closeOnce  sync.Once
}

// New creates a client for the given server address and username.
func New(serverAddr, username string) *Client {
	return &Client{
		serverAddr: serverAddr,
		username:   username,
		events:     make(chan protocol.Response, 16),
		done:       make(chan struct{}),
	}
}

// Connect dials the server and starts receiving events.
func (c *Client) Connect() error {
	conn, err := net.Dial("tcp", c.serverAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	c.conn = conn

	go c.readLoop()
	return nil
}

// Hello registers the client's username.
func (c *Client) Hello() error {
	return c.send(protocol.Hello{Username: c.username})
}

// SendMessage broadcasts a chat message.
func (c *Client) SendMessage(body string) error {
	return c.send(protocol.Message{Body: body})
}

// SendPrivate sends a private message to one user.
func (c *Client) SendPrivate(to, body string) error {
	return c.send(protocol.Private{To: to, Body: body})
}

// Quit announces departure. The server closes the connection afterwards.
func (c *Client) Quit() error {
	return c.send(protocol.Quit{})
}

// Events returns the stream of server responses. The channel is closed when
// the connection ends.
func (c *Client) Events() <-chan protocol.Response {
	return c.events
}

// Disconnect closes the connection.
func (c *Client) Disconnect() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) send(cmd protocol.Command) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	if _, err := c.conn.Write([]byte(cmd.Encode() + "\n")); err != nil {
		return fmt.Errorf("failed to send %q: %w", cmd.Encode(), err)
	}
	return nil
}

func (c *Client) readLoop() {
	defer close(c.events)

	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		resp, err := protocol.ParseResponse(line)
		if err != nil {
			continue
		}
		select {
		case c.events <- resp:
		case <-c.done:
			return
		}
	}
}
