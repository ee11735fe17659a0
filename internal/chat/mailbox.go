package chat

import "github.com/hiraku/chatr/pkg/protocol"

// Mailbox is the bounded push channel of one registered user. The directory
// holds the send side through the registry; the owning handler drains the
// receive side. Neither side needs the other's cooperation to let go: once
// both are gone the channel is collected.
type Mailbox struct {
	ch chan protocol.Response
}

// NewMailbox creates a mailbox with the given capacity.
func NewMailbox(capacity int) *Mailbox {
	return &Mailbox{ch: make(chan protocol.Response, capacity)}
}

// TrySend delivers a response without blocking. It reports false when the
// mailbox is full, in which case the event is dropped: a slow reader must
// never stall the directory.
func (m *Mailbox) TrySend(resp protocol.Response) bool {
	select {
	case m.ch <- resp:
		return true
	default:
		return false
	}
}

// Receive returns the channel the owning handler drains.
func (m *Mailbox) Receive() <-chan protocol.Response {
	return m.ch
}
