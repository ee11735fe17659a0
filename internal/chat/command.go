package chat

import "github.com/hiraku/chatr/pkg/protocol"

// Command is a structured request submitted by a handler to the directory.
type Command interface {
	isCommand()
}

// Hello asks the directory to register a username. The mailbox send side is
// handed over with the request; the submitting handler keeps the receive side.
type Hello struct {
	Username string
	Mailbox  *Mailbox
}

// Message asks the directory to broadcast a chat body to everyone else.
type Message struct {
	From string
	Body string
}

// PrivateMessage asks the directory to deliver a chat body to one user.
type PrivateMessage struct {
	From string
	To   string
	Body string
}

// Quit removes a username from the registry. It is fire-and-forget: no
// acknowledgement is ever sent, so a closing connection cannot be left
// waiting on it.
type Quit struct {
	Username string
}

func (Hello) isCommand()          {}
func (Message) isCommand()        {}
func (PrivateMessage) isCommand() {}
func (Quit) isCommand()           {}

// request pairs a command with its one-shot reply channel. replyTo is nil
// for commands that expect no answer.
type request struct {
	cmd     Command
	replyTo chan<- protocol.Response
}

// reply answers the pending ack, if the command asked for one. The reply
// channel is buffered, so the directory never blocks here.
func (r request) reply(resp protocol.Response) {
	if r.replyTo != nil {
		r.replyTo <- resp
	}
}
