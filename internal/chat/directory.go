package chat

import (
	"context"
	"log/slog"

	"github.com/hiraku/chatr/pkg/protocol"
)

// User is one registry entry: an immutable username and the send side of the
// owner's mailbox.
type User struct {
	Name    string
	Mailbox *Mailbox
}

// Directory is the authoritative registry of connected users. It is an
// actor: all state is owned by the single goroutine running Run, reached
// only through the bounded submission queue, so uniqueness checks and
// fan-out decisions are atomic with respect to each other without locks.
//
// The submission queue blocks handlers once full, which doubles as
// admission control; mailbox pushes never block (drop on full), so the
// directory loop always makes progress.
type Directory struct {
	requests chan request
	users    map[string]User
	capacity int
	logger   *slog.Logger
}

// NewDirectory creates a directory whose submission queue and per-user
// mailboxes are bounded at capacity (the supported concurrent-user cap).
func NewDirectory(capacity int, logger *slog.Logger) *Directory {
	return &Directory{
		requests: make(chan request, capacity),
		users:    make(map[string]User),
		capacity: capacity,
		logger:   logger,
	}
}

// Run processes submitted commands strictly in arrival order until ctx is
// cancelled. It must be running for any Submit or Ask to complete.
func (d *Directory) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-d.requests:
			d.process(req)
		}
	}
}

// Submit enqueues a command that expects no acknowledgement.
func (d *Directory) Submit(ctx context.Context, cmd Command) error {
	select {
	case d.requests <- request{cmd: cmd}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ask enqueues a command and waits for its one-shot acknowledgement.
func (d *Directory) Ask(ctx context.Context, cmd Command) (protocol.Response, error) {
	reply := make(chan protocol.Response, 1)
	select {
	case d.requests <- request{cmd: cmd, replyTo: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Directory) process(req request) {
	switch cmd := req.cmd.(type) {
	case Hello:
		d.hello(req, cmd)
	case Message:
		d.message(req, cmd)
	case PrivateMessage:
		d.privateMessage(req, cmd)
	case Quit:
		d.quit(cmd)
	}
}

func (d *Directory) hello(req request, cmd Hello) {
	if _, exists := d.users[cmd.Username]; exists {
		req.reply(protocol.ErrorResponse{Err: protocol.ErrUserExists})
		return
	}

	d.users[cmd.Username] = User{Name: cmd.Username, Mailbox: cmd.Mailbox}
	d.logger.Info("user registered", "username", cmd.Username, "users", len(d.users))
	req.reply(protocol.Welcome{Username: cmd.Username, UserCount: len(d.users)})

	d.fanOut(cmd.Username, protocol.Join{Username: cmd.Username})
}

func (d *Directory) message(req request, cmd Message) {
	d.fanOut(cmd.From, protocol.Chat{From: cmd.From, Body: cmd.Body})
	// Acked unconditionally: a sender racing its own quit gets a harmless
	// no-op acknowledgement instead of an error.
	req.reply(protocol.Success{})
}

func (d *Directory) privateMessage(req request, cmd PrivateMessage) {
	if cmd.From == cmd.To {
		req.reply(protocol.ErrorResponse{Err: protocol.ErrMessageYourself})
		return
	}

	target, ok := d.users[cmd.To]
	if !ok {
		req.reply(protocol.ErrorResponse{Err: protocol.ErrUserDoesntExist})
		return
	}

	d.push(target, protocol.Chat{From: cmd.From, Body: cmd.Body, Private: true})
	req.reply(protocol.Success{})
}

func (d *Directory) quit(cmd Quit) {
	if _, exists := d.users[cmd.Username]; !exists {
		return
	}

	delete(d.users, cmd.Username)
	d.logger.Info("user left", "username", cmd.Username, "users", len(d.users))
	d.fanOut(cmd.Username, protocol.Left{Username: cmd.Username})
}

// fanOut pushes an event to every registered user except the originator.
func (d *Directory) fanOut(except string, resp protocol.Response) {
	for name, user := range d.users {
		if name == except {
			continue
		}
		d.push(user, resp)
	}
}

// push delivers best-effort: a full mailbox drops the event for that one
// recipient and never stalls processing of the current or later commands.
func (d *Directory) push(user User, resp protocol.Response) {
	if !user.Mailbox.TrySend(resp) {
		d.logger.Warn("mailbox full, dropping event", "username", user.Name)
	}
}
