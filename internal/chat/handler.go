package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hiraku/chatr/pkg/protocol"
)

// quitSubmitTimeout bounds the best-effort Quit submission of a terminating
// handler so a closed connection can never be left waiting on the directory.
const quitSubmitTimeout = time.Second

// Handler runs the protocol state machine for one connection: it decodes
// input lines into commands, submits them to the directory, and relays
// mailbox pushes back onto the socket. Exactly one handler exists per
// connection and its state is never shared.
type Handler struct {
	conn      Conn
	directory *Directory
	logger    *slog.Logger

	validated bool
	username  string
	mailbox   *Mailbox
}

// NewHandler creates a handler for one accepted connection.
func NewHandler(conn Conn, directory *Directory, logger *slog.Logger) *Handler {
	return &Handler{
		conn:      conn,
		directory: directory,
		logger: logger.With(
			"conn", uuid.NewString(),
			"remote", conn.RemoteAddr(),
		),
	}
}

// Run drives the connection until it quits, the peer disconnects, or ctx is
// cancelled. Input lines and mailbox pushes are raced against each other;
// the two streams carry no ordering guarantee relative to one another.
func (h *Handler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer h.conn.Close()

	lines := make(chan string)
	readErrs := make(chan error, 1)
	go h.readLoop(ctx, lines, readErrs)

	// Nil until a successful HELLO; a nil channel never fires in select.
	var inbox <-chan protocol.Response

	for {
		select {
		case <-ctx.Done():
			h.leave()
			return ctx.Err()

		case err := <-readErrs:
			// Peer gone: treat as an implicit quit, never retry.
			h.leave()
			if errors.Is(err, io.EOF) {
				return nil
			}
			h.logger.Debug("read failed", "error", err)
			return err

		case line := <-lines:
			done, err := h.handleLine(ctx, line)
			if err != nil {
				h.leave()
				return err
			}
			if done {
				return nil
			}
			if h.mailbox != nil {
				inbox = h.mailbox.Receive()
			}

		case resp := <-inbox:
			if err := h.deliver(ctx, resp); err != nil {
				h.leave()
				return err
			}
		}
	}
}

func (h *Handler) readLoop(ctx context.Context, lines chan<- string, errs chan<- error) {
	for {
		line, err := h.conn.ReadLine(ctx)
		if err != nil {
			errs <- err
			return
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return
		}
	}
}

// handleLine decodes and executes one input line. It reports done=true when
// the connection must terminate (explicit QUIT).
func (h *Handler) handleLine(ctx context.Context, line string) (done bool, err error) {
	cmd, perr := protocol.ParseCommand(line)
	if perr != nil {
		var pe protocol.Error
		errors.As(perr, &pe)
		return false, h.writeError(ctx, pe)
	}

	switch c := cmd.(type) {
	case protocol.Hello:
		return false, h.hello(ctx, c)
	case protocol.Message:
		return false, h.message(ctx, c)
	case protocol.Private:
		return false, h.private(ctx, c)
	case protocol.Quit:
		return h.quit(ctx)
	default:
		return false, h.writeError(ctx, protocol.ErrInvalidCommand)
	}
}

func (h *Handler) hello(ctx context.Context, cmd protocol.Hello) error {
	if h.validated {
		return h.writeError(ctx, protocol.ErrAlreadyValidated)
	}
	// Rejected locally; the directory never sees a malformed name.
	if !protocol.ValidUsername(cmd.Username) {
		return h.writeError(ctx, protocol.ErrInvalidUsername)
	}

	mailbox := NewMailbox(h.directory.capacity)
	resp, err := h.directory.Ask(ctx, Hello{Username: cmd.Username, Mailbox: mailbox})
	if err != nil {
		return err
	}

	if _, ok := resp.(protocol.Welcome); ok {
		h.validated = true
		h.username = cmd.Username
		h.mailbox = mailbox
		h.logger.Info("validated", "username", h.username)
	}
	return h.conn.WriteLine(ctx, resp.Encode())
}

func (h *Handler) message(ctx context.Context, cmd protocol.Message) error {
	if !h.validated {
		return h.writeError(ctx, protocol.ErrNotValidated)
	}

	resp, err := h.directory.Ask(ctx, Message{From: h.username, Body: cmd.Body})
	if err != nil {
		return err
	}
	return h.conn.WriteLine(ctx, resp.Encode())
}

func (h *Handler) private(ctx context.Context, cmd protocol.Private) error {
	if !h.validated {
		return h.writeError(ctx, protocol.ErrNotValidated)
	}

	resp, err := h.directory.Ask(ctx, PrivateMessage{From: h.username, To: cmd.To, Body: cmd.Body})
	if err != nil {
		return err
	}
	return h.conn.WriteLine(ctx, resp.Encode())
}

func (h *Handler) quit(ctx context.Context) (done bool, err error) {
	if !h.validated {
		return false, h.writeError(ctx, protocol.ErrNotValidated)
	}
	h.leave()
	return true, nil
}

// deliver relays one mailbox push onto the socket. Join and Left events
// about the handler's own username are suppressed; the directory fans out
// uniformly and has no reason to special-case the originator.
func (h *Handler) deliver(ctx context.Context, resp protocol.Response) error {
	switch r := resp.(type) {
	case protocol.Join:
		if h.validated && r.Username == h.username {
			return nil
		}
	case protocol.Left:
		if h.validated && r.Username == h.username {
			return nil
		}
	}
	return h.conn.WriteLine(ctx, resp.Encode())
}

// leave submits a best-effort Quit for a terminating validated connection.
// The submission is fire-and-forget and bounded: termination proceeds
// whatever its outcome.
func (h *Handler) leave() {
	if !h.validated {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), quitSubmitTimeout)
	defer cancel()
	if err := h.directory.Submit(ctx, Quit{Username: h.username}); err != nil {
		h.logger.Debug("quit submission dropped", "error", err)
	}
	h.validated = false
}

func (h *Handler) writeError(ctx context.Context, err protocol.Error) error {
	return h.conn.WriteLine(ctx, protocol.ErrorResponse{Err: err}.Encode())
}
