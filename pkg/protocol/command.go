// Package protocol implements the pipe-delimited line protocol spoken
// between chat clients and the relay server.
package protocol

import (
	"fmt"
	"strings"
)

// Command is a client-to-server request decoded from one input line.
type Command interface {
	// Encode renders the command as a wire line (without trailing newline).
	Encode() string
}

// Hello registers a display name for the connection.
type Hello struct {
	Username string
}

// Message broadcasts a chat body to every other connected user.
type Message struct {
	Body string
}

// Private sends a chat body to a single target user.
type Private struct {
	To   string
	Body string
}

// Quit leaves the chat and closes the connection.
type Quit struct{}

// Encode implements Command.
func (c Hello) Encode() string { return "HELLO | " + c.Username }

// Encode implements Command.
func (c Message) Encode() string { return "MESSAGE | " + c.Body }

// Encode implements Command.
func (c Private) Encode() string {
	return fmt.Sprintf("PRIVATE | %s | %s", c.To, c.Body)
}

// Encode implements Command.
func (c Quit) Encode() string { return "QUIT |" }

// ParseCommand decodes one client input line into a Command.
//
// The line grammar is `VERB | args...`, trimmed of surrounding whitespace.
// A line without a pipe separator yields ErrInvalidFormat; an unrecognized
// verb yields ErrInvalidCommand. Verbs are case-sensitive.
func ParseCommand(line string) (Command, error) {
	verb, payload, found := strings.Cut(strings.TrimSpace(line), "|")
	if !found {
		return nil, ErrInvalidFormat
	}
	verb = strings.TrimSpace(verb)
	payload = strings.TrimSpace(payload)

	switch verb {
	case "HELLO":
		return Hello{Username: payload}, nil
	case "MESSAGE":
		return Message{Body: payload}, nil
	case "PRIVATE":
		// The payload must itself split into target and body.
		to, body, found := strings.Cut(payload, "|")
		if !found {
			return nil, ErrInvalidFormat
		}
		return Private{To: strings.TrimSpace(to), Body: strings.TrimSpace(body)}, nil
	case "QUIT":
		return Quit{}, nil
	default:
		return nil, ErrInvalidCommand
	}
}

// ValidUsername reports whether name is acceptable for registration:
// non-empty and every character ASCII-alphabetic.
func ValidUsername(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
