package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Response is a server-to-client event. It is either the direct answer to a
// submitted command or an asynchronous push (chat, join, leave).
type Response interface {
	// Encode renders the response as a wire line (without trailing newline).
	Encode() string
}

// Welcome acknowledges a successful registration.
type Welcome struct {
	Username  string
	UserCount int
}

// Success acknowledges a command that has no other payload.
type Success struct{}

// ErrorResponse reports a protocol or business-rule violation.
type ErrorResponse struct {
	Err Error
}

// Chat carries a broadcast or private message from another user.
type Chat struct {
	From    string
	Body    string
	Private bool
}

// Join announces that a user has registered.
type Join struct {
	Username string
}

// Left announces that a user has quit.
type Left struct {
	Username string
}

// Encode implements Response.
func (r Welcome) Encode() string {
	return fmt.Sprintf("WELCOME | %s | %d", r.Username, r.UserCount)
}

// Encode implements Response.
func (r Success) Encode() string { return "OK | Success" }

// Encode implements Response.
func (r ErrorResponse) Encode() string { return r.Err.encode() }

// Encode implements Response.
func (r Chat) Encode() string {
	verb := "CHAT"
	if r.Private {
		verb = "PRIVATE"
	}
	return fmt.Sprintf("%s | %s | %s", verb, r.From, r.Body)
}

// Encode implements Response.
func (r Join) Encode() string { return "JOIN | " + r.Username }

// Encode implements Response.
func (r Left) Encode() string { return "LEFT | " + r.Username }

// ParseResponse decodes one server output line into a Response. It is the
// client-side counterpart of Encode and is used by the interactive client
// and by tests.
func ParseResponse(line string) (Response, error) {
	fields := strings.Split(strings.TrimSpace(line), "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	switch fields[0] {
	case "WELCOME":
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed WELCOME line: %q", line)
		}
		count, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("malformed user count in %q: %w", line, err)
		}
		return Welcome{Username: fields[1], UserCount: count}, nil
	case "OK":
		return Success{}, nil
	case "ERROR":
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed ERROR line: %q", line)
		}
		code, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("malformed error code in %q: %w", line, err)
		}
		return ErrorResponse{Err: Error(code)}, nil
	case "CHAT", "PRIVATE":
		if len(fields) < 3 {
			return nil, fmt.Errorf("malformed %s line: %q", fields[0], line)
		}
		// The body may itself contain pipes; rejoin everything after the
		// sender field.
		body := strings.Join(fields[2:], " | ")
		return Chat{From: fields[1], Body: body, Private: fields[0] == "PRIVATE"}, nil
	case "JOIN":
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed JOIN line: %q", line)
		}
		return Join{Username: fields[1]}, nil
	case "LEFT":
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed LEFT line: %q", line)
		}
		return Left{Username: fields[1]}, nil
	default:
		return nil, fmt.Errorf("unknown server line: %q", line)
	}
}
