package protocol

import "fmt"

// Error is a protocol-level failure with a fixed two-digit wire code.
// The codes and messages are part of the wire contract and must not change.
type Error uint

const (
	ErrInvalidFormat Error = iota + 1 // 01
	ErrInvalidCommand                 // 02
	ErrInvalidUsername                // 03
	ErrAlreadyValidated               // 04
	ErrUserExists                     // 05
	ErrUserDoesntExist                // 06
	ErrNotValidated                   // 07
	ErrMessageYourself                // 08
)

// Code returns the numeric wire code.
func (e Error) Code() int {
	return int(e)
}

// Error implements the error interface with the fixed wire message.
func (e Error) Error() string {
	switch e {
	case ErrInvalidFormat:
		return "Please follow protocol."
	case ErrInvalidCommand:
		return "Invalid command."
	case ErrInvalidUsername:
		return "Invalid username."
	case ErrAlreadyValidated:
		return "You are already validated."
	case ErrUserExists:
		return "User already exists."
	case ErrUserDoesntExist:
		return "Use doesn't exists."
	case ErrNotValidated:
		return "Please validate yourself."
	case ErrMessageYourself:
		return "You cannot messege to yourself."
	default:
		return "Unknown error."
	}
}

// encode renders the server-to-client error line.
func (e Error) encode() string {
	return fmt.Sprintf("ERROR | %02d | %s", e.Code(), e.Error())
}
