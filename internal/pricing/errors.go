package pricing

import (
	"errors"
	"fmt"
)

type Code int

const (
	CodeInvalidArgument Code = iota
)

const (
	ErrMsgNegativePrice = "price must not be negative"
	ErrMsgInvalidMarkup = "markup percentage must be a finite number"
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	default:
		return "UNKNOWN"
	}
}

// Error is returned for arguments the engine refuses to price.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Code.String() + ": " + e.Message
}

func NewInvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

func NewInvalidArgumentf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// IsInvalidArgument reports whether err (or anything it wraps) is an InvalidArgument pricing error.
func IsInvalidArgument(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == CodeInvalidArgument
}
