package session

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a command failure. Every kind is shown to the user the
// same way; the kind only matters for metrics and tests.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindWrongType
	KindAlreadyExists
	KindUsage
	KindUnknownCommand
	KindInternal
)

var kindNames = map[ErrorKind]string{
	KindNone:           "ok",
	KindNotFound:       "not_found",
	KindWrongType:      "wrong_type",
	KindAlreadyExists:  "already_exists",
	KindUsage:          "usage",
	KindUnknownCommand: "unknown_command",
	KindInternal:       "internal",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the recoverable failure a handler returns. Message is the text
// after the "<command>: " prefix.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Errorf(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(name string) error {
	return Errorf(KindNotFound, "%s: No such file or directory", name)
}

func IsADirectory(name string) error {
	return Errorf(KindWrongType, "%s: Is a directory", name)
}

func FileExists(name string) error {
	return Errorf(KindAlreadyExists, "%s: File exists", name)
}

func Usage(usage string) error {
	return Errorf(KindUsage, "invalid arguments. usage: %s", usage)
}

// KindOf reports the kind of err: KindNone for nil, the carried kind for an
// *Error and KindInternal for anything else.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
