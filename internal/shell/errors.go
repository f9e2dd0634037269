package shell

import "errors"

var (
	// ErrUnknownCommand is returned by Parse for input that names no command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBadArgument is returned by Parse when a command's argument is invalid.
	ErrBadArgument = errors.New("invalid argument")
)
