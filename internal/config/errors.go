package config

import "errors"

var (
	// ErrNotFound is returned when the configuration file does not exist.
	ErrNotFound = errors.New("configuration file not found")
	// ErrInvalid is returned when the document cannot be parsed or holds bad values.
	ErrInvalid = errors.New("invalid configuration")
	// ErrMissingField is returned when a required key is absent.
	ErrMissingField = errors.New("missing required configuration field")
	// ErrExists is returned by Write when the target exists and force is off.
	ErrExists = errors.New("configuration file already exists")
)
