package crypt

import "errors"

var (
	// ErrNotEncrypted is returned when data does not carry the envelope marker.
	ErrNotEncrypted = errors.New("content is not encrypted")
	// ErrDecryption is returned when an envelope cannot be decoded or authenticated.
	ErrDecryption = errors.New("decryption failed")
	// ErrPlaintextRejected is returned when policy forbids adopting plaintext files.
	ErrPlaintextRejected = errors.New("plaintext diary file rejected by policy")
)
