// Package crypt implements the diary cipher suite and the whole-file
// encrypt/decrypt operations wrapped around every diary access.
package crypt

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Marker prefixes every encrypted diary file.
const Marker = "diary:v1:"

const (
	saltSize = 16
	keySize  = chacha20poly1305.KeySize

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// Cipher seals and opens diary contents with XChaCha20-Poly1305. A Cipher is
// built once from configuration and shared by every component.
type Cipher struct {
	secret     *memguard.Enclave
	passphrase bool
}

// NewCipher builds a cipher from the configured key. A key that decodes from
// base64 to exactly 32 bytes is used directly; anything else is treated as a
// passphrase and stretched with argon2id using the per-file salt.
func NewCipher(key string) (*Cipher, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("cipher key is empty")
	}

	if raw, ok := decodeRawKey(key); ok {
		return &Cipher{secret: memguard.NewEnclave(raw)}, nil
	}
	return &Cipher{secret: memguard.NewEnclave([]byte(key)), passphrase: true}, nil
}

// Passphrase reports whether the key is stretched per file.
func (c *Cipher) Passphrase() bool {
	return c.passphrase
}

// IsEncrypted reports whether data carries the envelope marker.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Marker))
}

// Encrypt seals plaintext into a single-line text envelope.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	var sealed []byte
	err := c.withAEAD(salt, func(aead aeadSealer) {
		sealed = aead.Seal(nil, nonce, plaintext, []byte(Marker))
	})
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, sealed...)

	out := make([]byte, 0, len(Marker)+base64.RawURLEncoding.EncodedLen(len(payload))+1)
	out = append(out, Marker...)
	out = base64.RawURLEncoding.AppendEncode(out, payload)
	out = append(out, '\n')
	return out, nil
}

// Decrypt opens an envelope produced by Encrypt. Data without the marker
// returns ErrNotEncrypted; a damaged or foreign envelope returns ErrDecryption.
func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if !IsEncrypted(data) {
		return nil, ErrNotEncrypted
	}

	body := bytes.TrimSpace(data[len(Marker):])
	payload := make([]byte, base64.RawURLEncoding.DecodedLen(len(body)))
	n, err := base64.RawURLEncoding.Decode(payload, body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", ErrDecryption, err)
	}
	payload = payload[:n]
	if len(payload) < saltSize+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: envelope too short", ErrDecryption)
	}

	salt := payload[:saltSize]
	nonce := payload[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	sealed := payload[saltSize+chacha20poly1305.NonceSizeX:]

	var (
		plaintext []byte
		openErr   error
	)
	err = c.withAEAD(salt, func(aead aeadSealer) {
		plaintext, openErr = aead.Open(nil, nonce, sealed, []byte(Marker))
	})
	if err != nil {
		return nil, err
	}
	if openErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryption, openErr)
	}
	return plaintext, nil
}

type aeadSealer interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

// withAEAD unseals the key just long enough to run fn.
func (c *Cipher) withAEAD(salt []byte, fn func(aeadSealer)) error {
	buf, err := c.secret.Open()
	if err != nil {
		return fmt.Errorf("open key enclave: %w", err)
	}
	defer buf.Destroy()

	key := buf.Bytes()
	if c.passphrase {
		key = argon2.IDKey(buf.Bytes(), salt, argonTime, argonMemory, argonThreads, keySize)
		defer wipe(key)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("create cipher: %w", err)
	}
	fn(aead)
	return nil
}

func decodeRawKey(key string) ([]byte, bool) {
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	}
	for _, enc := range encodings {
		raw, err := enc.DecodeString(key)
		if err == nil && len(raw) == keySize {
			return raw, true
		}
	}
	return nil, false
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
