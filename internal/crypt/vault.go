package crypt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Vault decrypts and re-encrypts whole diary files in place. A nil cipher
// turns every operation into a no-op.
type Vault struct {
	cipher          *Cipher
	rejectPlaintext bool
	logger          *log.Logger
}

// NewVault wires a vault. rejectPlaintext mirrors the plaintext_policy setting.
func NewVault(cipher *Cipher, rejectPlaintext bool, logger *log.Logger) *Vault {
	if logger == nil {
		logger = log.Default()
	}
	return &Vault{cipher: cipher, rejectPlaintext: rejectPlaintext, logger: logger}
}

// Enabled reports whether files are encrypted at rest.
func (v *Vault) Enabled() bool {
	return v != nil && v.cipher != nil
}

// DecryptFile replaces an encrypted diary file with its plaintext. I/O errors
// are logged and leave the file untouched.
func (v *Vault) DecryptFile(path string) error {
	if !v.Enabled() {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		v.logger.Warn("could not read diary file for decryption", "file", path, "err", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	plaintext, err := v.cipher.Decrypt(data)
	switch {
	case errors.Is(err, ErrNotEncrypted):
		if v.rejectPlaintext {
			return fmt.Errorf("%w: %s", ErrPlaintextRejected, path)
		}
		v.logger.Debug("diary file is plaintext", "file", filepath.Base(path))
		return nil
	case err != nil:
		return fmt.Errorf("decrypt %s: %w", path, err)
	}

	if err := writeFileAtomic(path, plaintext); err != nil {
		v.logger.Warn("could not write decrypted diary file", "file", path, "err", err)
		return nil
	}
	v.logger.Debug("decrypted diary file", "file", filepath.Base(path))
	return nil
}

// EncryptFile seals a plaintext diary file in place. Files that are empty or
// already sealed are left alone; I/O errors are logged and swallowed.
func (v *Vault) EncryptFile(path string) error {
	if !v.Enabled() {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		v.logger.Warn("could not read diary file for encryption", "file", path, "err", err)
		return nil
	}
	if len(data) == 0 || IsEncrypted(data) {
		return nil
	}

	sealed, err := v.cipher.Encrypt(data)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", path, err)
	}
	if err := writeFileAtomic(path, sealed); err != nil {
		v.logger.Warn("could not write encrypted diary file", "file", path, "err", err)
		return nil
	}
	v.logger.Debug("encrypted diary file", "file", filepath.Base(path))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".diary-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err == nil {
		if err := os.Chmod(temp.Name(), info.Mode()); err != nil {
			return err
		}
	}

	return os.Rename(temp.Name(), path)
}
