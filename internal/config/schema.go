package config

// Config is the immutable per-process diary configuration.
type Config struct {
	// Key is either base64 for 32 raw bytes or a passphrase. Empty disables encryption.
	Key             string   `json:"key" mapstructure:"key"`
	EditorPath      string   `json:"editor_path" mapstructure:"editor_path"`
	EditorArgs      []string `json:"editor_args" mapstructure:"editor_args"`
	TimestampFormat string   `json:"timestamp_format" mapstructure:"timestamp_format"`
	DiaryBase       string   `json:"diary_base" mapstructure:"diary_base"`

	// PlaintextPolicy decides what happens to unmarked content found where
	// ciphertext was expected.
	PlaintextPolicy PlaintextPolicy `json:"plaintext_policy,omitempty" mapstructure:"plaintext_policy"`
}

// PlaintextPolicy names how unencrypted diary files are treated.
type PlaintextPolicy string

const (
	// PlaintextAccept treats unmarked files as plaintext and encrypts them on release.
	PlaintextAccept PlaintextPolicy = "accept"
	// PlaintextReject refuses to touch unmarked files.
	PlaintextReject PlaintextPolicy = "reject"
)

// RequiredKeys lists the document keys that must be present.
var RequiredKeys = []string{
	"key",
	"editor_path",
	"editor_args",
	"timestamp_format",
	"diary_base",
}

// EncryptionEnabled reports whether diary files are encrypted at rest.
func (c Config) EncryptionEnabled() bool {
	return c.Key != ""
}
