package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lestrrat-go/strftime"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix scopes environment overrides, e.g. DIARY_EDITOR_PATH.
	EnvPrefix = "DIARY"

	filePermissions = 0o600
	dirPermissions  = 0o700
)

// Load reads the JSON document at path (or DefaultPath when empty), applies
// DIARY_* environment overrides and validates it.
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Config{}, err
		}
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Config{}, fmt.Errorf("stat config: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
	}

	var missing []string
	for _, key := range RequiredKeys {
		if !v.IsSet(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode %s: %v", ErrInvalid, path, err)
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.EditorArgs == nil {
		c.EditorArgs = []string{}
	}

	switch c.PlaintextPolicy {
	case "":
		c.PlaintextPolicy = PlaintextAccept
	case PlaintextAccept, PlaintextReject:
	default:
		return fmt.Errorf("%w: plaintext_policy %q (expected accept|reject)", ErrInvalid, c.PlaintextPolicy)
	}

	if strings.TrimSpace(c.EditorPath) == "" {
		return fmt.Errorf("%w: editor_path is empty", ErrInvalid)
	}
	if strings.TrimSpace(c.DiaryBase) == "" {
		return fmt.Errorf("%w: diary_base is empty", ErrInvalid)
	}
	if _, err := strftime.New(c.TimestampFormat); err != nil {
		return fmt.Errorf("%w: timestamp_format %q: %v", ErrInvalid, c.TimestampFormat, err)
	}
	return nil
}

// Write stores cfg as indented JSON readable only by the owner. An existing
// file is replaced only when force is set.
func Write(path string, cfg Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	if cfg.EditorArgs == nil {
		cfg.EditorArgs = []string{}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	// WriteFile keeps the mode of a file that already existed.
	if err := os.Chmod(path, filePermissions); err != nil {
		return fmt.Errorf("chmod config: %w", err)
	}
	return nil
}
