package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	dirPermissions  = 0o700
	filePermissions = 0o600

	// DayLayout is the date layout used for diary file names.
	DayLayout = "2006-01-02"
	// Extension is appended to every diary file name.
	Extension = ".txt"
)

// Manager centralizes where diary files live on disk and how they are named.
type Manager struct {
	basePath string
	now      func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ~/diary (or another location determined by
// ResolveBasePath). A leading ~ is expanded.
func NewManager(basePath string, opts ...Option) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	basePath, err = ExpandHome(basePath)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	m := &Manager{basePath: abs, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// BasePath returns the root directory storing all diary files.
func (m *Manager) BasePath() string {
	return m.basePath
}

// Today returns midnight of the current local date.
func (m *Manager) Today() time.Time {
	now := m.now().In(time.Local)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Now returns the manager's notion of the current time.
func (m *Manager) Now() time.Time {
	return m.now()
}

// DateForOffset returns the local date offset days before today.
func (m *Manager) DateForOffset(offset int) time.Time {
	return m.Today().AddDate(0, 0, -offset)
}

// DayPath resolves the absolute path to the diary file for the supplied date.
// The file may not exist yet; callers can choose to create it.
func (m *Manager) DayPath(t time.Time) string {
	return filepath.Join(m.basePath, t.Format(DayLayout)+Extension)
}

// PathForOffset resolves the diary file for today minus offset days.
func (m *Manager) PathForOffset(offset int) string {
	return m.DayPath(m.DateForOffset(offset))
}

// Exists reports whether the diary file for t is present.
func (m *Manager) Exists(t time.Time) (bool, error) {
	_, err := os.Stat(m.DayPath(t))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// EnsureBase creates the diary directory if needed.
func (m *Manager) EnsureBase() error {
	if m == nil {
		return errors.New("files.Manager is nil")
	}
	if err := os.MkdirAll(m.basePath, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	return nil
}

// EnsureDayFile guarantees the directory exists and the diary file for t is
// present, creating it empty when absent. It returns the absolute path.
func (m *Manager) EnsureDayFile(t time.Time) (string, error) {
	if err := m.EnsureBase(); err != nil {
		return "", err
	}

	path := m.DayPath(t)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePermissions)
	if err != nil {
		return "", fmt.Errorf("open day file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close day file: %w", err)
	}
	return path, nil
}

// OpenAppend opens the diary file for t in append mode, creating it and the
// base directory if necessary.
func (m *Manager) OpenAppend(t time.Time) (*os.File, error) {
	if err := m.EnsureBase(); err != nil {
		return nil, err
	}
	return os.OpenFile(m.DayPath(t), os.O_RDWR|os.O_APPEND|os.O_CREATE, filePermissions)
}
