// Package settings persists archived cvar values between sessions.
//
// Values live in two JSON files: a global one under the user's data
// directory and an optional project one under ./.devconsole. Project values
// override global ones. Writes always go to the global file and are
// serialized across processes with a file lock.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"

	"github.com/quocvuong92/devconsole/internal/constants"
)

const (
	// SettingsFile is the name of the settings file
	SettingsFile = "settings.json"
)

// Settings is the on-disk document
type Settings struct {
	Cvars map[string]string `json:"cvars"`
}

// DefaultSettings returns an empty document
func DefaultSettings() *Settings {
	return &Settings{Cvars: make(map[string]string)}
}

// Manager handles loading, saving, and merging settings from multiple sources
type Manager struct {
	mu          sync.RWMutex
	global      *Settings // $XDG_DATA_HOME/devconsole/settings.json
	project     *Settings // ./.devconsole/settings.json
	dirty       map[string]bool
	globalPath  string
	projectPath string
}

// NewManager creates a new settings manager
func NewManager() *Manager {
	return &Manager{
		global: DefaultSettings(),
		dirty:  make(map[string]bool),
	}
}

// Load loads settings from all sources
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	globalPath, err := globalSettingsPath()
	if err != nil {
		return err
	}
	m.globalPath = globalPath

	global, err := loadFromFile(globalPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if global != nil {
		m.global = global
	} else {
		m.global = DefaultSettings()
	}

	// A broken project file is ignored rather than blocking startup.
	if projectPath, err := projectSettingsPath(); err == nil {
		m.projectPath = projectPath
		project, err := loadFromFile(projectPath)
		if err != nil {
			m.project = nil
		} else {
			m.project = project
		}
	}

	return nil
}

// globalSettingsPath returns the path to global settings file
func globalSettingsPath() (string, error) {
	// Use XDG_DATA_HOME or default to ~/.local/share
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, constants.AppName, SettingsFile), nil
}

// projectSettingsPath returns the path to project settings file
func projectSettingsPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	return filepath.Join(cwd, constants.ProjectDir, SettingsFile), nil
}

func loadFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	if s.Cvars == nil {
		s.Cvars = make(map[string]string)
	}
	return &s, nil
}

// Values returns the effective values; project entries override global ones.
func (m *Manager) Values() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	merged := make(map[string]string, len(m.global.Cvars))
	for k, v := range m.global.Cvars {
		merged[k] = v
	}
	if m.project != nil {
		for k, v := range m.project.Cvars {
			merged[k] = v
		}
	}
	return merged
}

// Get returns the effective value of name.
func (m *Manager) Get(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.project != nil {
		if v, ok := m.project.Cvars[name]; ok {
			return v, true
		}
	}
	v, ok := m.global.Cvars[name]
	return v, ok
}

// Names returns the names with a stored value, sorted.
func (m *Manager) Names() []string {
	values := m.Values()
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Set records a global value in memory. Call Save to write it.
func (m *Manager) Set(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.global.Cvars[name] = value
	m.dirty[name] = true
}

// Persist sets and saves a single value.
func (m *Manager) Persist(name, value string) error {
	m.Set(name, value)
	return m.Save()
}

// Save writes pending changes to the global settings file. The file is
// re-read under an inter-process lock so values written by other sessions
// in the meantime are kept.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.globalPath == "" {
		path, err := globalSettingsPath()
		if err != nil {
			return err
		}
		m.globalPath = path
	}

	if err := os.MkdirAll(filepath.Dir(m.globalPath), 0755); err != nil {
		return err
	}

	lock := flock.New(m.globalPath + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultLockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, constants.LockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock settings file: %w", err)
	}
	if !locked {
		return fmt.Errorf("settings file %s is locked by another process", m.globalPath)
	}
	defer lock.Unlock()

	onDisk, err := loadFromFile(m.globalPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		onDisk = DefaultSettings()
	}
	for name := range m.dirty {
		onDisk.Cvars[name] = m.global.Cvars[name]
	}

	if err := writeFileAtomic(m.globalPath, onDisk); err != nil {
		return err
	}

	m.global = onDisk
	m.dirty = make(map[string]bool)
	return nil
}

// writeFileAtomic writes through a temp file and rename so readers never
// see a partial document.
func writeFileAtomic(path string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), SettingsFile+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// GetGlobalPath returns the path to the global settings file
func (m *Manager) GetGlobalPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.globalPath
}

// GetProjectPath returns the path to the project settings file
func (m *Manager) GetProjectPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.projectPath
}
