// Package config provides configuration management for kap.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// Keyboard sources
const (
	SourceGlobal   = "global"
	SourceTerminal = "terminal"
)

// Config represents the application configuration
type Config struct {
	// General contains general application settings
	General GeneralConfig `json:"general" toml:"general"`

	// Sequences contains the declarative key sequences
	Sequences []Sequence `json:"sequences" toml:"sequences"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	// TickInterval is the key polling interval (default: 10ms)
	TickInterval Duration `json:"tick_interval" toml:"tick_interval"`

	// Source selects the keyboard: "global" (OS hooks) or "terminal"
	Source string `json:"source" toml:"source"`

	// Device is the evdev device to read on Linux; empty autodetects
	Device string `json:"device,omitempty" toml:"device,omitempty"`

	// APIEnabled enables the HTTP outcome feed
	APIEnabled bool `json:"api_enabled" toml:"api_enabled"`

	// APIPort is the port for the API server (default: 18080)
	APIPort int `json:"api_port" toml:"api_port"`

	// APIToken is an optional authentication token for API requests
	APIToken string `json:"api_token,omitempty" toml:"api_token,omitempty"`
}

// Sequence is a named chain of steps
type Sequence struct {
	// Name identifies the sequence (e.g. "hotkey")
	Name string `json:"name" toml:"name"`

	// Enabled sequences are started by "kap serve"
	Enabled bool `json:"enabled" toml:"enabled"`

	// Loop restarts the chain after it finishes
	Loop bool `json:"loop" toml:"loop"`

	// Steps run in order
	Steps []Step `json:"steps" toml:"steps"`
}

// Step ops
const (
	OpUntil   = "until"
	OpAny     = "any"
	OpWithin  = "within"
	OpAfter   = "after"
	OpSleep   = "sleep"
	OpSuccess = "success"
	OpFailure = "failure"
	OpFinally = "finally"
)

// Step is one link of a sequence
type Step struct {
	// Op is one of until, any, within, after, sleep, success, failure, finally
	Op string `json:"op" toml:"op"`

	// Keys are trigger strings, e.g. "Ctrl+Shift+A" or "@Number|Alphabet"
	Keys []string `json:"keys,omitempty" toml:"keys,omitempty"`

	// Timeout for within, after and sleep
	Timeout Duration `json:"timeout,omitempty" toml:"timeout,omitempty"`

	// Repeat is the number of matching presses for until and after
	Repeat int `json:"repeat,omitempty" toml:"repeat,omitempty"`

	// MaxRepeat caps presses collected by within (default 1)
	MaxRepeat int `json:"max_repeat,omitempty" toml:"max_repeat,omitempty"`

	// Debounce restarts the within deadline after each press
	Debounce bool `json:"debounce,omitempty" toml:"debounce,omitempty"`

	// Message is printed by success, failure and finally.
	// {last} and {record} expand to the last and all recorded snapshots.
	Message string `json:"message,omitempty" toml:"message,omitempty"`

	// Clear empties the console before printing
	Clear bool `json:"clear,omitempty" toml:"clear,omitempty"`
}

// Duration is a time.Duration stored as a string such as "1.5s".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			TickInterval: Duration{10 * time.Millisecond},
			Source:       SourceGlobal,
			APIEnabled:   false,
			APIPort:      18080,
		},
		Sequences: []Sequence{
			{
				Name:    "hotkey",
				Enabled: true,
				Loop:    true,
				Steps: []Step{
					{Op: OpUntil, Keys: []string{"Meta+Shift+A", "Ctrl+Shift+A"}},
					{Op: OpWithin, Keys: []string{"Escape"}, Timeout: Duration{time.Second}},
					{Op: OpSuccess, Message: "Hotkey pressed: {last}"},
					{Op: OpFailure, Message: "Escape was not pressed in time"},
				},
			},
			{
				Name:    "digits",
				Enabled: false,
				Loop:    true,
				Steps: []Step{
					{Op: OpUntil, Keys: []string{"@Number"}},
					{Op: OpWithin, Keys: []string{"@Number"}, Timeout: Duration{time.Second}, MaxRepeat: 10, Debounce: true},
					{Op: OpFinally, Message: "Digits: {record}", Clear: true},
				},
			},
		},
	}
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	fs         afero.Fs
	configPath string
	config     *Config
	onChanged  func()
}

// NewManager creates a configuration manager for the per-user config file.
func NewManager() (*Manager, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewManagerWithPath(afero.NewOsFs(), configPath), nil
}

// NewManagerWithPath creates a manager for path on fs. The format follows
// the extension: .toml for TOML, .json for JSON.
func NewManagerWithPath(fs afero.Fs, path string) *Manager {
	return &Manager{
		fs:         fs,
		configPath: path,
		config:     DefaultConfig(),
	}
}

// DefaultPath returns the path to the per-user configuration file
func DefaultPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "kap")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "kap")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "kap")
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Path returns the configuration file path
func (m *Manager) Path() string {
	return m.configPath
}

func (m *Manager) isTOML() bool {
	return strings.EqualFold(filepath.Ext(m.configPath), ".toml")
}

func (m *Manager) decode(data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(m.configPath)); ext {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".json", "":
		return json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func (m *Manager) encode(cfg *Config) ([]byte, error) {
	if m.isTOML() {
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// Load reads the configuration from disk. A missing file keeps the
// defaults. An invalid file leaves the current configuration untouched.
func (m *Manager) Load() error {
	m.mu.Lock()

	data, err := afero.ReadFile(m.fs, m.configPath)
	if errors.Is(err, os.ErrNotExist) {
		// No config file, use defaults
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		m.mu.Unlock()
		return err
	}

	cfg := DefaultConfig()
	cfg.Sequences = nil
	if err := m.decode(data, cfg); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("parse %s: %w", m.configPath, err)
	}
	if err := Validate(cfg); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("validate %s: %w", m.configPath, err)
	}
	m.config = cfg
	onChanged := m.onChanged
	m.mu.Unlock()

	if onChanged != nil {
		onChanged()
	}
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.encode(m.config)
	if err != nil {
		return err
	}

	if err := m.fs.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return err
	}

	log.Printf("Config: Saving configuration to %s (%d bytes)", m.configPath, len(data))
	return afero.WriteFile(m.fs, m.configPath, data, 0644)
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Set validates and replaces the configuration
func (m *Manager) Set(config *Config) error {
	if err := Validate(config); err != nil {
		return err
	}
	m.mu.Lock()
	m.config = config
	onChanged := m.onChanged
	m.mu.Unlock()
	if onChanged != nil {
		onChanged()
	}
	return nil
}

// RegisterChangeCallback registers a function to be called when config changes
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}

// GetSequence returns a copy of the sequence with the given name
func (m *Manager) GetSequence(name string) (Sequence, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, seq := range m.config.Sequences {
		if seq.Name == name {
			return seq, true
		}
	}
	return Sequence{}, false
}

// SetSequence updates or adds a sequence
func (m *Manager) SetSequence(seq Sequence) error {
	if err := validateSequence(seq); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.config.Sequences {
		if m.config.Sequences[i].Name == seq.Name {
			m.config.Sequences[i] = seq
			return nil
		}
	}
	// Not found, add new
	m.config.Sequences = append(m.config.Sequences, seq)
	return nil
}

// SetSequenceEnabled toggles a sequence and reports whether it exists
func (m *Manager) SetSequenceEnabled(name string, enabled bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.config.Sequences {
		if m.config.Sequences[i].Name == name {
			m.config.Sequences[i].Enabled = enabled
			return true
		}
	}
	return false
}

// DeleteSequence removes a sequence by name
func (m *Manager) DeleteSequence(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.config.Sequences {
		if m.config.Sequences[i].Name == name {
			m.config.Sequences = append(m.config.Sequences[:i], m.config.Sequences[i+1:]...)
			return
		}
	}
}
