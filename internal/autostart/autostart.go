// Package autostart registers "kap serve" to start on login.
package autostart

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/spf13/afero"
)

// ErrUnsupportedPlatform is returned where no login item mechanism is known.
var ErrUnsupportedPlatform = errors.New("autostart: unsupported platform")

// Label names the login item on every platform.
const Label = "com.kap.agent"

const macLaunchAgentPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.Exec}}</string>
{{- range .Args}}
        <string>{{.}}</string>
{{- end}}
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>
`

const xdgDesktopEntry = `[Desktop Entry]
Type=Application
Name=kap
Comment=Keyboard trigger sequences
Exec={{.Command}}
X-GNOME-Autostart-enabled=true
NoDisplay=true
`

var (
	plistTmpl   = template.Must(template.New("plist").Parse(macLaunchAgentPlist))
	desktopTmpl = template.Must(template.New("desktop").Parse(xdgDesktopEntry))
)

// Manager installs or removes the login item for one command line.
type Manager struct {
	fs   afero.Fs
	goos string
	home string
	exec string
	args []string

	// xdgConfig overrides ~/.config on Linux
	xdgConfig string
}

// New creates a manager that starts the running executable with args.
func New(args ...string) (*Manager, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	m := NewWithFs(afero.NewOsFs(), runtime.GOOS, home, execPath, args...)
	m.xdgConfig = os.Getenv("XDG_CONFIG_HOME")
	return m, nil
}

// NewWithFs creates a manager for goos that writes below home on fs.
func NewWithFs(fs afero.Fs, goos, home, execPath string, args ...string) *Manager {
	return &Manager{
		fs:   fs,
		goos: goos,
		home: home,
		exec: execPath,
		args: append([]string(nil), args...),
	}
}

// Path returns the file that holds the login item. It is empty on
// Windows, where the item lives in the registry.
func (m *Manager) Path() string {
	switch m.goos {
	case "darwin":
		return filepath.Join(m.home, "Library", "LaunchAgents", Label+".plist")
	case "windows":
		return ""
	default:
		config := m.xdgConfig
		if config == "" {
			config = filepath.Join(m.home, ".config")
		}
		return filepath.Join(config, "autostart", "kap.desktop")
	}
}

// Command returns the command line the login item runs.
func (m *Manager) Command() string {
	parts := make([]string, 0, len(m.args)+1)
	parts = append(parts, quote(m.exec))
	for _, a := range m.args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"'") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

// Enable enables auto-start on login
func (m *Manager) Enable() error {
	if m.goos == "windows" {
		return enableWindows(m.Command())
	}

	var buf bytes.Buffer
	data := struct {
		Label   string
		Exec    string
		Args    []string
		Command string
	}{Label, m.exec, m.args, m.Command()}

	tmpl := desktopTmpl
	if m.goos == "darwin" {
		tmpl = plistTmpl
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}

	path := m.Path()
	if err := m.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(m.fs, path, buf.Bytes(), 0644)
}

// Disable disables auto-start on login
func (m *Manager) Disable() error {
	if m.goos == "windows" {
		return disableWindows()
	}
	if err := m.fs.Remove(m.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// IsEnabled checks if auto-start is enabled
func (m *Manager) IsEnabled() bool {
	if m.goos == "windows" {
		return isEnabledWindows()
	}
	_, err := m.fs.Stat(m.Path())
	return err == nil
}
