//go:build linux

package hotkey

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/spf13/afero"
)

var (
	deviceMu sync.Mutex
	device   *os.File
)

func (m *Manager) startPlatform() error {
	m.mu.RLock()
	devicePath := m.device
	m.mu.RUnlock()

	if devicePath == "" {
		var err error
		devicePath, err = findKeyboardDevice(afero.NewOsFs())
		if err != nil {
			return err
		}
	}

	f, err := os.Open(devicePath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v (try running as root or add user to 'input' group)", ErrHookFailed, devicePath, err)
	}

	deviceMu.Lock()
	device = f
	deviceMu.Unlock()

	log.Printf("Hotkey Engine: reading keyboard events from %s", devicePath)

	go func() {
		defer f.Close()
		if err := readEvents(f, m); err != nil && !errors.Is(err, os.ErrClosed) {
			log.Printf("Hotkey Engine: evdev read failed: %v", err)
		}
		m.Reset()
	}()

	return nil
}

func (m *Manager) stopPlatform() error {
	deviceMu.Lock()
	f := device
	device = nil
	deviceMu.Unlock()

	if f == nil {
		return nil
	}
	return f.Close()
}
