package hotkey

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"kap/pkg/keys"
)

// evdev event types
const (
	EV_KEY = 1
)

// evdev key states
const (
	KEY_RELEASED = 0
	KEY_PRESSED  = 1
	KEY_REPEAT   = 2
)

const inputEventSize = 24 // sizeof(struct input_event) on 64-bit

// InputEvent represents a Linux input event
type InputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

func decodeInputEvent(buf []byte) InputEvent {
	return InputEvent{
		Type:  binary.LittleEndian.Uint16(buf[16:18]),
		Code:  binary.LittleEndian.Uint16(buf[18:20]),
		Value: int32(binary.LittleEndian.Uint32(buf[20:24])),
	}
}

// readEvents feeds key transitions from an evdev stream into m until the
// reader fails. Auto-repeat events are dropped.
func readEvents(r io.Reader, m *Manager) error {
	buf := make([]byte, inputEventSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		event := decodeInputEvent(buf)
		if event.Type != EV_KEY {
			continue
		}

		key := evdevKeys[event.Code]
		if key == keys.KeyNone {
			continue
		}

		switch event.Value {
		case KEY_PRESSED:
			m.UpdateState(key, true)
		case KEY_RELEASED:
			m.UpdateState(key, false)
		}
	}
}

var evdevKeys = map[uint16]keys.Keycode{
	1:  keys.Escape,
	2:  keys.Key1, 3: keys.Key2, 4: keys.Key3, 5: keys.Key4, 6: keys.Key5,
	7: keys.Key6, 8: keys.Key7, 9: keys.Key8, 10: keys.Key9, 11: keys.Key0,
	12: keys.Minus,
	13: keys.Equal,
	14: keys.Backspace,
	15: keys.Tab,
	16: keys.Q, 17: keys.W, 18: keys.E, 19: keys.R, 20: keys.T,
	21: keys.Y, 22: keys.U, 23: keys.I, 24: keys.O, 25: keys.P,
	26: keys.LeftBracket,
	27: keys.RightBracket,
	28: keys.Enter,
	29: keys.LControl,
	30: keys.A, 31: keys.S, 32: keys.D, 33: keys.F, 34: keys.G,
	35: keys.H, 36: keys.J, 37: keys.K, 38: keys.L,
	39: keys.Semicolon,
	40: keys.Apostrophe,
	41: keys.Grave,
	42: keys.LShift,
	43: keys.BackSlash,
	44: keys.Z, 45: keys.X, 46: keys.C, 47: keys.V, 48: keys.B,
	49: keys.N, 50: keys.M,
	51: keys.Comma,
	52: keys.Dot,
	53: keys.Slash,
	54: keys.RShift,
	55: keys.NumpadMultiply,
	56: keys.LAlt,
	57: keys.Space,
	58: keys.CapsLock,
	59: keys.F1, 60: keys.F2, 61: keys.F3, 62: keys.F4, 63: keys.F5,
	64: keys.F6, 65: keys.F7, 66: keys.F8, 67: keys.F9, 68: keys.F10,
	71: keys.Numpad7, 72: keys.Numpad8, 73: keys.Numpad9,
	74: keys.NumpadSubtract,
	75: keys.Numpad4, 76: keys.Numpad5, 77: keys.Numpad6,
	78: keys.NumpadAdd,
	79: keys.Numpad1, 80: keys.Numpad2, 81: keys.Numpad3, 82: keys.Numpad0,
	83: keys.NumpadDecimal,
	87: keys.F11,
	88: keys.F12,
	96:  keys.NumpadEnter,
	97:  keys.RControl,
	98:  keys.NumpadDivide,
	100: keys.RAlt,
	102: keys.Home,
	103: keys.Up,
	104: keys.PageUp,
	105: keys.Left,
	106: keys.Right,
	107: keys.End,
	108: keys.Down,
	109: keys.PageDown,
	110: keys.Insert,
	111: keys.Delete,
	125: keys.Meta,
	126: keys.Meta,
}

// findKeyboardDevice finds the first keyboard device in /dev/input
func findKeyboardDevice(fs afero.Fs) (string, error) {
	// Try to find a keyboard in /dev/input/by-id
	byIdPath := "/dev/input/by-id"
	entries, err := afero.ReadDir(fs, byIdPath)
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasSuffix(name, "-event-kbd") {
				return filepath.Join(byIdPath, name), nil
			}
		}
	}

	// Fallback: check /proc/bus/input/devices
	devicesFile, err := fs.Open("/proc/bus/input/devices")
	if err != nil {
		return "", ErrNoKeyboard
	}
	defer devicesFile.Close()

	scanner := bufio.NewScanner(devicesFile)
	isKeyboard := false

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "N: Name=") {
			name := strings.ToLower(line)
			isKeyboard = strings.Contains(name, "keyboard") || strings.Contains(name, "kbd")
		}

		if strings.HasPrefix(line, "H: Handlers=") && isKeyboard {
			for _, part := range strings.Fields(line) {
				if strings.HasPrefix(part, "event") {
					return "/dev/input/" + part, nil
				}
			}
		}

		if line == "" {
			isKeyboard = false
		}
	}

	return "", ErrNoKeyboard
}
