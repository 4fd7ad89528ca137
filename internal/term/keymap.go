package term

import (
	"github.com/gdamore/tcell/v2"

	"kap/pkg/keys"
)

var specialKeys = map[tcell.Key]keys.Keycode{
	tcell.KeyDelete: keys.Delete,
	tcell.KeyInsert: keys.Insert,
	tcell.KeyHome:   keys.Home,
	tcell.KeyEnd:    keys.End,
	tcell.KeyPgUp:   keys.PageUp,
	tcell.KeyPgDn:   keys.PageDown,
	tcell.KeyUp:     keys.Up,
	tcell.KeyDown:   keys.Down,
	tcell.KeyLeft:   keys.Left,
	tcell.KeyRight:  keys.Right,
	tcell.KeyF1:     keys.F1,
	tcell.KeyF2:     keys.F2,
	tcell.KeyF3:     keys.F3,
	tcell.KeyF4:     keys.F4,
	tcell.KeyF5:     keys.F5,
	tcell.KeyF6:     keys.F6,
	tcell.KeyF7:     keys.F7,
	tcell.KeyF8:     keys.F8,
	tcell.KeyF9:     keys.F9,
	tcell.KeyF10:    keys.F10,
	tcell.KeyF11:    keys.F11,
	tcell.KeyF12:    keys.F12,
}

var symbolKeys = map[rune]keys.Keycode{
	' ':  keys.Space,
	'`':  keys.Grave,
	'-':  keys.Minus,
	'=':  keys.Equal,
	'[':  keys.LeftBracket,
	']':  keys.RightBracket,
	'\\': keys.BackSlash,
	';':  keys.Semicolon,
	'\'': keys.Apostrophe,
	',':  keys.Comma,
	'.':  keys.Dot,
	'/':  keys.Slash,
}

// shiftedKeys follows the US layout.
var shiftedKeys = map[rune]keys.Keycode{
	'~': keys.Grave,
	'!': keys.Key1,
	'@': keys.Key2,
	'#': keys.Key3,
	'$': keys.Key4,
	'%': keys.Key5,
	'^': keys.Key6,
	'&': keys.Key7,
	'*': keys.Key8,
	'(': keys.Key9,
	')': keys.Key0,
	'_': keys.Minus,
	'+': keys.Equal,
	'{': keys.LeftBracket,
	'}': keys.RightBracket,
	'|': keys.BackSlash,
	':': keys.Semicolon,
	'"': keys.Apostrophe,
	'<': keys.Comma,
	'>': keys.Dot,
	'?': keys.Slash,
}

// convertKey turns a terminal key event into the set of keys it implies,
// modifiers first. It returns nil for events with no key equivalent.
func convertKey(ev *tcell.EventKey) []keys.Keycode {
	mods := ev.Modifiers()
	var key keys.Keycode

	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		var shifted bool
		key, shifted = convertRune(ev.Rune())
		if shifted {
			mods |= tcell.ModShift
		}
	case k == tcell.KeyEnter:
		key = keys.Enter
	case k == tcell.KeyTab:
		key = keys.Tab
	case k == tcell.KeyBacktab:
		key = keys.Tab
		mods |= tcell.ModShift
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		key = keys.Backspace
	case k == tcell.KeyEscape:
		key = keys.Escape
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		key = keys.A + keys.Keycode(k-tcell.KeyCtrlA)
		mods |= tcell.ModCtrl
	default:
		key = specialKeys[k]
	}

	if key == keys.KeyNone {
		return nil
	}

	pressed := make([]keys.Keycode, 0, 4)
	if mods&tcell.ModCtrl != 0 {
		pressed = append(pressed, keys.LControl)
	}
	if mods&tcell.ModShift != 0 {
		pressed = append(pressed, keys.LShift)
	}
	if mods&tcell.ModAlt != 0 {
		pressed = append(pressed, keys.LAlt)
	}
	if mods&tcell.ModMeta != 0 {
		pressed = append(pressed, keys.Meta)
	}
	return append(pressed, key)
}

func convertRune(r rune) (keys.Keycode, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return keys.A + keys.Keycode(r-'a'), false
	case r >= 'A' && r <= 'Z':
		return keys.A + keys.Keycode(r-'A'), true
	case r >= '0' && r <= '9':
		return keys.Key0 + keys.Keycode(r-'0'), false
	}
	if k, ok := symbolKeys[r]; ok {
		return k, false
	}
	if k, ok := shiftedKeys[r]; ok {
		return k, true
	}
	return keys.KeyNone, false
}
