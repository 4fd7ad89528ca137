//go:build windows

package hotkey

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"kap/pkg/keys"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessage     = user32.NewProc("DispatchMessageW")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandle     = kernel32.NewProc("GetModuleHandleW")
)

const (
	WH_KEYBOARD_LL = 13
	WM_QUIT        = 0x0012
	WM_KEYDOWN     = 0x0100
	WM_KEYUP       = 0x0101
	WM_SYSKEYDOWN  = 0x0104
	WM_SYSKEYUP    = 0x0105

	LLKHF_EXTENDED = 0x01
)

type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

var (
	hookMu          sync.Mutex
	instanceManager *Manager
	keyboardHook    uintptr
	hookThreadID    uint32
)

func (m *Manager) startPlatform() error {
	hookMu.Lock()
	if keyboardHook != 0 {
		hookMu.Unlock()
		return nil
	}
	instanceManager = m
	hookMu.Unlock()

	started := make(chan error, 1)

	// Hooks must be registered in the same thread that runs the message loop
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		hMod, _, _ := procGetModuleHandle.Call(0)

		hook, _, err := procSetWindowsHookEx.Call(
			WH_KEYBOARD_LL,
			syscall.NewCallback(keyboardHookPtr),
			hMod,
			0,
		)
		if hook == 0 {
			started <- fmt.Errorf("%w: %v", ErrHookFailed, err)
			return
		}

		hookMu.Lock()
		keyboardHook = hook
		hookThreadID = windows.GetCurrentThreadId()
		hookMu.Unlock()

		log.Println("Hotkey Engine: Windows keyboard hook started.")
		started <- nil

		var msg struct {
			Hwnd    syscall.Handle
			Message uint32
			Wparam  uintptr
			Lparam  uintptr
			Time    uint32
			Pt      struct{ X, Y int32 }
		}

		for {
			ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) <= 0 {
				break
			}
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
			procDispatchMessage.Call(uintptr(unsafe.Pointer(&msg)))
		}

		procUnhookWindowsHookEx.Call(hook)

		hookMu.Lock()
		keyboardHook = 0
		hookThreadID = 0
		hookMu.Unlock()
		log.Println("Hotkey Engine: Windows keyboard hook stopped.")
	}()

	return <-started
}

func (m *Manager) stopPlatform() error {
	hookMu.Lock()
	tid := hookThreadID
	hookMu.Unlock()

	if tid == 0 {
		return nil
	}
	ret, _, err := procPostThreadMessage.Call(uintptr(tid), WM_QUIT, 0, 0)
	if ret == 0 {
		return fmt.Errorf("stop keyboard hook: %v", err)
	}
	return nil
}

func keyboardHookPtr(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode == 0 {
		kbd := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))
		key := vkCodeToKey(kbd.VkCode)
		if key == keys.Enter && kbd.Flags&LLKHF_EXTENDED != 0 {
			key = keys.NumpadEnter
		}
		if key != keys.KeyNone {
			isDown := wParam == WM_KEYDOWN || wParam == WM_SYSKEYDOWN
			instanceManager.UpdateState(key, isDown)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(keyboardHook, uintptr(nCode), wParam, lParam)
	return ret
}

// vkKeys maps Windows virtual-key codes. The low-level hook reports the
// sided modifier codes (VK_LCONTROL etc.), the generic ones only appear
// for injected input.
var vkKeys = map[uint32]keys.Keycode{
	0x11: keys.Control, 0xA2: keys.LControl, 0xA3: keys.RControl,
	0x10: keys.Shift, 0xA0: keys.LShift, 0xA1: keys.RShift,
	0x12: keys.Alt, 0xA4: keys.LAlt, 0xA5: keys.RAlt,
	0x5B: keys.Meta, 0x5C: keys.Meta,

	0x1B: keys.Escape,
	0x20: keys.Space,
	0x0D: keys.Enter,
	0x09: keys.Tab,
	0x08: keys.Backspace,
	0x14: keys.CapsLock,
	0x2D: keys.Insert,
	0x2E: keys.Delete,

	0x26: keys.Up,
	0x28: keys.Down,
	0x25: keys.Left,
	0x27: keys.Right,
	0x24: keys.Home,
	0x23: keys.End,
	0x21: keys.PageUp,
	0x22: keys.PageDown,

	0x6D: keys.NumpadSubtract,
	0x6B: keys.NumpadAdd,
	0x6F: keys.NumpadDivide,
	0x6A: keys.NumpadMultiply,
	0x6E: keys.NumpadDecimal,

	0xC0: keys.Grave,
	0xBD: keys.Minus,
	0xBB: keys.Equal,
	0xDB: keys.LeftBracket,
	0xDD: keys.RightBracket,
	0xDC: keys.BackSlash,
	0xBA: keys.Semicolon,
	0xDE: keys.Apostrophe,
	0xBC: keys.Comma,
	0xBE: keys.Dot,
	0xBF: keys.Slash,
}

func vkCodeToKey(vk uint32) keys.Keycode {
	if k, ok := vkKeys[vk]; ok {
		return k
	}

	// Letters A-Z
	if vk >= 0x41 && vk <= 0x5A {
		return keys.A + keys.Keycode(vk-0x41)
	}

	// Numbers 0-9
	if vk >= 0x30 && vk <= 0x39 {
		return keys.Key0 + keys.Keycode(vk-0x30)
	}

	// Numpad 0-9
	if vk >= 0x60 && vk <= 0x69 {
		return keys.Numpad0 + keys.Keycode(vk-0x60)
	}

	// F1-F12
	if vk >= 0x70 && vk <= 0x7B {
		return keys.F1 + keys.Keycode(vk-0x70)
	}

	return keys.KeyNone
}
