//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

// Forward declaration of the callback
CGEventRef eventCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon);

static CFRunLoopRef tapLoop = NULL;

// Takes uintptr_t to avoid Go unsafe.Pointer conversion
static inline CFMachPortRef createEventTap(uintptr_t refcon) {
    CGEventMask mask = CGEventMaskBit(kCGEventKeyDown) |
                       CGEventMaskBit(kCGEventKeyUp) |
                       CGEventMaskBit(kCGEventFlagsChanged);
    return CGEventTapCreate(
        kCGSessionEventTap,
        kCGHeadInsertEventTap,
        kCGEventTapOptionListenOnly,
        mask,
        eventCallback,
        (void*)refcon
    );
}

// Blocks until stopEventTap is called.
static inline void runEventTap(CFMachPortRef tap) {
    CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
    tapLoop = CFRunLoopGetCurrent();
    CFRunLoopAddSource(tapLoop, source, kCFRunLoopCommonModes);
    CGEventTapEnable(tap, true);
    CFRunLoopRun();

    CFRunLoopRemoveSource(tapLoop, source, kCFRunLoopCommonModes);
    CFRelease(source);
    CFRelease(tap);
    tapLoop = NULL;
}

static inline void stopEventTap(void) {
    if (tapLoop != NULL) {
        CFRunLoopStop(tapLoop);
    }
}
*/
import "C"
import (
	"log"
	"runtime"
	"runtime/cgo"
	"unsafe"

	"kap/pkg/keys"
)

// Device-dependent modifier bits (NX_DEVICE*KEYMASK) distinguish the left
// and right keys in the flags of a FlagsChanged event.
const (
	nxDeviceLCtlKeyMask   = 0x00000001
	nxDeviceLShiftKeyMask = 0x00000002
	nxDeviceRShiftKeyMask = 0x00000004
	nxDeviceLCmdKeyMask   = 0x00000008
	nxDeviceRCmdKeyMask   = 0x00000010
	nxDeviceLAltKeyMask   = 0x00000020
	nxDeviceRAltKeyMask   = 0x00000040
	nxDeviceRCtlKeyMask   = 0x00002000
)

var modifierMasks = map[uint16]uint64{
	59: nxDeviceLCtlKeyMask,
	62: nxDeviceRCtlKeyMask,
	56: nxDeviceLShiftKeyMask,
	60: nxDeviceRShiftKeyMask,
	58: nxDeviceLAltKeyMask,
	61: nxDeviceRAltKeyMask,
	55: nxDeviceLCmdKeyMask,
	54: nxDeviceRCmdKeyMask,
}

//export eventCallback
func eventCallback(proxy C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, refcon unsafe.Pointer) C.CGEventRef {
	h := cgo.Handle(uintptr(refcon))
	m := h.Value().(*Manager)

	keyCode := uint16(C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventKeycode))

	switch eventType {
	case C.kCGEventKeyDown, C.kCGEventKeyUp:
		isDown := eventType == C.kCGEventKeyDown
		if key := macKeyCodeToKey(keyCode); key != keys.KeyNone {
			m.UpdateState(key, isDown)
		}

	case C.kCGEventFlagsChanged:
		flags := uint64(C.CGEventGetFlags(event))
		key := macKeyCodeToKey(keyCode)
		if key == keys.KeyNone {
			break
		}
		// Caps Lock reports its lock state, not the key position.
		if key == keys.CapsLock {
			m.UpdateState(key, true)
			m.UpdateState(key, false)
			break
		}
		if mask, ok := modifierMasks[keyCode]; ok {
			m.UpdateState(key, flags&mask != 0)
		}
	}

	return event
}

func (m *Manager) startPlatform() error {
	handle := cgo.NewHandle(m)
	started := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer handle.Delete()

		tap := C.createEventTap(C.uintptr_t(handle))
		if tap == 0 {
			log.Println("Hotkey Engine: ERROR! Failed to create CGEventTap. Accessibility permissions missing?")
			started <- ErrHookFailed
			return
		}
		log.Println("Hotkey Engine: macOS CGEventTap started.")
		started <- nil

		C.runEventTap(tap)
		log.Println("Hotkey Engine: macOS CGEventTap stopped.")
	}()

	return <-started
}

func (m *Manager) stopPlatform() error {
	C.stopEventTap()
	return nil
}

var macKeys = map[uint16]keys.Keycode{
	59: keys.LControl, 62: keys.RControl,
	56: keys.LShift, 60: keys.RShift,
	58: keys.LAlt, 61: keys.RAlt,
	55: keys.Meta, 54: keys.Meta,

	49:  keys.Space,
	36:  keys.Enter,
	53:  keys.Escape,
	48:  keys.Tab,
	51:  keys.Backspace,
	57:  keys.CapsLock,
	114: keys.Insert,
	117: keys.Delete,

	126: keys.Up,
	125: keys.Down,
	123: keys.Left,
	124: keys.Right,
	115: keys.Home,
	119: keys.End,
	116: keys.PageUp,
	121: keys.PageDown,

	0: keys.A, 11: keys.B, 8: keys.C, 2: keys.D, 14: keys.E, 3: keys.F,
	5: keys.G, 4: keys.H, 34: keys.I, 38: keys.J, 40: keys.K, 37: keys.L,
	46: keys.M, 45: keys.N, 31: keys.O, 35: keys.P, 12: keys.Q, 15: keys.R,
	1: keys.S, 17: keys.T, 32: keys.U, 9: keys.V, 13: keys.W, 7: keys.X,
	16: keys.Y, 6: keys.Z,

	29: keys.Key0, 18: keys.Key1, 19: keys.Key2, 20: keys.Key3, 21: keys.Key4,
	23: keys.Key5, 22: keys.Key6, 26: keys.Key7, 28: keys.Key8, 25: keys.Key9,

	122: keys.F1, 120: keys.F2, 99: keys.F3, 118: keys.F4,
	96: keys.F5, 97: keys.F6, 98: keys.F7, 100: keys.F8,
	101: keys.F9, 109: keys.F10, 103: keys.F11, 111: keys.F12,

	82: keys.Numpad0, 83: keys.Numpad1, 84: keys.Numpad2, 85: keys.Numpad3,
	86: keys.Numpad4, 87: keys.Numpad5, 88: keys.Numpad6, 89: keys.Numpad7,
	91: keys.Numpad8, 92: keys.Numpad9,
	78: keys.NumpadSubtract,
	69: keys.NumpadAdd,
	75: keys.NumpadDivide,
	67: keys.NumpadMultiply,
	65: keys.NumpadDecimal,
	76: keys.NumpadEnter,

	50: keys.Grave,
	27: keys.Minus,
	24: keys.Equal,
	33: keys.LeftBracket,
	30: keys.RightBracket,
	42: keys.BackSlash,
	41: keys.Semicolon,
	39: keys.Apostrophe,
	43: keys.Comma,
	47: keys.Dot,
	44: keys.Slash,
}

func macKeyCodeToKey(code uint16) keys.Keycode {
	return macKeys[code]
}
