// Package tray provides system tray functionality using getlantern/systray.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// MenuItem represents a menu item
type MenuItem struct {
	ID       int
	Title    string
	Checkbox bool
	Checked  bool
	Callback func(checked bool)
	item     *systray.MenuItem
}

// Tray manages the system tray icon and menu
type Tray struct {
	mu      sync.Mutex
	title   string
	tooltip string
	items   []*MenuItem
	quitCh  chan struct{}
	onExit  func()
}

// New creates a new system tray
func New(title, tooltip string) *Tray {
	return &Tray{
		title:   title,
		tooltip: tooltip,
		items:   make([]*MenuItem, 0),
		quitCh:  make(chan struct{}),
	}
}

// OnExit sets a function run after the tray loop ends
func (t *Tray) OnExit(fn func()) {
	t.onExit = fn
}

// AddMenuItem adds a plain menu item to the tray
func (t *Tray) AddMenuItem(title string, callback func()) int {
	var cb func(bool)
	if callback != nil {
		cb = func(bool) { callback() }
	}
	return t.add(&MenuItem{Title: title, Callback: cb})
}

// AddCheckboxItem adds an item that flips its checked state on click
// and passes the new state to callback.
func (t *Tray) AddCheckboxItem(title string, checked bool, callback func(checked bool)) int {
	return t.add(&MenuItem{Title: title, Checkbox: true, Checked: checked, Callback: callback})
}

func (t *Tray) add(mi *MenuItem) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	mi.ID = len(t.items)
	t.items = append(t.items, mi)
	return mi.ID
}

// AddSeparator adds a separator to the menu
func (t *Tray) AddSeparator() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, nil) // nil indicates separator
}

// SetItemChecked sets the checked state of a menu item
func (t *Tray) SetItemChecked(id int, checked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id < 0 || id >= len(t.items) || t.items[id] == nil {
		return
	}
	mi := t.items[id]
	mi.Checked = checked
	if mi.item != nil {
		if checked {
			mi.item.Check()
		} else {
			mi.item.Uncheck()
		}
	}
}

// IsChecked reports the checked state of a menu item
func (t *Tray) IsChecked(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id < 0 || id >= len(t.items) || t.items[id] == nil {
		return false
	}
	return t.items[id].Checked
}

// click runs the callback of item id, toggling checkboxes first.
func (t *Tray) click(id int) {
	t.mu.Lock()
	if id < 0 || id >= len(t.items) || t.items[id] == nil {
		t.mu.Unlock()
		return
	}
	mi := t.items[id]
	if mi.Checkbox {
		mi.Checked = !mi.Checked
		if mi.item != nil {
			if mi.Checked {
				mi.item.Check()
			} else {
				mi.item.Uncheck()
			}
		}
	}
	checked := mi.Checked
	cb := mi.Callback
	t.mu.Unlock()

	if cb != nil {
		cb(checked)
	}
}

// Run starts the tray event loop (blocks)
func (t *Tray) Run() {
	systray.Run(t.setupMenu, func() {
		close(t.quitCh)
		if t.onExit != nil {
			t.onExit()
		}
	})
}

// setupMenu is called when systray is ready
func (t *Tray) setupMenu() {
	systray.SetTitle(t.title)
	systray.SetTooltip(t.tooltip)
	systray.SetIcon(getIcon())

	t.mu.Lock()
	items := append([]*MenuItem(nil), t.items...)
	for _, menuItem := range items {
		if menuItem == nil {
			systray.AddSeparator()
			continue
		}
		if menuItem.Checkbox {
			menuItem.item = systray.AddMenuItemCheckbox(menuItem.Title, "", menuItem.Checked)
		} else {
			menuItem.item = systray.AddMenuItem(menuItem.Title, "")
		}
	}
	t.mu.Unlock()

	for _, menuItem := range items {
		if menuItem == nil {
			continue
		}
		// Handle clicks in goroutine
		go func(mi *MenuItem) {
			for {
				select {
				case <-mi.item.ClickedCh:
					t.click(mi.ID)
				case <-t.quitCh:
					return
				}
			}
		}(menuItem)
	}
}

// Stop stops the tray
func (t *Tray) Stop() {
	systray.Quit()
}

// getIcon returns a placeholder icon (valid 16x16 ICO)
func getIcon() []byte {
	icon := make([]byte, 1118)
	// ICO Header
	copy(icon[0:6], []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00})
	// Icon Directory: 16x16, 32bpp, 1096 bytes at offset 22
	copy(icon[6:22], []byte{
		0x10, 0x10, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00,
		0x48, 0x04, 0x00, 0x00,
		0x16, 0x00, 0x00, 0x00,
	})
	// DIB Header, height doubled for the mask
	copy(icon[22:62], []byte{
		0x28, 0x00, 0x00, 0x00,
		0x10, 0x00, 0x00, 0x00,
		0x20, 0x00, 0x00, 0x00,
		0x01, 0x00,
		0x20, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x04, 0x00, 0x00,
	})
	// Pixels and mask stay 0 for transparency
	return icon
}
