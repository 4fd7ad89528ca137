package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"kap/pkg/keys"
)

func newTestTerminal(t *testing.T) (*Terminal, *time.Time) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(20, 3)
	t.Cleanup(screen.Fini)

	now := time.Unix(0, 0)
	term := NewWithScreen(screen)
	term.now = func() time.Time { return now }
	return term, &now
}

func equalKeys(a, b []keys.Keycode) bool {
	return sameKeys(a, b)
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want []keys.Keycode
	}{
		{"lower letter", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), []keys.Keycode{keys.A}},
		{"upper letter", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModNone), []keys.Keycode{keys.LShift, keys.A}},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '7', tcell.ModNone), []keys.Keycode{keys.Key7}},
		{"shifted digit", tcell.NewEventKey(tcell.KeyRune, '!', tcell.ModNone), []keys.Keycode{keys.LShift, keys.Key1}},
		{"symbol", tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModNone), []keys.Keycode{keys.Slash}},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), []keys.Keycode{keys.Space}},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), []keys.Keycode{keys.LAlt, keys.X}},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl), []keys.Keycode{keys.LControl, keys.B}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), []keys.Keycode{keys.Enter}},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), []keys.Keycode{keys.Tab}},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), []keys.Keycode{keys.Escape}},
		{"function", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), []keys.Keycode{keys.F5}},
		{"shift arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), []keys.Keycode{keys.LShift, keys.Up}},
		{"unknown rune", tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertKey(tt.ev)
			if !equalKeys(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHandleKeyEdgeAndRelease(t *testing.T) {
	term, now := newTestTerminal(t)
	edges := 0
	term.OnKeyDown(func() { edges++ })

	term.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if edges != 1 {
		t.Fatalf("Expected 1 edge, got %d", edges)
	}
	if got := term.PressedKeys(); !equalKeys(got, []keys.Keycode{keys.Q}) {
		t.Errorf("Expected [Q], got %v", got)
	}

	*now = now.Add(DefaultReleaseAfter + time.Millisecond)
	if got := term.PressedKeys(); got != nil {
		t.Errorf("Expected release after the window, got %v", got)
	}
}

func TestHandleKeyAutoRepeat(t *testing.T) {
	term, now := newTestTerminal(t)
	edges := 0
	term.OnKeyDown(func() { edges++ })

	for i := 0; i < 5; i++ {
		term.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
		*now = now.Add(30 * time.Millisecond)
	}
	if edges != 1 {
		t.Errorf("Expected auto-repeat to count once, got %d", edges)
	}

	term.handleKey(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))
	if edges != 2 {
		t.Errorf("Expected a different key to be a new edge, got %d", edges)
	}

	*now = now.Add(time.Second)
	term.handleKey(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))
	if edges != 3 {
		t.Errorf("Expected a re-press after release to be a new edge, got %d", edges)
	}
}

func TestHandleKeyInterrupt(t *testing.T) {
	term, _ := newTestTerminal(t)
	interrupted := false
	term.OnInterrupt(func() { interrupted = true })

	term.handleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	if !interrupted {
		t.Error("Expected Ctrl+C to call the interrupt handler")
	}
}

func TestUnsubscribe(t *testing.T) {
	term, _ := newTestTerminal(t)
	edges := 0
	unsubscribe := term.OnKeyDown(func() { edges++ })
	unsubscribe()

	term.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if edges != 0 {
		t.Errorf("Expected no edges after unsubscribe, got %d", edges)
	}
}

func TestPrintlnScrolls(t *testing.T) {
	term, _ := newTestTerminal(t)
	term.Println("one")
	term.Println("two")
	term.Println("three\nfour")

	r, _, _, _ := term.screen.GetContent(0, 0)
	if r != 't' {
		t.Errorf("Expected top line to be \"two\", got rune %q", r)
	}
	r, _, _, _ = term.screen.GetContent(0, 2)
	if r != 'f' {
		t.Errorf("Expected last line to be \"four\", got rune %q", r)
	}

	term.Clear()
	r, _, _, _ = term.screen.GetContent(0, 0)
	if r != ' ' {
		t.Errorf("Expected cleared screen, got rune %q", r)
	}
}
