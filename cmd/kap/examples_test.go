package main

import (
	"context"
	"testing"
	"time"

	"kap/pkg/kap"
	"kap/pkg/keys"
)

func runExample(t *testing.T, ex example, src *testSource) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ex(ctx, src, []kap.Option{kap.WithTick(time.Millisecond)})
	}()
	return cancel, done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for the example to stop")
	}
}

func TestHotkeyExampleSuccess(t *testing.T) {
	old := hotkeyPause
	hotkeyPause = 10 * time.Millisecond
	defer func() { hotkeyPause = old }()

	src := newTestSource()
	cancel, done := runExample(t, hotkeyExample, src)

	src.press(t, keys.A, keys.LShift, keys.Meta)
	src.press(t, keys.Escape)

	// Next round subscribes again
	src.waitSubscribed(t)
	cancel()
	waitDone(t, done)

	lines, clears := src.output()
	expected := []string{"Press Cmd+Shift+A", "Nice! Then press <Esc>", "Let's go!", "Press Cmd+Shift+A"}
	if len(lines) < len(expected) {
		t.Fatalf("Expected at least %d lines, got %q", len(expected), lines)
	}
	for i, line := range expected {
		if lines[i] != line {
			t.Errorf("Expected line %d to be %q, got %q", i, line, lines[i])
		}
	}
	if clears < 3 {
		t.Errorf("Expected at least 3 clears, got %d", clears)
	}
}

func TestHotkeyExampleWrongKey(t *testing.T) {
	old := hotkeyPause
	hotkeyPause = 10 * time.Millisecond
	defer func() { hotkeyPause = old }()

	src := newTestSource()
	cancel, done := runExample(t, hotkeyExample, src)

	src.press(t, keys.LControl, keys.LShift, keys.A)
	src.press(t, keys.B)

	src.waitForLine(t, "Too slow, try again!")
	cancel()
	waitDone(t, done)

	lines, _ := src.output()
	for _, line := range lines {
		if line == "Let's go!" {
			t.Errorf("Expected no success line, got %q", lines)
		}
	}
}

func TestLoopExampleStopsOnCancel(t *testing.T) {
	src := newTestSource()
	cancel, done := runExample(t, loopExample, src)

	src.press(t, keys.A)
	src.waitForLine(t, "[info]: Pressed A")
	cancel()
	waitDone(t, done)

	lines, _ := src.output()
	if lines[0] != "[info]: Basic example, press A" {
		t.Errorf("Expected intro line first, got %q", lines[0])
	}
}

func TestBasicExampleCancelled(t *testing.T) {
	src := newTestSource()
	cancel, done := runExample(t, basicExample, src)

	src.waitSubscribed(t)
	cancel()
	waitDone(t, done)

	lines, _ := src.output()
	if len(lines) != 2 || lines[1] != "[info]: Done" {
		t.Errorf("Expected intro and done lines only, got %q", lines)
	}
}

func TestExampleCommandsCoverEveryExample(t *testing.T) {
	cmds := exampleCommands()
	if len(cmds) != 5 {
		t.Fatalf("Expected 5 example commands, got %d", len(cmds))
	}
	names := map[string]bool{}
	for _, c := range cmds {
		names[c.Name] = true
	}
	for _, name := range []string{"basic", "group", "hotkey", "within", "loop"} {
		if !names[name] {
			t.Errorf("Expected example command %q", name)
		}
	}
}
